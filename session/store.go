package session

import (
	"sync"

	"github.com/summarist-cli/summarist/log"
)

// Store is the single live holder of the current session. It mirrors the
// identity provider's session-changed event stream: every Set fans out to all
// subscribed listeners.
type Store struct {
	mu        sync.RWMutex
	current   *Session
	listeners []Listener
}

// NewStore returns an empty store representing an anonymous visitor.
func NewStore() *Store {
	return &Store{}
}

// Current implements Source.
func (s *Store) Current() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set replaces the live session and notifies all listeners.
func (s *Store) Set(session *Session) {
	s.mu.Lock()
	s.current = session
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	if session == nil {
		log.Info("Session cleared")
	} else {
		log.Infof("Session changed, uid: %s", session.UID)
	}

	for _, listener := range listeners {
		listener(session)
	}
}

// Clear signs the current identity out.
func (s *Store) Clear() {
	s.Set(nil)
}

// Subscribe registers a listener for session-changed events. The listener is
// immediately invoked with the current session so subscribers never observe a
// gap between subscribing and the first event.
func (s *Store) Subscribe(listener Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, listener)
	current := s.current
	s.mu.Unlock()

	listener(current)
}
