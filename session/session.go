// Package session holds the process-wide authenticated-identity state and its change notifications.
package session

// Session describes the currently authenticated identity.
type Session struct {
	UID       string `json:"uid"`
	Email     string `json:"email"`
	Anonymous bool   `json:"anonymous"`
}

// Source exposes read access to the current session for components that must
// not depend on the concrete store, so tests can substitute fakes.
type Source interface {
	// Current returns the live session, or nil for an anonymous visitor.
	Current() *Session
}

// Listener receives session-changed events. A nil session means signed out.
type Listener func(*Session)
