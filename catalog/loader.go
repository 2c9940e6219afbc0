// Package catalog provides a client for the hosted book catalog service.
package catalog

import (
	"context"
	"sync"

	"github.com/summarist-cli/summarist/log"
)

// LoadState tracks the lifecycle of a single book fetch.
type LoadState int

const (
	StateIdle LoadState = iota
	StateLoading
	StateReady
	StateFailed
)

// Loader owns the book record for the active view. Rapid id changes are
// protected by a request generation: a response commits only when it still
// belongs to the latest requested id, so a slow earlier fetch can never
// overwrite a newer one.
type Loader struct {
	client *Client

	mu         sync.Mutex
	generation uint64
	id         string
	state      LoadState
	book       *Book
	err        error
}

// NewLoader returns a Loader backed by the given catalog client.
func NewLoader(client *Client) *Loader {
	return &Loader{client: client}
}

// Token binds an in-flight fetch to the generation that requested it.
type Token struct {
	loader     *Loader
	generation uint64
	id         string
}

// Begin registers the intent to load the given book id and moves the loader
// into the loading state. The returned token must be used to commit the result.
func (l *Loader) Begin(id string) Token {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.generation++
	l.id = id
	l.state = StateLoading
	return Token{loader: l, generation: l.generation, id: id}
}

// Commit applies a fetch result. It reports whether the result was accepted:
// stale responses, issued for a superseded generation, are discarded.
func (t Token) Commit(book *Book, err error) bool {
	l := t.loader
	l.mu.Lock()
	defer l.mu.Unlock()

	if t.generation != l.generation {
		log.Infof("Discarding stale response for book %s", t.id)
		return false
	}

	if err != nil {
		l.state = StateFailed
		l.book = nil
		l.err = err
		return true
	}

	l.state = StateReady
	l.book = book
	l.err = nil
	return true
}

// Load fetches the book with the given id and commits the result, honoring
// the stale-response guard.
func (l *Loader) Load(ctx context.Context, id string) {
	token := l.Begin(id)
	book, err := l.client.GetBook(ctx, id)
	token.Commit(book, err)
}

// Snapshot returns the current load state, the loaded book (when ready) and
// the fetch error (when failed).
func (l *Loader) Snapshot() (LoadState, *Book, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state, l.book, l.err
}
