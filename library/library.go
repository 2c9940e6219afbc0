// Package library tracks and toggles membership of books in the current user's saved collection.
package library

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/summarist-cli/summarist/account"
	"github.com/summarist-cli/summarist/catalog"
	accsync "github.com/summarist-cli/summarist/internal/sync"
	"github.com/summarist-cli/summarist/log"
	"github.com/summarist-cli/summarist/session"
)

// ErrSignInRequired is returned when a write is attempted without a session.
// The sign-in flow has already been triggered by the time callers see it.
var ErrSignInRequired = errors.New("sign in required")

// Store is the slice of the per-user document store the tracker depends on.
type Store interface {
	UpsertProfile(ctx context.Context, uid, email string) error
	HasLibraryEntry(ctx context.Context, uid, bookID string) (bool, error)
	PutLibraryEntry(ctx context.Context, uid string, book *catalog.Book) error
	DeleteLibraryEntry(ctx context.Context, uid, bookID string) error
	ListLibrary(ctx context.Context, uid string) ([]*account.LibraryEntry, error)
}

// Tracker keeps a local membership flag per book, consistent with the last
// successful remote write. Failed writes leave the flag untouched so the UI
// never claims a change that did not durably happen.
type Tracker struct {
	store         Store
	sessions      session.Source
	requestSignIn func()

	mu         sync.Mutex
	membership map[string]bool
}

// NewTracker returns a tracker over the given store and session source.
// requestSignIn is invoked when a write is attempted while signed out.
func NewTracker(store Store, sessions session.Source, requestSignIn func()) *Tracker {
	return &Tracker{
		store:         store,
		sessions:      sessions,
		requestSignIn: requestSignIn,
		membership:    make(map[string]bool),
	}
}

// Reset drops all local membership flags. Wired to session-changed events so
// one user's flags never leak into another's view.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.membership = make(map[string]bool)
}

// InLibrary returns the local membership flag for the given book.
func (t *Tracker) InLibrary(bookID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.membership[bookID]
}

func (t *Tracker) setFlag(bookID string, present bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.membership[bookID] = present
}

// CheckMembership performs an existence check against the remote collection
// and refreshes the local flag. Signed-out visitors own no library.
func (t *Tracker) CheckMembership(ctx context.Context, bookID string) (bool, error) {
	current := t.sessions.Current()
	if current == nil {
		return false, nil
	}

	present, err := t.store.HasLibraryEntry(ctx, current.UID, bookID)
	if err != nil {
		log.Errorf("Library membership check failed for %s: %v", bookID, err)
		return false, err
	}

	t.setFlag(bookID, present)
	return present, nil
}

// Add saves the book into the user's collection. The profile upsert runs
// first so the users/{uid} document always exists before its sub-collection.
// Re-adding an already saved book simply overwrites the entry.
func (t *Tracker) Add(ctx context.Context, book *catalog.Book) error {
	current := t.sessions.Current()
	if current == nil {
		if t.requestSignIn != nil {
			t.requestSignIn()
		}
		return ErrSignInRequired
	}

	if err := t.store.UpsertProfile(ctx, current.UID, current.Email); err != nil {
		log.Errorf("Profile upsert failed for %s: %v", current.UID, err)
		return err
	}

	if err := t.store.PutLibraryEntry(ctx, current.UID, book); err != nil {
		log.Errorf("Saving book %s failed: %v", book.ID, err)

		// Queue the write for background replay on the next startup. The
		// local flag stays untouched until a write actually lands.
		if payload, jsonErr := json.Marshal(book); jsonErr == nil {
			path := account.LibraryEntryPath(current.UID, book.ID)
			if queueErr := accsync.QueueFailure(current.UID, http.MethodPut, path, string(payload)); queueErr != nil {
				log.Warnf("Queueing failed write for replay failed: %v", queueErr)
			}
		}
		return err
	}

	t.setFlag(book.ID, true)
	return nil
}

// Remove deletes the book from the user's collection. Removing an absent
// entry, or removing while signed out, is a no-op success.
func (t *Tracker) Remove(ctx context.Context, bookID string) error {
	current := t.sessions.Current()
	if current == nil {
		return nil
	}

	if err := t.store.DeleteLibraryEntry(ctx, current.UID, bookID); err != nil {
		log.Errorf("Removing book %s failed: %v", bookID, err)
		return err
	}

	t.setFlag(bookID, false)
	return nil
}

// List scans the user's saved collection.
func (t *Tracker) List(ctx context.Context) ([]*account.LibraryEntry, error) {
	current := t.sessions.Current()
	if current == nil {
		return nil, nil
	}

	entries, err := t.store.ListLibrary(ctx, current.UID)
	if err != nil {
		log.Errorf("Library scan failed: %v", err)
		return nil, err
	}

	t.mu.Lock()
	for _, entry := range entries {
		t.membership[entry.ID] = true
	}
	t.mu.Unlock()

	return entries, nil
}
