package library

import (
	"context"
	"errors"
	"net/http"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/summarist-cli/summarist/account"
	"github.com/summarist-cli/summarist/catalog"
	"github.com/summarist-cli/summarist/filesystem"
	accsync "github.com/summarist-cli/summarist/internal/sync"
	"github.com/summarist-cli/summarist/session"
)

func init() {
	filesystem.SetMemMapFs()
}

// fakeStore is an in-memory Store recording every write.
type fakeStore struct {
	entries  map[string]map[string]*catalog.Book
	profiles map[string]string
	failNext error
	failPut  error
	writes   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		entries:  make(map[string]map[string]*catalog.Book),
		profiles: make(map[string]string),
	}
}

func (f *fakeStore) fail() error {
	if err := f.failNext; err != nil {
		f.failNext = nil
		return err
	}
	return nil
}

func (f *fakeStore) UpsertProfile(_ context.Context, uid, email string) error {
	if err := f.fail(); err != nil {
		return err
	}
	f.writes++
	f.profiles[uid] = email
	return nil
}

func (f *fakeStore) HasLibraryEntry(_ context.Context, uid, bookID string) (bool, error) {
	if err := f.fail(); err != nil {
		return false, err
	}
	_, ok := f.entries[uid][bookID]
	return ok, nil
}

func (f *fakeStore) PutLibraryEntry(_ context.Context, uid string, book *catalog.Book) error {
	if err := f.fail(); err != nil {
		return err
	}
	if f.failPut != nil {
		return f.failPut
	}
	f.writes++
	if f.entries[uid] == nil {
		f.entries[uid] = make(map[string]*catalog.Book)
	}
	f.entries[uid][book.ID] = book
	return nil
}

func (f *fakeStore) DeleteLibraryEntry(_ context.Context, uid, bookID string) error {
	if err := f.fail(); err != nil {
		return err
	}
	f.writes++
	delete(f.entries[uid], bookID)
	return nil
}

func (f *fakeStore) ListLibrary(_ context.Context, uid string) ([]*account.LibraryEntry, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	var list []*account.LibraryEntry
	for _, book := range f.entries[uid] {
		list = append(list, &account.LibraryEntry{Book: *book})
	}
	return list, nil
}

func TestTracker(t *testing.T) {
	Convey("Given a tracker with a signed-in user", t, func() {
		ctx := context.Background()
		store := newFakeStore()
		sessions := session.NewStore()
		sessions.Set(&session.Session{UID: "u1", Email: "reader@example.com"})

		var signInRequested bool
		tracker := NewTracker(store, sessions, func() { signInRequested = true })

		book := &catalog.Book{ID: "b1", Title: "Atomic Habits"}

		Convey("Add followed by CheckMembership returns true", func() {
			So(tracker.Add(ctx, book), ShouldBeNil)

			present, err := tracker.CheckMembership(ctx, book.ID)
			So(err, ShouldBeNil)
			So(present, ShouldBeTrue)
			So(tracker.InLibrary(book.ID), ShouldBeTrue)

			Convey("And the profile was upserted first", func() {
				So(store.profiles["u1"], ShouldEqual, "reader@example.com")
			})

			Convey("Remove followed by CheckMembership returns false", func() {
				So(tracker.Remove(ctx, book.ID), ShouldBeNil)

				present, err := tracker.CheckMembership(ctx, book.ID)
				So(err, ShouldBeNil)
				So(present, ShouldBeFalse)
				So(tracker.InLibrary(book.ID), ShouldBeFalse)
			})
		})

		Convey("Re-adding an already present book is idempotent", func() {
			So(tracker.Add(ctx, book), ShouldBeNil)
			So(tracker.Add(ctx, book), ShouldBeNil)
			So(len(store.entries["u1"]), ShouldEqual, 1)
		})

		Convey("A failed write leaves the local flag unchanged", func() {
			store.failNext = errors.New("write failed")
			err := tracker.Add(ctx, book)
			So(err, ShouldNotBeNil)
			So(tracker.InLibrary(book.ID), ShouldBeFalse)
		})

		Convey("A failed save is queued for replay against the store path", func() {
			store.failPut = errors.New("store unavailable")
			err := tracker.Add(ctx, book)
			So(err, ShouldNotBeNil)
			So(tracker.InLibrary(book.ID), ShouldBeFalse)

			pending, err := accsync.Pending()
			So(err, ShouldBeNil)
			So(len(pending), ShouldEqual, 1)
			So(pending[0].UID, ShouldEqual, "u1")
			So(pending[0].Method, ShouldEqual, http.MethodPut)
			So(pending[0].Path, ShouldEqual, account.LibraryEntryPath("u1", book.ID))
		})

		Convey("Removing an absent entry is a no-op success", func() {
			So(tracker.Remove(ctx, "never-added"), ShouldBeNil)
		})

		Convey("With no session", func() {
			sessions.Clear()
			tracker.Reset()

			Convey("Add triggers the sign-in flow and performs no write", func() {
				err := tracker.Add(ctx, book)
				So(err, ShouldEqual, ErrSignInRequired)
				So(signInRequested, ShouldBeTrue)
				So(store.writes, ShouldEqual, 0)
			})

			Convey("Remove is a no-op", func() {
				So(tracker.Remove(ctx, book.ID), ShouldBeNil)
				So(store.writes, ShouldEqual, 0)
			})

			Convey("CheckMembership reports absent", func() {
				present, err := tracker.CheckMembership(ctx, book.ID)
				So(err, ShouldBeNil)
				So(present, ShouldBeFalse)
			})
		})
	})
}
