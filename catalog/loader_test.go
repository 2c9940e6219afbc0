package catalog

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/summarist-cli/summarist/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestLoader(t *testing.T) {
	Convey("Given a loader", t, func() {
		loader := NewLoader(nil)

		bookA := &Book{ID: "a", Title: "Atomic Habits"}
		bookB := &Book{ID: "b", Title: "Deep Work"}

		Convey("A committed fetch becomes the current book", func() {
			token := loader.Begin(bookA.ID)
			accepted := token.Commit(bookA, nil)
			So(accepted, ShouldBeTrue)

			state, book, err := loader.Snapshot()
			So(state, ShouldEqual, StateReady)
			So(book, ShouldEqual, bookA)
			So(err, ShouldBeNil)
		})

		Convey("A failed fetch surfaces the error", func() {
			token := loader.Begin(bookA.ID)
			accepted := token.Commit(nil, errors.New("HTTP error! status: 404 - Not Found"))
			So(accepted, ShouldBeTrue)

			state, book, err := loader.Snapshot()
			So(state, ShouldEqual, StateFailed)
			So(book, ShouldBeNil)
			So(err, ShouldNotBeNil)
		})

		Convey("A stale response cannot overwrite a newer request", func() {
			tokenA := loader.Begin(bookA.ID)
			tokenB := loader.Begin(bookB.ID)

			// B resolves first, then the slow A response arrives
			So(tokenB.Commit(bookB, nil), ShouldBeTrue)
			So(tokenA.Commit(bookA, nil), ShouldBeFalse)

			state, book, _ := loader.Snapshot()
			So(state, ShouldEqual, StateReady)
			So(book, ShouldEqual, bookB)
		})

		Convey("A stale failure cannot overwrite a newer request either", func() {
			tokenA := loader.Begin(bookA.ID)
			tokenB := loader.Begin(bookB.ID)

			So(tokenB.Commit(bookB, nil), ShouldBeTrue)
			So(tokenA.Commit(nil, errors.New("Unknown error")), ShouldBeFalse)

			state, book, err := loader.Snapshot()
			So(state, ShouldEqual, StateReady)
			So(book, ShouldEqual, bookB)
			So(err, ShouldBeNil)
		})
	})
}
