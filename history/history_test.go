package history

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/summarist-cli/summarist/catalog"
	"github.com/summarist-cli/summarist/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestHistory(t *testing.T) {
	Convey("Given a book", t, func() {
		book := catalog.Book{
			ID:        "hist-1",
			Title:     "Deep Work",
			Author:    "Cal Newport",
			AudioLink: "https://example.com/deep-work.mp3",
		}

		Convey("When saving the book", func() {
			err := Save(&book, 120, 600)
			Convey("Then the error should be nil", func() {
				So(err, ShouldBeNil)

				Convey("And the book should be saved with its position", func() {
					books, err := Get()
					So(err, ShouldBeNil)
					So(len(books), ShouldBeGreaterThan, 0)
					So(books[book.ID].Title, ShouldEqual, book.Title)
					So(books[book.ID].Position, ShouldEqual, 120)
					So(books[book.ID].Percentage, ShouldEqual, 20)
				})

				Convey("And saving an earlier position keeps the furthest one", func() {
					So(Save(&book, 30, 600), ShouldBeNil)
					books, err := Get()
					So(err, ShouldBeNil)
					So(books[book.ID].Position, ShouldEqual, 120)
				})

				Convey("And removing the record deletes it", func() {
					books, err := Get()
					So(err, ShouldBeNil)
					So(Remove(books[book.ID]), ShouldBeNil)

					books, err = Get()
					So(err, ShouldBeNil)
					So(books[book.ID], ShouldBeNil)
				})
			})
		})
	})
}
