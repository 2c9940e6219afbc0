package sync

import (
	"net/http"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/summarist-cli/summarist/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestQueue(t *testing.T) {
	Convey("Given the failed-write queue", t, func() {
		Convey("With no log file there is nothing pending", func() {
			pending, err := Pending()
			So(err, ShouldBeNil)
			So(pending, ShouldBeEmpty)
		})

		Convey("Queued mutations come back in failure order", func() {
			So(QueueFailure("u1", http.MethodPut, "/users/u1/myBooks/b1", `{"id":"b1"}`), ShouldBeNil)
			So(QueueFailure("u1", http.MethodPatch, "/users/u1", `{"email":"reader@example.com"}`), ShouldBeNil)

			pending, err := Pending()
			So(err, ShouldBeNil)
			So(len(pending), ShouldEqual, 2)
			So(pending[0].Method, ShouldEqual, http.MethodPut)
			So(pending[0].Path, ShouldEqual, "/users/u1/myBooks/b1")
			So(pending[1].Method, ShouldEqual, http.MethodPatch)
			So(pending[1].Payload, ShouldEqual, `{"email":"reader@example.com"}`)

			Convey("And dropping the log clears the queue", func() {
				So(filesystem.API().Remove(syncFile()), ShouldBeNil)
				pending, err := Pending()
				So(err, ShouldBeNil)
				So(pending, ShouldBeEmpty)
			})
		})
	})
}
