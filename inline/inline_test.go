package inline

import (
	"bytes"
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/summarist-cli/summarist/catalog"
)

func TestWriteJsonResponse(t *testing.T) {
	Convey("writeJson", t, func() {
		Convey("Should produce valid JSON for an empty result set", func() {
			var buf bytes.Buffer
			opts := &Options{Query: "test", Json: true}
			err := writeJson(&buf, nil, opts)
			So(err, ShouldBeNil)

			var output Output
			err = json.Unmarshal(buf.Bytes(), &output)
			So(err, ShouldBeNil)
			So(output.Query, ShouldEqual, "test")
			So(output.Result, ShouldHaveLength, 0)
		})
	})
}

func TestParseBookPicker(t *testing.T) {
	Convey("Given a result set", t, func() {
		books := []*catalog.Book{
			{ID: "1", Title: "Atomic Habits"},
			{ID: "2", Title: "Deep Work"},
			{ID: "3", Title: "The Lean Startup"},
		}

		Convey("first picks the head", func() {
			picker, err := ParseBookPicker("first", "")
			So(err, ShouldBeNil)
			So(picker(books).ID, ShouldEqual, "1")
		})

		Convey("last picks the tail", func() {
			picker, err := ParseBookPicker("last", "")
			So(err, ShouldBeNil)
			So(picker(books).ID, ShouldEqual, "3")
		})

		Convey("exact matches the full title", func() {
			picker, err := ParseBookPicker("exact", "Deep Work")
			So(err, ShouldBeNil)
			So(picker(books).ID, ShouldEqual, "2")
			So(picker(books[:1]), ShouldBeNil)
		})

		Convey("index is clamped to the result bounds", func() {
			picker, err := ParseBookPicker("index", "99")
			So(err, ShouldBeNil)
			So(picker(books).ID, ShouldEqual, "3")
		})

		Convey("unknown kinds are rejected", func() {
			_, err := ParseBookPicker("fanciest", "")
			So(err, ShouldNotBeNil)
		})
	})
}
