package query

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/summarist-cli/summarist/filesystem"
	"github.com/summarist-cli/summarist/key"
)

func init() {
	filesystem.SetMemMapFs()
	// Ensure suggestions are enabled for tests
	viper.Set(key.SearchShowQuerySuggestions, true)
}

func TestQuery(t *testing.T) {
	Convey("Given query history", t, func() {
		q1 := "atomic habits"
		q2 := "deep work"

		Convey("When remembering queries", func() {
			err := Remember(q1, 1)
			So(err, ShouldBeNil)
			err = Remember(q2, 10) // Higher weight
			So(err, ShouldBeNil)

			Convey("Then suggestions should be sorted by rank", func() {
				// Clear memory cache to force read from file
				suggestionCache = make(map[string][]*queryRecord)

				viper.Set(key.SearchShowQuerySuggestions, true)

				s := SuggestMany("dee")
				So(len(s), ShouldBeGreaterThanOrEqualTo, 1)
				So(s[0], ShouldEqual, "deep work")
			})

			Convey("It sanitizes input", func() {
				So(sanitize("  Atomic Habits  "), ShouldEqual, "atomic habits")
			})
		})
	})
}
