package progress

import (
	"fmt"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFormatTime(t *testing.T) {
	Convey("FormatTime", t, func() {
		Convey("Zero-pads both fields", func() {
			So(FormatTime(0), ShouldEqual, "00:00")
			So(FormatTime(5), ShouldEqual, "00:05")
			So(FormatTime(125), ShouldEqual, "02:05")
			So(FormatTime(600), ShouldEqual, "10:00")
		})

		Convey("Minutes grow past an hour without truncation", func() {
			So(FormatTime(3600), ShouldEqual, "60:00")
			So(FormatTime(7325), ShouldEqual, "122:05")
		})

		Convey("Defends against invalid inputs", func() {
			So(FormatTime(-3), ShouldEqual, "00:00")
			So(FormatTime(math.NaN()), ShouldEqual, "00:00")
		})

		Convey("Always matches MM:SS", func() {
			for _, seconds := range []float64{0, 1, 59, 60, 61, 599, 3599} {
				formatted := FormatTime(seconds)
				So(formatted, ShouldNotBeEmpty)
				var m, s int
				_, err := fmt.Sscanf(formatted, "%02d:%02d", &m, &s)
				So(err, ShouldBeNil)
				So(s, ShouldBeBetweenOrEqual, 0, 59)
			}
		})
	})
}

func TestPercent(t *testing.T) {
	Convey("Percent", t, func() {
		Convey("Rounds the position ratio", func() {
			So(Percent(0, 60), ShouldEqual, 0)
			So(Percent(30, 60), ShouldEqual, 50)
			So(Percent(1, 3), ShouldEqual, 33)
			So(Percent(2, 3), ShouldEqual, 67)
			So(Percent(60, 60), ShouldEqual, 100)
		})

		Convey("Falsy duration yields zero", func() {
			So(Percent(10, 0), ShouldEqual, 0)
			So(Percent(10, math.NaN()), ShouldEqual, 0)
		})

		Convey("Clamps floating point overshoot", func() {
			So(Percent(60.4, 60), ShouldEqual, 100)
			So(Percent(-1, 60), ShouldEqual, 0)
		})

		Convey("Stays within bounds for the whole range", func() {
			for current := 0.0; current <= 60; current += 7.3 {
				p := Percent(current, 60)
				So(p, ShouldBeBetweenOrEqual, 0, 100)
			}
		})
	})
}

func TestRender(t *testing.T) {
	Convey("Render", t, func() {
		snapshot := Render(125, 600)
		So(snapshot.FormattedCurrent, ShouldEqual, "02:05")
		So(snapshot.FormattedTotal, ShouldEqual, "10:00")
		So(snapshot.Percent, ShouldEqual, 21)
	})
}
