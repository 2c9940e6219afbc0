package session

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestStore(t *testing.T) {
	Convey("Given a session store", t, func() {
		store := NewStore()

		Convey("It starts anonymous", func() {
			So(store.Current(), ShouldBeNil)
		})

		Convey("Set replaces the current session", func() {
			store.Set(&Session{UID: "u1", Email: "reader@example.com"})
			So(store.Current().UID, ShouldEqual, "u1")

			store.Clear()
			So(store.Current(), ShouldBeNil)
		})

		Convey("Subscribers receive the current session immediately", func() {
			store.Set(&Session{UID: "u1"})

			var got *Session
			store.Subscribe(func(s *Session) { got = s })
			So(got, ShouldNotBeNil)
			So(got.UID, ShouldEqual, "u1")
		})

		Convey("Subscribers are notified on every change", func() {
			var events []*Session
			store.Subscribe(func(s *Session) { events = append(events, s) })

			store.Set(&Session{UID: "u2"})
			store.Clear()

			So(len(events), ShouldEqual, 3) // initial + two changes
			So(events[1].UID, ShouldEqual, "u2")
			So(events[2], ShouldBeNil)
		})
	})
}
