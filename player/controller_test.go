package player

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

// fakePlayer is a scripted Player backend for controller tests.
type fakePlayer struct {
	paused   bool
	position float64
	seekErr  error
	seeks    []float64
	toggles  int
}

func (f *fakePlayer) Play(string, string, map[string]string) error { return nil }
func (f *fakePlayer) TogglePause() error {
	f.toggles++
	f.paused = !f.paused
	return nil
}
func (f *fakePlayer) GetTimePos() (float64, error)         { return f.position, nil }
func (f *fakePlayer) GetDuration() (float64, error)        { return 0, nil }
func (f *fakePlayer) GetPercentListened() (float64, error) { return 0, nil }
func (f *fakePlayer) GetPausedStatus() (bool, error)       { return f.paused, nil }
func (f *fakePlayer) HasActivePlayback() (bool, error)     { return true, nil }
func (f *fakePlayer) Seek(seconds float64) error {
	if f.seekErr != nil {
		return f.seekErr
	}
	f.seeks = append(f.seeks, seconds)
	f.position = seconds
	return nil
}
func (f *fakePlayer) IsRunning() bool                              { return true }
func (f *fakePlayer) Close() error                                 { return nil }
func (f *fakePlayer) Socket() string                               { return "" }
func (f *fakePlayer) StartIPCTicker(func(timePos, duration int))   {}
func (f *fakePlayer) StopIPCTicker()                               {}
func (f *fakePlayer) Wait() <-chan struct{}                        { return nil }

func TestController(t *testing.T) {
	Convey("Given a controller over a fake backend", t, func() {
		backend := &fakePlayer{paused: true}
		controller := NewController(backend)

		// Simulate metadata loaded at one minute
		controller.HandleEvent("duration", 60.0)

		Convey("Skip clamps at the lower bound", func() {
			controller.HandleEvent("time-pos", 5.0)
			So(controller.Skip(-10), ShouldBeNil)
			So(controller.Status().Position, ShouldEqual, 0)
			So(backend.seeks, ShouldResemble, []float64{0})
		})

		Convey("Skip clamps at the upper bound", func() {
			controller.HandleEvent("time-pos", 55.0)
			So(controller.Skip(10), ShouldBeNil)
			So(controller.Status().Position, ShouldEqual, 60)
			So(backend.seeks, ShouldResemble, []float64{60})
		})

		Convey("Seek clamps direct targets", func() {
			So(controller.Seek(999), ShouldBeNil)
			So(controller.Status().Position, ShouldEqual, 60)

			So(controller.Seek(-5), ShouldBeNil)
			So(controller.Status().Position, ShouldEqual, 0)
		})

		Convey("TogglePlayPause reflects the backend's real state", func() {
			So(controller.TogglePlayPause(), ShouldBeNil)
			So(controller.Status().Playing, ShouldBeTrue)

			So(controller.TogglePlayPause(), ShouldBeNil)
			So(controller.Status().Playing, ShouldBeFalse)
		})

		Convey("External pause events override the local flag", func() {
			So(controller.TogglePlayPause(), ShouldBeNil)
			So(controller.Status().Playing, ShouldBeTrue)

			// Backend paused without a toggle call (e.g. interrupted externally)
			controller.HandleEvent("pause", true)
			So(controller.Status().Playing, ShouldBeFalse)
		})

		Convey("Position events past the duration are clamped", func() {
			controller.HandleEvent("time-pos", 60.4)
			So(controller.Status().Position, ShouldEqual, 60)
		})

		Convey("Reaching end of file stops playback at the duration", func() {
			controller.HandleEvent("pause", false)
			controller.HandleEvent("eof-reached", true)

			status := controller.Status()
			So(status.Playing, ShouldBeFalse)
			So(status.Position, ShouldEqual, 60)
		})
	})

	Convey("Given a controller before metadata has loaded", t, func() {
		backend := &fakePlayer{}
		controller := NewController(backend)

		Convey("Skip and seek no-op instead of erroring", func() {
			So(controller.Skip(10), ShouldBeNil)
			So(controller.Seek(30), ShouldBeNil)
			So(backend.seeks, ShouldBeEmpty)
			So(controller.Status().Duration, ShouldEqual, 0)
		})
	})

	Convey("Given a media error", t, func() {
		backend := &fakePlayer{seekErr: errors.New("unsupported source")}
		controller := NewController(backend)
		controller.HandleEvent("duration", 60.0)
		controller.HandleEvent("end-file", map[string]interface{}{"reason": "error"})

		Convey("All operations become no-ops", func() {
			So(controller.Status().Errored, ShouldBeTrue)
			So(controller.TogglePlayPause(), ShouldBeNil)
			So(backend.toggles, ShouldEqual, 0)

			So(controller.Skip(10), ShouldBeNil)
			So(controller.Seek(30), ShouldBeNil)
			So(backend.seeks, ShouldBeEmpty)
		})
	})
}
