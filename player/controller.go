// Package player defines a unified abstraction layer for audio playback engines.
package player

import (
	"sync"

	"github.com/summarist-cli/summarist/log"
	"github.com/summarist-cli/summarist/util"
)

// Status is the derived playback state mirrored from the live media handle.
type Status struct {
	Position float64
	Duration float64
	Playing  bool
	Errored  bool
}

// Controller owns the single media handle of the player view and derives
// play/pause state, elapsed time and total duration from the backend's
// property events. Only the controller mutates the handle; every other
// component reads the derived Status.
//
// Duration stays 0 until the media's metadata has loaded. All position
// operations no-op safely while it is unknown, and become permanent no-ops
// once the backend reports a media error.
type Controller struct {
	player Player

	mu       sync.Mutex
	position float64
	duration float64
	playing  bool
	errored  bool

	listener *EventListener
}

// NewController returns a controller over the given playback backend.
func NewController(p Player) *Controller {
	return &Controller{player: p}
}

// Listen attaches the controller to the backend's property event stream.
func (c *Controller) Listen() error {
	c.listener = NewEventListener(c.player.Socket(), c.HandleEvent)
	return c.listener.Start()
}

// Detach stops the event stream. The controller keeps its last known state.
func (c *Controller) Detach() {
	if c.listener != nil {
		c.listener.Stop()
		c.listener = nil
	}
}

// HandleEvent mirrors backend property changes into the derived state.
// Wired as the EventListener callback so the status always reflects the
// media handle's real state, including playback interrupted externally.
func (c *Controller) HandleEvent(property string, data interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch property {
	case "time-pos":
		if pos, ok := data.(float64); ok {
			c.position = pos
			if c.duration > 0 && c.position > c.duration {
				c.position = c.duration
			}
		}
	case "duration":
		if dur, ok := data.(float64); ok && dur > 0 {
			c.duration = dur
		}
	case "pause":
		if paused, ok := data.(bool); ok {
			c.playing = !paused
		}
	case "eof-reached":
		if reached, ok := data.(bool); ok && reached {
			c.playing = false
			if c.duration > 0 {
				c.position = c.duration
			}
		}
	case "end-file":
		// A failed load surfaces as an end-file event with reason "error".
		if event, ok := data.(map[string]interface{}); ok {
			if reason, _ := event["reason"].(string); reason == "error" {
				log.Errorf("Media error reported by player: %v", event)
				c.errored = true
				c.playing = false
			}
		}
	}
}

// MarkMediaError degrades all playback operations to no-ops.
func (c *Controller) MarkMediaError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errored = true
	c.playing = false
}

// Status returns the current derived playback state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{
		Position: c.position,
		Duration: c.duration,
		Playing:  c.playing,
		Errored:  c.errored,
	}
}

// TogglePlayPause starts playback when paused and pauses it when playing.
// The playing flag is corrected from the backend's real paused state rather
// than assumed from the toggle call.
func (c *Controller) TogglePlayPause() error {
	c.mu.Lock()
	if c.errored {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	if err := c.player.TogglePause(); err != nil {
		log.Errorf("Toggle play/pause failed: %v", err)
		return err
	}

	// The pause property event will also arrive; reading back immediately
	// keeps the state correct when events are delayed.
	if paused, err := c.player.GetPausedStatus(); err == nil {
		c.mu.Lock()
		c.playing = !paused
		c.mu.Unlock()
	}

	return nil
}

// Skip adjusts the current position by a signed offset, clamped to
// [0, duration]. It no-ops before metadata is loaded and after a media error.
func (c *Controller) Skip(delta float64) error {
	c.mu.Lock()
	target := c.position + delta
	c.mu.Unlock()
	return c.Seek(target)
}

// Seek sets the current position directly, clamped to [0, duration].
// It no-ops before metadata is loaded and after a media error.
func (c *Controller) Seek(target float64) error {
	c.mu.Lock()
	if c.errored || c.duration <= 0 {
		c.mu.Unlock()
		return nil
	}
	target = util.Clamp(target, 0, c.duration)
	c.mu.Unlock()

	if err := c.player.Seek(target); err != nil {
		log.Errorf("Seek to %f failed: %v", target, err)
		return err
	}

	// Mirror the accepted position immediately; time-pos events keep it fresh.
	c.mu.Lock()
	c.position = target
	c.mu.Unlock()

	return nil
}
