// Package progress formats playback position readouts for display.
package progress

import (
	"fmt"
	"math"
)

// FormatTime renders a second count as "MM:SS" with both fields zero-padded
// to two digits. Minutes keep growing past 99 rather than truncating.
func FormatTime(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		seconds = 0
	}

	total := int(seconds)
	minutes := total / 60
	remaining := total % 60
	return fmt.Sprintf("%02d:%02d", minutes, remaining)
}

// Percent returns round(100 * current / duration) clamped to [0, 100].
// A falsy duration yields 0 so consumers render a zero-filled indicator
// instead of erroring before metadata is known.
func Percent(current, duration float64) int {
	if duration <= 0 || math.IsNaN(duration) {
		return 0
	}

	percent := int(math.Round(100 * current / duration))
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}

// Snapshot is a display-ready view of a playback position.
type Snapshot struct {
	FormattedCurrent string
	FormattedTotal   string
	Percent          int
}

// Render derives the full display snapshot for a position/duration pair.
func Render(current, duration float64) Snapshot {
	return Snapshot{
		FormattedCurrent: FormatTime(current),
		FormattedTotal:   FormatTime(duration),
		Percent:          Percent(current, duration),
	}
}
