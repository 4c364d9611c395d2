// package formatter turns dashboard state into display strings and exports saved favourites (CSV, Markdown, plain text)
package formatter

import (
	"fmt"

	"github.com/desertthunder/skytunes/internal/models"
)

// LoadingText is shown in place of a value that has not arrived yet.
const LoadingText = "Loading..."

// Temperature renders "{temperature}{unit}", or "--°" before the first fetch.
func Temperature(w models.WeatherState) string {
	if w.Temperature == "" {
		return "--°"
	}
	return w.Temperature + w.Unit
}

// OrLoading returns s, or [LoadingText] when s is empty.
func OrLoading(s string) string {
	if s == "" {
		return LoadingText
	}
	return s
}

// PlaybackTime renders "{currentTime} / {duration}".
func PlaybackTime(t models.TrackState) string {
	return t.CurrentTime + " / " + t.Duration
}

// Clock formats whole seconds as "M:SS". Negative input is treated as zero.
func Clock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
