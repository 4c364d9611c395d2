package tasks

import (
	"fmt"

	"github.com/desertthunder/skytunes/internal/models"
)

// ProgressUpdate represents a progress event while the weather is being resolved.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	Locate Phase = iota
	Fallback
	FetchWeather
	Done
)

func (p Phase) String() string {
	switch p {
	case Locate:
		return "locate"
	case Fallback:
		return "fallback"
	case FetchWeather:
		return "fetch_weather"
	case Done:
		return "done"
	default:
		return ""
	}
}

// send delivers u without blocking; updates are dropped when nobody is listening.
func send(progress chan<- ProgressUpdate, u ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- u:
	default:
	}
}

func locateUpdate() ProgressUpdate {
	return ProgressUpdate{Phase: Locate, Message: "Locating device..."}
}

func fallbackUpdate(err error, coords models.Coordinates) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Fallback,
		Message: fmt.Sprintf("Location unavailable (%v), using %s", err, coords),
		Data:    coords,
	}
}

func fetchWeatherUpdate(coords models.Coordinates) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchWeather,
		Message: fmt.Sprintf("Fetching weather for %s...", coords),
		Data:    coords,
	}
}

func doneUpdate(state models.WeatherState) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Done,
		Message: fmt.Sprintf("%s: %s%s, %s", state.Location, state.Temperature, state.Unit, state.Condition),
		Data:    state,
	}
}
