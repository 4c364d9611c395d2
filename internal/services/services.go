// package services defines the remote data sources behind the dashboard
//
// OpenWeather, the now-playing endpoint, Spotify, IP geolocation
package services

import (
	"context"
	"net/http"

	"github.com/desertthunder/skytunes/internal/models"
)

// Locator resolves the device's approximate position.
type Locator interface {
	// Locate returns the current coordinates.
	// Implementations return an error wrapping [shared.ErrLocationDenied] when the provider refuses the lookup.
	Locate(ctx context.Context) (models.Coordinates, error)
}

// WeatherProvider fetches current conditions for a coordinate pair.
type WeatherProvider interface {
	CurrentWeather(ctx context.Context, coords models.Coordinates) (*WeatherReport, error)
}

// TrackSource fetches the track that is currently playing.
type TrackSource interface {
	// CurrentTrack returns the raw track fields. Absent fields are left empty so callers can apply defaults.
	CurrentTrack(ctx context.Context) (*models.TrackPayload, error)

	// Name returns the name of the source (e.g., "endpoint", "Spotify")
	Name() string
}

func clientOrDefault(client *http.Client) *http.Client {
	if client == nil {
		return http.DefaultClient
	}
	return client
}
