package server

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/desertthunder/skytunes/internal/formatter"
	"github.com/desertthunder/skytunes/internal/models"
	"github.com/desertthunder/skytunes/internal/services"
	"github.com/desertthunder/skytunes/internal/shared"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// DemoTrack is one entry of the demo playlist.
type DemoTrack struct {
	Name   string
	Artist string
	Cover  string
	Length time.Duration
}

// Playlist loops a fixed list of tracks forever.
type Playlist struct {
	tracks []DemoTrack
	total  time.Duration
}

// NewPlaylist builds a looping playlist. Every track needs a positive length.
func NewPlaylist(tracks ...DemoTrack) (*Playlist, error) {
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: playlist needs at least one track", shared.ErrInvalidInput)
	}

	var total time.Duration
	for _, t := range tracks {
		if t.Length <= 0 {
			return nil, fmt.Errorf("%w: track %q has no length", shared.ErrInvalidInput, t.Name)
		}
		total += t.Length
	}
	return &Playlist{tracks: tracks, total: total}, nil
}

// DefaultPlaylist is the built-in demo rotation.
func DefaultPlaylist() *Playlist {
	p, _ := NewPlaylist(
		DemoTrack{Name: "Intro", Artist: "The xx", Cover: "https://picsum.photos/seed/intro/300", Length: 2*time.Minute + 7*time.Second},
		DemoTrack{Name: "Midnight City", Artist: "M83", Cover: "https://picsum.photos/seed/midnight/300", Length: 4*time.Minute + 3*time.Second},
		DemoTrack{Name: "Holocene", Artist: "Bon Iver", Cover: "https://picsum.photos/seed/holocene/300", Length: 5*time.Minute + 36*time.Second},
		DemoTrack{Name: "Sweet Disposition", Artist: "The Temper Trap", Length: 3*time.Minute + 51*time.Second},
	)
	return p
}

// At returns the track playing after elapsed time and the position within it.
func (p *Playlist) At(elapsed time.Duration) (DemoTrack, time.Duration) {
	if elapsed < 0 {
		elapsed = 0
	}
	pos := elapsed % p.total
	for _, t := range p.tracks {
		if pos < t.Length {
			return t, pos
		}
		pos -= t.Length
	}
	return p.tracks[0], 0
}

type demoCity struct {
	name      string
	coords    models.Coordinates
	tempF     float64
	humidity  float64
	condition string
}

var demoCities = []demoCity{
	{"Seattle", models.DefaultCoordinates, 57.6, 78, "Clouds"},
	{"Portland", models.Coordinates{Lat: 45.5152, Lon: -122.6784}, 61.2, 70, "Rain"},
	{"San Francisco", models.Coordinates{Lat: 37.7749, Lon: -122.4194}, 64.4, 74, "Mist"},
	{"New York", models.Coordinates{Lat: 40.7128, Lon: -74.0060}, 71.5, 58, "Clear"},
	{"London", models.Coordinates{Lat: 51.5074, Lon: -0.1278}, 55.9, 81, "Drizzle"},
	{"Tokyo", models.Coordinates{Lat: 35.6762, Lon: 139.6503}, 76.1, 65, "Clear"},
}

func nearestCity(c models.Coordinates) demoCity {
	best, bestDist := demoCities[0], math.Inf(1)
	for _, city := range demoCities {
		dLat, dLon := city.coords.Lat-c.Lat, city.coords.Lon-c.Lon
		if d := dLat*dLat + dLon*dLon; d < bestDist {
			best, bestDist = city, d
		}
	}
	return best
}

func convertTemp(f float64, units string) float64 {
	switch units {
	case "metric":
		return (f - 32) * 5 / 9
	case "standard":
		return (f-32)*5/9 + 273.15
	default:
		return f
	}
}

type weatherQuery struct {
	Lat   float64 `query:"lat" validate:"min=-90,max=90"`
	Lon   float64 `query:"lon" validate:"min=-180,max=180"`
	Units string  `query:"units" validate:"omitempty,oneof=standard metric imperial"`
}

// WeatherHandler serves GET /weather in the OpenWeather current-conditions shape,
// reporting canned conditions for the closest known city.
type WeatherHandler struct{}

func (h *WeatherHandler) Register(r fiber.Router) {
	r.Get("/weather", h.current)
}

func (h *WeatherHandler) current(c *fiber.Ctx) error {
	if c.Query("lat") == "" || c.Query("lon") == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Nothing to geocode")
	}

	var q weatherQuery
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "wrong latitude or longitude")
	}
	if err := validate.Struct(q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	city := nearestCity(models.Coordinates{Lat: q.Lat, Lon: q.Lon})
	temp := convertTemp(city.tempF, q.Units)

	return c.JSON(services.WeatherReport{
		Name: city.name,
		Main: services.WeatherMain{
			Temp:      math.Round(temp*100) / 100,
			FeelsLike: math.Round((temp-1.5)*100) / 100,
			Humidity:  city.humidity,
		},
		Weather: []services.WeatherCondition{
			{Main: city.condition, Description: strings.ToLower(city.condition)},
		},
	})
}

// TrackHandler serves GET /current-track for the demo playlist.
type TrackHandler struct {
	playlist *Playlist
	now      func() time.Time
	started  time.Time
}

func (h *TrackHandler) Register(r fiber.Router) {
	r.Get("/current-track", h.current)
}

func (h *TrackHandler) current(c *fiber.Ctx) error {
	track, pos := h.playlist.At(h.now().Sub(h.started))

	return c.JSON(models.NowPlayingResponse{
		Track: models.TrackPayload{
			Name:        track.Name,
			Artist:      track.Artist,
			Duration:    formatter.Clock(int(track.Length / time.Second)),
			CurrentTime: formatter.Clock(int(pos / time.Second)),
			AlbumCover:  track.Cover,
		},
	})
}

// SpotifyHandler serves GET /me/player/currently-playing for the demo playlist.
type SpotifyHandler struct {
	playlist *Playlist
	now      func() time.Time
	started  time.Time
}

func (h *SpotifyHandler) Register(r fiber.Router) {
	r.Get("/me/player/currently-playing", h.current)
}

func (h *SpotifyHandler) current(c *fiber.Ctx) error {
	track, pos := h.playlist.At(h.now().Sub(h.started))

	var artists []services.SpotifyArtist
	for _, name := range strings.Split(track.Artist, ", ") {
		artists = append(artists, services.SpotifyArtist{ID: slug(name), Name: name})
	}

	var images []services.SpotifyImage
	if track.Cover != "" {
		images = append(images, services.SpotifyImage{URL: track.Cover, Height: 300, Width: 300})
	}

	return c.JSON(services.SpotifyCurrentlyPlaying{
		ProgressMS:           int(pos / time.Millisecond),
		IsPlaying:            true,
		CurrentlyPlayingType: "track",
		Item: &services.SpotifyTrack{
			ID:         slug(track.Name),
			Name:       track.Name,
			Artists:    artists,
			Album:      services.SpotifyAlbum{ID: slug(track.Name + " album"), Name: track.Name, Images: images},
			DurationMS: int(track.Length / time.Millisecond),
		},
	})
}

func slug(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-")
}
