// Spotify implementation of [TrackSource]
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/get-the-users-currently-playing-track
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/skytunes/internal/formatter"
	"github.com/desertthunder/skytunes/internal/models"
	"github.com/desertthunder/skytunes/internal/shared"
)

const spotifyBaseURL = "https://api.spotify.com/v1"

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyArtist represents a simplified Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SpotifyAlbum represents a simplified Spotify album.
type SpotifyAlbum struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Images []SpotifyImage `json:"images"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []SpotifyArtist `json:"artists"`
	Album      SpotifyAlbum    `json:"album"`
	DurationMS int             `json:"duration_ms"`
}

// SpotifyCurrentlyPlaying is the body of GET /me/player/currently-playing.
type SpotifyCurrentlyPlaying struct {
	ProgressMS           int           `json:"progress_ms"`
	IsPlaying            bool          `json:"is_playing"`
	CurrentlyPlayingType string        `json:"currently_playing_type"`
	Item                 *SpotifyTrack `json:"item"`
}

// SpotifyService implements [TrackSource] using the Spotify player API with a pre-issued access token.
type SpotifyService struct {
	baseURL    string
	httpClient *http.Client
}

// NewSpotifyService creates a Spotify client. Token refresh is out of scope, so the token is used as given.
func NewSpotifyService(baseURL, accessToken string, client *http.Client) (*SpotifyService, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("%w: spotify access token", shared.ErrMissingCredentials)
	}
	if baseURL == "" {
		baseURL = spotifyBaseURL
	}

	return &SpotifyService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: bearerClient(accessToken, clientOrDefault(client)),
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// CurrentlyPlaying returns the raw player state, or nil when nothing is playing (204).
func (s *SpotifyService) CurrentlyPlaying(ctx context.Context) (*SpotifyCurrentlyPlaying, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/me/player/currently-playing", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: spotify request failed: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: spotify API error: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var playing SpotifyCurrentlyPlaying
	if err := json.NewDecoder(resp.Body).Decode(&playing); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", shared.ErrMalformedResponse, err)
	}

	return &playing, nil
}

// CurrentTrack maps the player state onto the now-playing payload.
//
// Nothing playing, or a non-track item such as an episode, yields an empty payload.
func (s *SpotifyService) CurrentTrack(ctx context.Context) (*models.TrackPayload, error) {
	playing, err := s.CurrentlyPlaying(ctx)
	if err != nil {
		return nil, err
	}

	if playing == nil || playing.Item == nil {
		return &models.TrackPayload{}, nil
	}

	return spotifyToPayload(playing), nil
}

func spotifyToPayload(p *SpotifyCurrentlyPlaying) *models.TrackPayload {
	item := p.Item

	artists := make([]string, 0, len(item.Artists))
	for _, a := range item.Artists {
		artists = append(artists, a.Name)
	}

	payload := &models.TrackPayload{
		Name:   item.Name,
		Artist: strings.Join(artists, ", "),
	}

	if item.DurationMS > 0 {
		payload.Duration = formatter.Clock(item.DurationMS / 1000)
		payload.CurrentTime = formatter.Clock(p.ProgressMS / 1000)
	}

	// images are sorted widest first
	if len(item.Album.Images) > 0 {
		payload.AlbumCover = item.Album.Images[0].URL
	}

	return payload
}
