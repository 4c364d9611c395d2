package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/skytunes/internal/models"
	"github.com/desertthunder/skytunes/internal/shared"
	"golang.org/x/oauth2"
)

// MusicService implements [TrackSource] for a "now playing" endpoint exposing GET /current-track.
type MusicService struct {
	baseURL    string
	httpClient *http.Client
}

// NewMusicService creates a now-playing client. A non-empty apiKey is sent as a bearer token on every request.
func NewMusicService(baseURL, apiKey string, client *http.Client) *MusicService {
	return &MusicService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: bearerClient(apiKey, clientOrDefault(client)),
	}
}

// bearerClient wraps base so that requests carry "Authorization: Bearer <token>".
func bearerClient(token string, base *http.Client) *http.Client {
	if token == "" {
		return base
	}

	return &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
			Base:   base.Transport,
		},
		Timeout: base.Timeout,
	}
}

func (m *MusicService) Name() string {
	return shared.SourceEndpoint
}

// CurrentTrack fetches {base}/current-track and returns its "track" object.
func (m *MusicService) CurrentTrack(ctx context.Context) (*models.TrackPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+"/current-track", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: now playing request failed: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: now playing status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var body models.NowPlayingResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: failed to decode track: %v", shared.ErrMalformedResponse, err)
	}

	return &body.Track, nil
}
