package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/skytunes/internal/models"
	"github.com/desertthunder/skytunes/internal/shared"
)

const ipLocatorURL = "http://ip-api.com/json"

// ipLocation is the subset of the ip-api.com response used for coordinates.
type ipLocation struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	City    string  `json:"city"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// IPLocator implements [Locator] through an IP geolocation service.
type IPLocator struct {
	url        string
	timeout    time.Duration
	httpClient *http.Client
}

// NewIPLocator creates a locator. A zero timeout means the caller's context alone bounds the lookup.
func NewIPLocator(url string, timeout time.Duration, client *http.Client) *IPLocator {
	if url == "" {
		url = ipLocatorURL
	}

	return &IPLocator{url: url, timeout: timeout, httpClient: clientOrDefault(client)}
}

// Locate asks the service for the caller's position.
//
// A response whose status is not "success" is reported as [shared.ErrLocationDenied];
// transport failures and deadlines are [shared.ErrLocationUnavailable] (and [shared.ErrTimeout] for deadlines).
func (l *IPLocator) Locate(ctx context.Context) (models.Coordinates, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return models.Coordinates{}, fmt.Errorf("%w: %w: %v", shared.ErrLocationUnavailable, shared.ErrTimeout, err)
		}
		return models.Coordinates{}, fmt.Errorf("%w: %v", shared.ErrLocationUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return models.Coordinates{}, fmt.Errorf("%w: locator status %d", shared.ErrLocationUnavailable, resp.StatusCode)
	}

	var loc ipLocation
	if err := json.NewDecoder(resp.Body).Decode(&loc); err != nil {
		return models.Coordinates{}, fmt.Errorf("%w: failed to decode location: %v", shared.ErrLocationUnavailable, err)
	}

	if loc.Status != "success" {
		return models.Coordinates{}, fmt.Errorf("%w: %s", shared.ErrLocationDenied, loc.Message)
	}

	return models.Coordinates{Lat: loc.Lat, Lon: loc.Lon}, nil
}
