// OpenWeather current conditions
//
// Response types based on https://openweathermap.org/current
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/skytunes/internal/models"
	"github.com/desertthunder/skytunes/internal/shared"
)

const openWeatherBaseURL = "https://api.openweathermap.org/data/2.5"

// WeatherCondition is one entry of the "weather" array.
type WeatherCondition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// WeatherMain holds the "main" block of the response.
type WeatherMain struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	Humidity  float64 `json:"humidity"`
}

// WeatherReport is the subset of the current-weather payload the dashboard reads.
type WeatherReport struct {
	Name    string             `json:"name"`
	Main    WeatherMain        `json:"main"`
	Weather []WeatherCondition `json:"weather"`
}

// Condition returns weather[0].main.
func (r *WeatherReport) Condition() string {
	return r.Weather[0].Main
}

// WeatherService implements [WeatherProvider] against the OpenWeather current weather API.
type WeatherService struct {
	baseURL    string
	apiKey     string
	units      string
	httpClient *http.Client
}

// NewWeatherService creates a weather client. Empty baseURL and units fall back to OpenWeather and "imperial".
func NewWeatherService(baseURL, apiKey, units string, client *http.Client) *WeatherService {
	if baseURL == "" {
		baseURL = openWeatherBaseURL
	}
	if units == "" {
		units = "imperial"
	}

	return &WeatherService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		units:      units,
		httpClient: clientOrDefault(client),
	}
}

// requestURL builds GET {base}/weather?lat=..&lon=..&units=..&appid=..
func (s *WeatherService) requestURL(coords models.Coordinates) string {
	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(coords.Lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(coords.Lon, 'f', -1, 64))
	values.Set("units", s.units)
	values.Set("appid", s.apiKey)
	return fmt.Sprintf("%s/weather?%s", s.baseURL, values.Encode())
}

// CurrentWeather performs a single request for coords. It never retries.
func (s *WeatherService) CurrentWeather(ctx context.Context, coords models.Coordinates) (*WeatherReport, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("%w: openweather api key is not configured", shared.ErrMissingCredentials)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.requestURL(coords), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: weather request failed: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: weather api status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var report WeatherReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return nil, fmt.Errorf("%w: failed to decode weather: %v", shared.ErrMalformedResponse, err)
	}

	if len(report.Weather) == 0 {
		return nil, fmt.Errorf("%w: weather response has no conditions", shared.ErrMalformedResponse)
	}

	return &report, nil
}
