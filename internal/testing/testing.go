// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/skytunes/internal/models"
	"github.com/desertthunder/skytunes/internal/services"
)

// StubLocator is a test double for [services.Locator]
type StubLocator struct {
	Coords models.Coordinates
	Err    error
	Calls  int
}

func (s *StubLocator) Locate(ctx context.Context) (models.Coordinates, error) {
	s.Calls++
	return s.Coords, s.Err
}

// StubWeather is a test double for [services.WeatherProvider] that records requested coordinates
type StubWeather struct {
	Report   *services.WeatherReport
	Err      error
	Requests []models.Coordinates
}

func (s *StubWeather) CurrentWeather(ctx context.Context, coords models.Coordinates) (*services.WeatherReport, error) {
	s.Requests = append(s.Requests, coords)
	return s.Report, s.Err
}

// StubTrackSource is a concurrency-safe test double for [services.TrackSource].
//
// Responses are consumed in order; the last one repeats once the queue is exhausted.
type StubTrackSource struct {
	mu        sync.Mutex
	calls     int
	responses []StubTrackResponse
}

// StubTrackResponse is one queued result of [StubTrackSource.CurrentTrack]
type StubTrackResponse struct {
	Payload *models.TrackPayload
	Err     error
}

func NewStubTrackSource(responses ...StubTrackResponse) *StubTrackSource {
	return &StubTrackSource{responses: responses}
}

func (s *StubTrackSource) CurrentTrack(ctx context.Context) (*models.TrackPayload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if len(s.responses) == 0 {
		return &models.TrackPayload{}, nil
	}

	r := s.responses[0]
	if len(s.responses) > 1 {
		s.responses = s.responses[1:]
	}
	return r.Payload, r.Err
}

func (s *StubTrackSource) Name() string { return "stub" }

// Calls returns how many times CurrentTrack ran.
func (s *StubTrackSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// JSONResponse builds an [http.Response] with the given status and body for use with [MockRoundTripper]
func JSONResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
