package tasks

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/skytunes/internal/models"
	"github.com/desertthunder/skytunes/internal/services"
	"github.com/desertthunder/skytunes/internal/shared"
)

// DefaultLocateTimeout bounds how long the resolver waits for device coordinates.
const DefaultLocateTimeout = 10 * time.Second

// ResolverOptions tunes a [Resolver]. Zero values select the defaults.
type ResolverOptions struct {
	Unit          string             // label appended to the temperature, "°F" by default
	LocateTimeout time.Duration      // DefaultLocateTimeout by default
	Fallback      models.Coordinates // DefaultCoordinates by default
}

// Resolver turns "where am I" into a [models.WeatherState] with exactly one weather fetch.
type Resolver struct {
	locator services.Locator
	weather services.WeatherProvider
	opts    ResolverOptions
	logger  *log.Logger
}

// NewResolver creates a resolver. A nil locator means the location capability is absent
// and every resolution uses the fallback coordinates.
func NewResolver(locator services.Locator, weather services.WeatherProvider, opts ResolverOptions, logger *log.Logger) *Resolver {
	if opts.Unit == "" {
		opts.Unit = models.DefaultUnit
	}
	if opts.LocateTimeout <= 0 {
		opts.LocateTimeout = DefaultLocateTimeout
	}
	if opts.Fallback == (models.Coordinates{}) {
		opts.Fallback = models.DefaultCoordinates
	}
	if logger == nil {
		logger = log.Default()
	}

	return &Resolver{locator: locator, weather: weather, opts: opts, logger: logger}
}

// Resolve locates the device (falling back on denial, timeout or missing capability)
// and fetches the weather once. On fetch failure it returns [models.WeatherError] and the error.
func (r *Resolver) Resolve(ctx context.Context) (models.WeatherState, error) {
	return r.ResolveWithProgress(ctx, nil)
}

// ResolveWithProgress is [Resolver.Resolve] with non-blocking progress updates sent to progress.
func (r *Resolver) ResolveWithProgress(ctx context.Context, progress chan<- ProgressUpdate) (models.WeatherState, error) {
	coords := r.locate(ctx, progress)

	send(progress, fetchWeatherUpdate(coords))
	r.logger.Info("fetching weather", "lat", coords.Lat, "lon", coords.Lon)

	report, err := r.weather.CurrentWeather(ctx, coords)
	if err != nil {
		r.logger.Warn("weather fetch failed", "error", err)
		state := models.WeatherError()
		send(progress, doneUpdate(state))
		return state, err
	}

	state := WeatherStateFrom(report, r.opts.Unit)
	send(progress, doneUpdate(state))
	return state, nil
}

func (r *Resolver) locate(ctx context.Context, progress chan<- ProgressUpdate) models.Coordinates {
	if r.locator == nil {
		r.logger.Warn("location capability unavailable, using fallback", "coords", r.opts.Fallback)
		send(progress, fallbackUpdate(shared.ErrLocationUnavailable, r.opts.Fallback))
		return r.opts.Fallback
	}

	send(progress, locateUpdate())

	coords, err := r.locateWithin(ctx)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrLocationDenied):
			r.logger.Warn("location denied, using fallback", "coords", r.opts.Fallback)
		case errors.Is(err, shared.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
			r.logger.Warn("location timed out, using fallback", "timeout", r.opts.LocateTimeout)
		default:
			r.logger.Warn("location lookup failed, using fallback", "error", err)
		}
		send(progress, fallbackUpdate(err, r.opts.Fallback))
		return r.opts.Fallback
	}

	r.logger.Debug("located device", "lat", coords.Lat, "lon", coords.Lon)
	return coords
}

// locateWithin runs the locator but gives up after the locate timeout even if the locator ignores its context.
func (r *Resolver) locateWithin(ctx context.Context) (models.Coordinates, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.LocateTimeout)
	defer cancel()

	type result struct {
		coords models.Coordinates
		err    error
	}

	done := make(chan result, 1)
	go func() {
		coords, err := r.locator.Locate(ctx)
		done <- result{coords, err}
	}()

	select {
	case res := <-done:
		return res.coords, res.err
	case <-ctx.Done():
		return models.Coordinates{}, fmt.Errorf("%w: %v", shared.ErrTimeout, ctx.Err())
	}
}

// WeatherStateFrom maps a weather report onto display state: the place name,
// the temperature rounded half-up as an integer string, and the first condition.
func WeatherStateFrom(report *services.WeatherReport, unit string) models.WeatherState {
	return models.WeatherState{
		Location:    report.Name,
		Temperature: strconv.FormatFloat(RoundHalfUp(report.Main.Temp), 'f', 0, 64),
		Condition:   report.Condition(),
		Unit:        unit,
	}
}
