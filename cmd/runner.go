package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/skytunes/internal/models"
	"github.com/desertthunder/skytunes/internal/repositories"
	"github.com/desertthunder/skytunes/internal/services"
	"github.com/desertthunder/skytunes/internal/shared"
	"github.com/desertthunder/skytunes/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	locator    services.Locator
	weather    services.WeatherProvider
	source     services.TrackSource
	db         *sql.DB
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	mu         sync.Mutex // guards output for concurrent poll results
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Nil services are built from Config; DB is opened from Config.Database on first use.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Locator    services.Locator
	Weather    services.WeatherProvider
	Source     services.TrackSource
	DB         *sql.DB
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		locator:    opts.Locator,
		weather:    opts.Weather,
		source:     opts.Source,
		db:         opts.DB,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}

	r.buildServices()
	return r
}

// buildServices fills in the upstream clients that were not injected.
//
// A source that cannot be built is left nil; commands that poll report it as unavailable.
func (r *Runner) buildServices() {
	cfg := r.config

	if r.locator == nil && cfg.Location.Enabled {
		r.locator = services.NewIPLocator(cfg.Location.LocatorURL, cfg.Location.Timeout.Std(), r.httpClient)
	}

	if r.weather == nil {
		client := &http.Client{Transport: r.httpClient.Transport, Timeout: cfg.Weather.Timeout.Std()}
		r.weather = services.NewWeatherService(cfg.Weather.BaseURL, cfg.Weather.APIKey, cfg.Weather.Units, client)
	}

	if r.source == nil {
		client := &http.Client{Transport: r.httpClient.Transport, Timeout: cfg.Music.Timeout.Std()}
		switch cfg.Music.Source {
		case shared.SourceSpotify:
			spotify, err := services.NewSpotifyService(cfg.Music.BaseURL, cfg.Music.SpotifyToken, client)
			if err != nil {
				r.logger.Warn("spotify source unavailable", "error", err)
				return
			}
			r.source = spotify
		default:
			r.source = services.NewMusicService(cfg.Music.BaseURL, cfg.Music.APIKey, client)
		}
	}
}

func (r *Runner) trackSource() (services.TrackSource, error) {
	if r.source == nil {
		return nil, fmt.Errorf("%w: no now-playing source configured", shared.ErrServiceUnavailable)
	}
	return r.source, nil
}

// SetLogger replaces the logger, e.g. with a file logger while the TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// Close releases the database handle if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

func (r *Runner) resolver() *tasks.Resolver {
	return tasks.NewResolver(r.locator, r.weather, tasks.ResolverOptions{
		Unit:          r.config.Weather.UnitLabel,
		LocateTimeout: r.config.Location.Timeout.Std(),
		Fallback:      models.Coordinates{Lat: r.config.Location.FallbackLat, Lon: r.config.Location.FallbackLon},
	}, r.logger)
}

// favorites opens (and migrates) the database on first use.
func (r *Runner) favorites() (*repositories.FavoriteRepository, error) {
	if r.db == nil {
		db, err := shared.OpenMigrated(r.config.Database)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
		}
		r.db = db
	}
	return repositories.NewFavoriteRepository(r.db), nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		weatherCommand, nowPlayingCommand, tuiCommand, favoritesCommand, setupCommand, demoCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := fmt.Fprintf(r.output, format, args...); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
