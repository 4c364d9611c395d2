package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variables that override credentials from the config file.
const (
	EnvWeatherAPIKey      = "OPENWEATHER_API_KEY"
	EnvMusicAPIKey        = "MUSIC_API_KEY"
	EnvSpotifyAccessToken = "SPOTIFY_ACCESS_TOKEN"
)

// Music sources understood by [MusicConfig.Source].
const (
	SourceEndpoint = "endpoint"
	SourceSpotify  = "spotify"
)

// Duration is a [time.Duration] that decodes from TOML strings such as "5s" or "10s".
type Duration time.Duration

// UnmarshalText implements [encoding.TextUnmarshaler].
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("%w: duration %q: %v", ErrInvalidConfig, string(text), err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements [encoding.TextMarshaler].
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a [time.Duration].
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Weather  WeatherConfig  `toml:"weather"`
	Location LocationConfig `toml:"location"`
	Music    MusicConfig    `toml:"music"`
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
}

// WeatherConfig contains the weather provider settings.
type WeatherConfig struct {
	BaseURL   string   `toml:"base_url" validate:"required,url"`
	APIKey    string   `toml:"api_key"`
	Units     string   `toml:"units" validate:"required,oneof=imperial metric standard"`
	UnitLabel string   `toml:"unit_label" validate:"required"`
	Timeout   Duration `toml:"timeout" validate:"gt=0"`
}

// LocationConfig controls how device coordinates are resolved.
type LocationConfig struct {
	Enabled     bool     `toml:"enabled"`
	LocatorURL  string   `toml:"locator_url" validate:"required,url"`
	Timeout     Duration `toml:"timeout" validate:"gt=0"`
	FallbackLat float64  `toml:"fallback_lat" validate:"min=-90,max=90"`
	FallbackLon float64  `toml:"fallback_lon" validate:"min=-180,max=180"`
}

// MusicConfig contains the now-playing provider settings.
type MusicConfig struct {
	Source       string   `toml:"source" validate:"required,oneof=endpoint spotify"`
	BaseURL      string   `toml:"base_url" validate:"required,url"`
	APIKey       string   `toml:"api_key"`
	SpotifyToken string   `toml:"spotify_token"`
	PollInterval Duration `toml:"poll_interval" validate:"gt=0"`
	Timeout      Duration `toml:"timeout" validate:"gt=0"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path" validate:"required"`
	MaxOpenConns int    `toml:"max_open_conns" validate:"gte=0"`
	MaxIdleConns int    `toml:"max_idle_conns" validate:"gte=0"`
}

// ServerConfig contains settings for the local demo server.
type ServerConfig struct {
	Host string `toml:"host" validate:"required"`
	Port int    `toml:"port" validate:"min=1,max=65535"`
}

// Addr returns the host:port the demo server listens on.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnv loads a .env file when present. A missing file is not an error.
func LoadEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// ApplyEnv overrides credentials with values from the process environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvWeatherAPIKey); v != "" {
		c.Weather.APIKey = v
	}
	if v := os.Getenv(EnvMusicAPIKey); v != "" {
		c.Music.APIKey = v
	}
	if v := os.Getenv(EnvSpotifyAccessToken); v != "" {
		c.Music.SpotifyToken = v
	}
}

// Validate checks struct constraints on the configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
