package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./skytunes.db" {
			t.Errorf("expected database path ./skytunes.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 8787 {
			t.Errorf("expected server port 8787, got %d", config.Server.Port)
		}

		if config.Music.PollInterval.Std() != 5*time.Second {
			t.Errorf("expected poll interval 5s, got %v", config.Music.PollInterval.Std())
		}

		if config.Location.Timeout.Std() != 10*time.Second {
			t.Errorf("expected location timeout 10s, got %v", config.Location.Timeout.Std())
		}

		if config.Location.FallbackLat != 47.6062 || config.Location.FallbackLon != -122.3321 {
			t.Errorf("expected Seattle fallback, got %v,%v", config.Location.FallbackLat, config.Location.FallbackLon)
		}

		if config.Weather.Units != "imperial" {
			t.Errorf("expected imperial units, got %s", config.Weather.Units)
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should validate: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[weather]
base_url = "http://localhost:9000/data/2.5"
api_key = "weather_key"

[music]
source = "spotify"
poll_interval = "2s"

[server]
port = 9090
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Weather.BaseURL != "http://localhost:9000/data/2.5" {
			t.Errorf("expected overridden base url, got %s", config.Weather.BaseURL)
		}
		if config.Weather.APIKey != "weather_key" {
			t.Errorf("expected weather api key, got %s", config.Weather.APIKey)
		}
		if config.Music.Source != SourceSpotify {
			t.Errorf("expected spotify source, got %s", config.Music.Source)
		}
		if config.Music.PollInterval.Std() != 2*time.Second {
			t.Errorf("expected 2s poll interval, got %v", config.Music.PollInterval.Std())
		}
		if config.Server.Port != 9090 {
			t.Errorf("expected server port 9090, got %d", config.Server.Port)
		}
		if config.Weather.UnitLabel != "°F" {
			t.Errorf("expected default unit label to survive partial file, got %s", config.Weather.UnitLabel)
		}
	})

	t.Run("LoadConfig Invalid Duration", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[music]\npoll_interval = \"soon\"\n"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfig(configPath); err == nil {
			t.Error("expected error for invalid duration")
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tt := []struct {
			name   string
			mutate func(*Config)
		}{
			{"latitude out of range", func(c *Config) { c.Location.FallbackLat = 91 }},
			{"longitude out of range", func(c *Config) { c.Location.FallbackLon = -181 }},
			{"zero poll interval", func(c *Config) { c.Music.PollInterval = 0 }},
			{"unknown source", func(c *Config) { c.Music.Source = "radio" }},
			{"bad weather url", func(c *Config) { c.Weather.BaseURL = "not a url" }},
			{"unknown units", func(c *Config) { c.Weather.Units = "kelvin" }},
			{"port out of range", func(c *Config) { c.Server.Port = 0 }},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				config := DefaultConfig()
				tc.mutate(config)

				err := config.Validate()
				if err == nil {
					t.Fatal("expected validation error")
				}
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
			})
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		t.Setenv(EnvWeatherAPIKey, "env_weather")
		t.Setenv(EnvMusicAPIKey, "env_music")
		t.Setenv(EnvSpotifyAccessToken, "")

		config := DefaultConfig()
		config.Music.SpotifyToken = "from_file"
		config.ApplyEnv()

		if config.Weather.APIKey != "env_weather" {
			t.Errorf("expected env weather key, got %s", config.Weather.APIKey)
		}
		if config.Music.APIKey != "env_music" {
			t.Errorf("expected env music key, got %s", config.Music.APIKey)
		}
		if config.Music.SpotifyToken != "from_file" {
			t.Errorf("empty env value should not override, got %s", config.Music.SpotifyToken)
		}
	})

	t.Run("LoadEnv", func(t *testing.T) {
		t.Run("missing file is ignored", func(t *testing.T) {
			if err := LoadEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
				t.Errorf("expected nil error, got %v", err)
			}
		})

		t.Run("loads values", func(t *testing.T) {
			envPath := filepath.Join(t.TempDir(), ".env")
			if err := os.WriteFile(envPath, []byte("SKYTUNES_TEST_VALUE=loaded\n"), 0644); err != nil {
				t.Fatalf("failed to write env file: %v", err)
			}
			t.Setenv("SKYTUNES_TEST_VALUE", "")
			os.Unsetenv("SKYTUNES_TEST_VALUE")

			if err := LoadEnv(envPath); err != nil {
				t.Fatalf("LoadEnv() error = %v", err)
			}
			if got := os.Getenv("SKYTUNES_TEST_VALUE"); got != "loaded" {
				t.Errorf("expected loaded, got %q", got)
			}
		})
	})

	t.Run("ServerConfig Addr", func(t *testing.T) {
		s := ServerConfig{Host: "127.0.0.1", Port: 8787}
		if s.Addr() != "127.0.0.1:8787" {
			t.Errorf("unexpected addr %s", s.Addr())
		}
	})
}
