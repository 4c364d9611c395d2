package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/skytunes/internal/shared"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	if err := shared.LoadEnv(); err != nil {
		logger.Warn("could not load .env", "error", err)
	}

	configPath := defaultConfigPath
	explicit := false
	if p := os.Getenv("SKYTUNES_CONFIG"); p != "" {
		configPath, explicit = p, true
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err != nil && explicit {
		logger.Fatal("config file from SKYTUNES_CONFIG", "path", configPath, "error", fmt.Errorf("%w: %v", shared.ErrMissingConfig, err))
	} else if err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		}
	}
	config.ApplyEnv()

	if err := config.Validate(); err != nil {
		logger.Fatal("invalid configuration", "path", configPath, "error", err)
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Logger:     logger,
	})
	defer runner.Close()

	app := &cli.Command{
		Name:     "skytunes",
		Usage:    "Local weather and now-playing dashboard",
		Version:  "0.1.0",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "debug", Usage: "Enable debug logging"},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				shared.SetLogLevel(logger, log.DebugLevel)
			}
			return ctx, nil
		},
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		runner.Close()
		if errors.Is(err, shared.ErrInvalidConfig) || errors.Is(err, shared.ErrMissingCredentials) {
			logger.Fatal("check config.toml or the environment", "error", err)
		}
		logger.Fatalf("application error: %v", err)
	}
}
