// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/skytunes/internal/formatter"
	"github.com/urfave/cli/v3"
)

// weatherCommand resolves the current location and prints its weather
func weatherCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "weather",
		Usage: "Show the weather for the current location (Seattle when unavailable)",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Report each resolution step",
			},
		},
		Action: r.Weather,
	}
}

// nowPlayingCommand polls the configured music source
func nowPlayingCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "nowplaying",
		Aliases: []string{"np"},
		Usage:   "Show the current track and playback progress",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "Keep polling until interrupted",
			},
			&cli.DurationFlag{
				Name:  "interval",
				Usage: "Polling interval for --watch (defaults to music.poll_interval)",
			},
			&cli.IntFlag{
				Name:  "count",
				Usage: "Stop --watch after this many results (0 = unlimited)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.NowPlaying,
	}
}

// tuiCommand returns the top-level TUI command for the interactive dashboard.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"dashboard", "ui"},
		Usage:   "Launch the interactive weather and music dashboard",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where to write logs while the dashboard is running",
				Value: "./tmp/skytunes-tui.log",
			},
		},
		Action: r.TUI,
	}
}

// favoritesCommand handles saved favourite songs
func favoritesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "favorites",
		Aliases: []string{"fav", "favs"},
		Usage:   "Manage favourite songs",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List favourite songs",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "query",
						Aliases: []string{"q"},
						Usage:   "Find in favourites by song or artist",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of favourites to return (0 = all)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.FavoritesList,
			},
			{
				Name:  "add",
				Usage: "Save a song, or the currently playing track with --current",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "song",
						Usage: "Song name",
					},
					&cli.StringFlag{
						Name:  "artist",
						Usage: "Artist name",
					},
					&cli.StringFlag{
						Name:  "cover",
						Usage: "Album cover URL",
					},
					&cli.BoolFlag{
						Name:  "current",
						Usage: "Save the track the music source reports as playing",
					},
				},
				Action: r.FavoritesAdd,
			},
			{
				Name:  "remove",
				Usage: "Remove a favourite by #sequence or ID",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "ref",
					},
				},
				Action: r.FavoritesRemove,
			},
			{
				Name:  "export",
				Usage: "Export favourites as csv, md or txt",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (csv, md, txt)",
						Value:   formatter.FormatCSV,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (prints to stdout when empty)",
					},
				},
				Action: r.FavoritesExport,
			},
		},
	}
}

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write a config.toml populated with defaults",
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the most recent migration instead",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// demoCommand runs local stand-ins for the upstream APIs
func demoCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "demo",
		Usage: "Local demo services",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Serve demo weather and now-playing endpoints",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address (defaults to server.host:server.port)",
					},
					&cli.BoolFlag{
						Name:  "auth",
						Usage: "Require the configured API keys on demo routes",
					},
				},
				Action: r.DemoServe,
			},
		},
	}
}
