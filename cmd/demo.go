package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/skytunes/internal/server"
	"github.com/desertthunder/skytunes/internal/shared"
	"github.com/urfave/cli/v3"
)

// DemoServe runs the demo server until interrupted.
func (r *Runner) DemoServe(ctx context.Context, cmd *cli.Command) error {
	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Server.Addr()
	}

	opts := server.Options{}
	if cmd.Bool("auth") {
		opts.WeatherKey = r.config.Weather.APIKey
		opts.MusicToken = r.config.Music.APIKey
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	base := "http://" + addr
	r.writePlainHeader("skytunes demo server")
	r.writePlain("weather.base_url = %q\n", base+"/data/2.5")
	r.writePlain("music.base_url   = %q  (source = %q)\n", base+"/music", shared.SourceEndpoint)
	r.writePlain("music.base_url   = %q  (source = %q)\n", base+"/v1", shared.SourceSpotify)

	return server.New(opts, shared.WithLogger(r.logger, "component", "demo")).Listen(ctx, addr)
}
