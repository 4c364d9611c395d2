package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/desertthunder/skytunes/internal/formatter"
	"github.com/desertthunder/skytunes/internal/models"
	"github.com/desertthunder/skytunes/internal/tasks"
	"github.com/urfave/cli/v3"
)

// trackJSON is the --json shape of a poll result.
type trackJSON struct {
	models.TrackState
	Progress *float64 `json:"progress"`
	Error    string   `json:"error,omitempty"`
}

// NowPlaying prints the current track once, or keeps polling with --watch.
func (r *Runner) NowPlaying(ctx context.Context, cmd *cli.Command) error {
	source, err := r.trackSource()
	if err != nil {
		return err
	}

	useJSON := cmd.Bool("json")

	if !cmd.Bool("watch") {
		u := tasks.FetchTrack(ctx, source, r.logger)
		if err := r.printTrack(u, useJSON); err != nil {
			return err
		}
		if u.Err != nil {
			return fmt.Errorf("now playing unavailable: %w", u.Err)
		}
		return nil
	}

	interval := cmd.Duration("interval")
	if interval <= 0 {
		interval = r.config.Music.PollInterval.Std()
	}
	limit := int64(cmd.Int("count"))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := tasks.NewNowPlayingStore()
	var seen atomic.Int64
	sink := func(u tasks.TrackUpdate) {
		store.Apply(u)
		if err := r.printTrack(u, useJSON); err != nil {
			r.logger.Error("failed to print track", "error", err)
		}
		if limit > 0 && seen.Add(1) >= limit {
			stop()
		}
	}

	r.logger.Info("watching now playing", "source", source.Name(), "interval", interval)

	handle := tasks.NewPoller(source, interval, sink, r.logger).Start(ctx)
	<-handle.Done()
	handle.Wait()

	last := store.Snapshot()
	r.logger.Info("stopped watching", "tracks", len(store.History()), "last", last.Track.SongName, "updated", last.LastUpdated)
	return nil
}

func (r *Runner) printTrack(u tasks.TrackUpdate, useJSON bool) error {
	if useJSON {
		out := trackJSON{TrackState: u.Track}
		if u.Err != nil {
			out.Error = u.Err.Error()
		} else if !math.IsNaN(u.Progress) && !math.IsInf(u.Progress, 0) {
			p := u.Progress
			out.Progress = &p
		}
		return r.writeJSON(out, false)
	}

	return r.writePlain("♪ %s - %s  %s  %s\n", u.Track.SongName, u.Track.ArtistName, formatter.PlaybackTime(u.Track), percent(u))
}

// percent renders progress rounded half up, "--%" when it is not a finite number or the poll failed.
func percent(u tasks.TrackUpdate) string {
	if u.Err != nil || math.IsNaN(u.Progress) || math.IsInf(u.Progress, 0) {
		return "--%"
	}
	return fmt.Sprintf("%.0f%%", tasks.RoundHalfUp(u.Progress))
}
