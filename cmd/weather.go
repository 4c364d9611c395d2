package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/skytunes/internal/formatter"
	"github.com/desertthunder/skytunes/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Weather resolves the location once and prints the resulting weather state.
//
// A failed fetch still prints the error sentinel before returning the error.
func (r *Runner) Weather(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")
	verbose := cmd.Bool("verbose")

	progress := make(chan tasks.ProgressUpdate, 4)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for u := range progress {
			if verbose {
				r.logger.Info(u.Message, "phase", u.Phase)
			} else {
				r.logger.Debug(u.Message, "phase", u.Phase)
			}
		}
	}()

	state, err := r.resolver().ResolveWithProgress(ctx, progress)
	close(progress)
	<-done

	if useJSON {
		if werr := r.writeJSON(state, pretty); werr != nil {
			return werr
		}
	} else {
		r.writePlain("%s\n%s  %s\n", formatter.OrLoading(state.Location), formatter.Temperature(state), formatter.OrLoading(state.Condition))
	}

	if err != nil {
		return fmt.Errorf("weather unavailable: %w", err)
	}
	return nil
}
