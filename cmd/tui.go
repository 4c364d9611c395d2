package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/skytunes/internal/shared"
	"github.com/desertthunder/skytunes/internal/tasks"
	"github.com/desertthunder/skytunes/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive dashboard.
//
// Favourites are optional: when the database cannot be opened the dashboard still runs.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	deps := ui.Deps{
		Resolver: r.resolver(),
		Logger:   r.logger,
	}

	if source, err := r.trackSource(); err == nil {
		deps.Poller = tasks.NewPoller(source, r.config.Music.PollInterval.Std(), nil, r.logger)
	} else {
		r.logger.Warn("now playing disabled", "error", err)
	}

	if repo, err := r.favorites(); err == nil {
		deps.Favorites = repo
	} else {
		r.logger.Warn("favorites disabled", "error", err)
	}

	model := ui.NewModel(ctx, deps)
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
