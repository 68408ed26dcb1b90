package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/predictx/internal/shared"
	"github.com/desertthunder/predictx/internal/tasks"
	"github.com/desertthunder/predictx/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive upload form.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, r.logger.GetLevel())
	r.SetLogger(fileLogger)

	ctrl := tasks.NewUploadController(r.predictor, r.logger)
	model := ui.NewModel(ctx, ctrl, r.config.Output.Dir)
	defer model.Close()

	p := tea.NewProgram(model, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
