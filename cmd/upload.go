package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/desertthunder/predictx/internal/models"
	"github.com/desertthunder/predictx/internal/shared"
	"github.com/desertthunder/predictx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Upload sends one file to the prediction service and saves the returned spreadsheet.
func (r *Runner) Upload(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("file")
	if path == "" {
		return fmt.Errorf("%w: file", shared.ErrMissingArgument)
	}

	output := cmd.String("output")
	if output == "" {
		output = filepath.Join(r.config.Output.Dir, models.ResultFilename)
	}

	ctrl := tasks.NewUploadController(r.predictor, r.logger)
	defer ctrl.Close()

	ctrl.SelectFile(models.FileFromPath(path))
	if err := ctrl.Ready(); err != nil {
		return err
	}
	r.logger.Infof("uploading %v to %v", path, r.predictor.BaseURL())
	r.writePlain("%s %s...\n", tasks.LabelLoading, filepath.Base(path))
	ctrl.Submit(ctx)

	state := ctrl.State()
	if msg, ok := state.Message(); ok {
		r.writePlain("✗ %s\n", msg)
		return fmt.Errorf("%w: %s", shared.ErrAPIRequest, msg)
	}

	result, ok := state.Result()
	if !ok {
		return fmt.Errorf("%w: upload ended in state %v", shared.ErrNoResult, state.Status())
	}

	saved, err := result.SaveAs(output)
	if err != nil {
		return err
	}

	r.logger.Info("predictions saved", "path", saved, "bytes", result.Size())
	return r.writePlain("✓ Predictions saved to %s\n", saved)
}

// Status checks that the prediction service answers on its root endpoint.
func (r *Runner) Status(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("checking service status", "url", r.predictor.BaseURL())

	if err := r.predictor.Health(ctx); err != nil {
		return err
	}
	return r.writePlain("✓ Prediction service is reachable at %s\n", r.predictor.BaseURL())
}

// SetupConfig writes a config.toml populated with the embedded defaults.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	return r.writePlain("✓ Config written to %s\n", path)
}
