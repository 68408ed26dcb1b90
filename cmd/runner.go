package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/predictx/internal/services"
	"github.com/desertthunder/predictx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	predictor  *services.PredictionService
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		// No Timeout: a request that never resolves stays Loading.
		opts.HTTPClient = &http.Client{}
	}

	return &Runner{
		config:     opts.Config,
		predictor:  services.NewPredictionService(opts.Config.Service.BaseURL, opts.HTTPClient),
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// Before loads the config named by --config, applies --url, and rebuilds the prediction client.
//
// A missing config file is not an error; the embedded defaults are used.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	configPath := cmd.String("config")

	config, err := shared.LoadConfig(configPath)
	switch {
	case err == nil:
		r.logger.Debug("config loaded", "path", configPath)
	case errors.Is(err, os.ErrNotExist):
		r.logger.Debug("config file not found, using defaults", "path", configPath)
		config = shared.DefaultConfig()
	default:
		return ctx, err
	}

	if url := cmd.String("url"); url != "" {
		config.Service.BaseURL = url
		if err := config.Validate(); err != nil {
			return ctx, err
		}
	}

	level, err := shared.ParseLogLevel(config.Log.Level)
	if err != nil {
		return ctx, err
	}
	shared.SetLogLevel(r.logger, level)

	r.config = config
	r.predictor = services.NewPredictionService(config.Service.BaseURL, r.httpClient)
	return ctx, nil
}

// SetLogger replaces the logger used by subsequent commands.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		uploadCommand, statusCommand, tuiCommand, serveCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
