// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// app builds the root command.
func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:    "predictx",
		Usage:   "Upload data to the prediction service and download the predictions spreadsheet",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:  "url",
				Usage: "Prediction service base URL (overrides config)",
			},
		},
		Before:   r.Before,
		Commands: r.register(),
	}
}

// uploadCommand submits one file and saves the result
func uploadCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "upload",
		Usage: "Upload a file and save the returned predictions.xlsx",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "file",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (default: <output.dir>/predictions.xlsx)",
			},
		},
		Action: r.Upload,
	}
}

// statusCommand checks that the prediction service answers
func statusCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Check that the prediction service is reachable",
		Action: r.Status,
	}
}

// tuiCommand returns the top-level TUI command for interactive uploads.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive upload form",
		Action:  r.TUI,
	}
}

// serveCommand starts the local web client
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the single-page web client",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the web client in the default browser",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand handles setup operations.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write a config.toml populated with defaults",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "path",
						Usage: "Where to write the config file",
						Value: "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}
