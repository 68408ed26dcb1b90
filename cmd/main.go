package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/predictx/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runner.app().Run(ctx, os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
