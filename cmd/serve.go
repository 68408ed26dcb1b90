package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/predictx/internal/models"
	"github.com/desertthunder/predictx/internal/server"
	"github.com/desertthunder/predictx/internal/shared"
	"github.com/desertthunder/predictx/internal/web"
	"github.com/urfave/cli/v3"
)

const shutdownGrace = 5 * time.Second

// newWebHandler wires the web client onto a router with logging and rate limiting.
func (r *Runner) newWebHandler(ctx context.Context) (*web.App, http.Handler) {
	// Uploads are never cancelled, not even by shutdown.
	app := web.NewApp(context.WithoutCancel(ctx), r.predictor, r.logger)

	router := server.NewBasicRouter()
	router.Use(
		server.RequestLogger(shared.WithLogger(r.logger, "component", "web")),
		server.RateLimit(server.NewLimiter(r.config.Server.RequestsPerSecond)),
	)
	app.Register(router)
	return app, router
}

// Serve runs the web client until the context is cancelled.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	app, handler := r.newWebHandler(ctx)
	defer app.Close()

	srv := &http.Server{Addr: r.config.Server.Addr(), Handler: handler}
	url := fmt.Sprintf("http://%s/", srv.Addr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	r.logger.Info("web client listening", "url", url, "service", r.predictor.BaseURL())
	r.writePlain("Serving %s on %s (ctrl+c to stop)\n", models.Title, url)

	if cmd.Bool("open") {
		if err := shared.OpenBrowser(url); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
		}
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownGrace)
	defer cancel()

	r.logger.Info("shutting down web client")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}
