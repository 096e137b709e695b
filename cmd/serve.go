package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"moodlist/internal/server"
	"moodlist/internal/shared"
	"moodlist/internal/web"
)

// Serve starts the web application: the embedded frontend at / and the JSON
// API under /api. Shuts down gracefully on SIGINT/SIGTERM.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if r.catalog == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}

	host := cmd.String("host")
	port := cmd.Int("port")
	if host != "" {
		r.config.Server.Host = host
	}
	if port != 0 {
		r.config.Server.Port = int(port)
	}

	webHandler, err := web.NewHandler(r.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize frontend: %w", err)
	}

	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(r.logger))
	router.Handler(server.NewAPIHandler(r.engine, r.catalog, r.logger))
	router.Handler(webHandler)

	httpServer := &http.Server{
		Addr:    r.config.Server.Addr(),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Info("server listening", "addr", httpServer.Addr)
		r.writePlain("→ Listening on http://%s\n", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		r.logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	return nil
}
