package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cratefm/crate/internal/server"
	"github.com/cratefm/crate/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the playlist and catalog HTTP API.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	st, err := r.requireStore()
	if err != nil {
		return err
	}

	host := cmd.String("host")
	if host == "" {
		host = r.config.Server.Host
	}
	port := cmd.Int("port")
	if port == 0 {
		port = r.config.Server.Port
	}

	router := server.NewBasicRouter()
	router.Use(server.Logging(r.logger), server.CORS(cmd.String("cors-origin")))
	router.Handler(server.NewPlaylistHandler(st))
	router.Handler(server.NewCatalogHandler(r.catalog, r.logger))

	addr := fmt.Sprintf("%s:%d", host, port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	r.logger.Info("starting server", "addr", addr)
	r.writePlain("Serving playlist API on http://%s\n", addr)

	if cmd.Bool("open") {
		go func() {
			time.Sleep(250 * time.Millisecond)
			if err := shared.OpenBrowser(fmt.Sprintf("http://%s/api/ping", addr)); err != nil {
				r.logger.Warn("failed to open browser", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
