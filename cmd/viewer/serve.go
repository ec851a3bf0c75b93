package main

import (
	"context"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"pdf-viewer/internal/config"
	"pdf-viewer/internal/handler"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the highlight API server",
	Long: `Start the HTTP server that stores and serves highlights.

The storage backend is selected with the STORE_BACKEND environment variable
(memory, sqlite or supabase).

Endpoints:
  GET    /health
  GET    /api/v1/highlights?source=...
  POST   /api/v1/highlights
  DELETE /api/v1/highlights/{id}`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		container, err := config.NewContainer()
		if err != nil {
			return err
		}

		router := handler.NewRouter(container)
		server := &http.Server{
			Addr:    ":" + container.Config.GetServerPort(),
			Handler: router,
		}

		errCh := make(chan error, 1)
		go func() {
			container.Logger.Info("Server listening", "address", server.Addr)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
		}()

		select {
		case err := <-errCh:
			container.Logger.Error("Server failed to start", err)
			return err
		case <-ctx.Done():
		}

		container.Logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			container.Logger.Error("Server shutdown failed", err)
			return err
		}

		container.Logger.Info("Server exited")
		return nil
	},
}
