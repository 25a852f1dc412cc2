package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Veraticus/nota/internal/stubserver"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const shutdownTimeout = 5 * time.Second

func stubCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stub",
		Short: "Run a local stand-in analysis server",
		Long: `Serve /upload and /salvar-dados from memory. Uploads that contain a JSON
object are taken as the extraction itself; anything else yields a sample
invoice. Saved invoices are detected as duplicates on the next upload.

Examples:
  nota stub                 # Listen on :5000
  nota stub --addr :8080`,
		RunE: runStub,
	}

	cmd.Flags().String("addr", "", "Listen address (default :5000)")
	_ = viper.BindPFlag("stub.addr", cmd.Flags().Lookup("addr"))

	return cmd
}

func runStub(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	addr := settings.Stub.Addr

	if settings.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           stubserver.New().Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return serve(ctx, srv)
}

// serve runs srv until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("Stub server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("stub server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down stub server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down stub server: %w", err)
	}
	return nil
}
