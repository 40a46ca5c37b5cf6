package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/aashari/go-worklist-extractor/internal/app"
	"github.com/aashari/go-worklist-extractor/internal/logger"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the extraction HTTP server.

The server provides:
  - POST /api/extract-info                 - extract records from a base64 JPEG
  - POST /.netlify/functions/extract-info  - same handler, legacy path
  - /health                                - health check
  - /metrics                               - in-process counters
  - /swagger/                              - API documentation

Examples:
  extractor serve                    # Start on default port 8082
  extractor serve --port 3000        # Start on custom port
  extractor serve --host 127.0.0.1   # Bind to loopback only`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		application, err := app.NewApp(cfg)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:         cfg.Address(),
			Handler:      application.SetupRoutes(),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		}

		return run(cmd.Context(), srv)
	},
}

// run serves until ctx is cancelled, then drains in-flight requests
func run(ctx context.Context, srv *http.Server) error {
	logCtx := logger.WithComponent(ctx, logger.ComponentNames.Server)

	errCh := make(chan error, 1)
	go func() {
		logger.InfoCtx(logger.WithStage(logCtx, logger.LogStages.Initialization), "Server starting",
			"address", srv.Addr,
			"swagger_url", "http://"+srv.Addr+"/swagger/index.html",
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			logger.ErrorCtx(logCtx, "Server failed", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.InfoCtx(logger.WithStage(logCtx, logger.LogStages.Shutdown), "Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorCtx(logCtx, "Server shutdown failed", "error", err)
		return err
	}

	logger.InfoCtx(logger.WithStage(logCtx, logger.LogStages.Shutdown), "Server stopped")
	return nil
}

func init() {
	serveCmd.Flags().String("host", "", "Host to bind to (default 0.0.0.0)")
	serveCmd.Flags().Int("port", 0, "Port to listen on (default 8082 or $PORT)")
	_ = loader.Viper().BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	_ = loader.Viper().BindPFlag("server.port", serveCmd.Flags().Lookup("port"))

	rootCmd.AddCommand(serveCmd)
}
