package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/warp/maturity-engine/api"
	"github.com/warp/maturity-engine/batch"
	"github.com/warp/maturity-engine/metrics"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API for policy management and calculation runs.

On SIGINT/SIGTERM the server stops accepting connections, waits up to 30s
for active requests and closes the database.

Examples:
  # File database from config.yaml
  maturity serve

  # Throwaway database on another port
  MATURITY_DATABASE_PATH=:memory: maturity serve --port 3000`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "override HTTP port")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.API.Port = servePort
	}

	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	m := metrics.New(prometheus.DefaultRegisterer)
	runner := batch.NewRunner(store, cfg.Output.Dir, cfg.Output.Filename, logger, m)
	handler := api.NewHandler(store, runner, logger)
	router := api.NewRouter(handler, api.RouterOptions{
		CORSOrigins: cfg.API.CORSOrigins,
		Gatherer:    prometheus.DefaultGatherer,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.API.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			"addr", server.Addr,
			"database", cfg.Database.Path,
			"output", cfg.Output.Dir,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-quit:
	}

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
