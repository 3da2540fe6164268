package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/iwvelando/sir-forecast/internal/metrics"
	"github.com/iwvelando/sir-forecast/internal/server"
	"github.com/iwvelando/sir-forecast/pkg/constants"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type serveOptions struct {
	serverConfig  string
	address       string
	maxUploadSize string
	logLevel      string
}

func newServeCmd() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve projections over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts)
		},
	}

	cmd.Flags().StringVar(&opts.serverConfig, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.Flags().StringVar(&opts.address, "address", "", "listen address override")
	cmd.Flags().StringVar(&opts.maxUploadSize, "max-upload-size", "", "maximum configuration upload size override (e.g. 256K, 1M)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	return cmd
}

func runServe(ctx context.Context, opts *serveOptions) error {
	cfg, err := server.LoadConfig(opts.serverConfig)
	if err != nil {
		return fmt.Errorf("failed to load server configuration at %s: %w", opts.serverConfig, err)
	}
	if opts.address != "" {
		cfg.Address = opts.address
	}
	if opts.maxUploadSize != "" {
		size, err := server.ParseSize(opts.maxUploadSize)
		if err != nil {
			return err
		}
		cfg.SetUploadSizeBytes(size)
	}

	logger, err := initializeLogger(cfg.Logging, opts.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      server.NewHandler(logger, cfg.UploadSizeBytes(), version, newServiceMetrics()),
		ReadTimeout:  cfg.ReadTimeoutDuration(),
		WriteTimeout: cfg.WriteTimeoutDuration(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening",
			zap.String("op", "main.serve"),
			zap.String("address", cfg.Address),
			zap.Int64("maxUploadSize", cfg.UploadSizeBytes()),
			zap.String("version", version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			logger.Error("server failed", zap.String("op", "main.serve"), zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.String("op", "main.serve"))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeoutDuration())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.String("op", "main.serve"), zap.Error(err))
		return err
	}
	return nil
}

// newServiceMetrics exports the projection metrics next to the Go runtime and
// process collectors on one registry.
func newServiceMetrics() *metrics.Manager {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return metrics.NewManager(metrics.WithRegistry(registry))
}
