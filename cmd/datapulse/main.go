// main.go - dashboard server
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/karloscodes/cartridge"
	"github.com/spf13/cobra"

	"datapulse/internal"
	"datapulse/internal/config"
)

var version = "dev"

// shutdowner is the part of the application stopped on a termination signal.
type shutdowner interface {
	Shutdown(ctx context.Context) error
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "datapulse",
		Short:        "Search console analytics dashboard",
		Long:         "DataPulse loads a search console CSV export once and serves a single dashboard page with its trends, keywords, countries, devices and top URLs.",
		Version:      version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logger := cartridge.NewLogger(cfg, nil)
	slog.SetDefault(logger)

	logger.Info("Preparing dashboard...", slog.String("data", cfg.DataPath))
	app, err := internal.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to prepare dashboard", slog.Any("error", err))
		return err
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- app.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	timeout := time.Duration(cfg.ShutdownTimeoutSeconds) * time.Second
	return waitForShutdownSignal(app, logger, sigChan, serverErr, timeout)
}

// waitForShutdownSignal blocks until the server fails or a termination signal
// arrives, then performs a graceful shutdown bounded by timeout.
func waitForShutdownSignal(app shutdowner, logger *slog.Logger, sigChan <-chan os.Signal, serverErr <-chan error, timeout time.Duration) error {
	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server failed", slog.Any("error", err))
		}
		return err
	case sig := <-sigChan:
		logger.Info("Received signal", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	logger.Info("Initiating graceful shutdown...")
	if err := app.Shutdown(ctx); err != nil {
		return fmt.Errorf("error during shutdown: %w", err)
	}
	logger.Info("Server shutdown complete")
	return nil
}
