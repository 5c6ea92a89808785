package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"transparencia-backend/lib/serviceutil"
	"transparencia-backend/lib/telemetry"
	"transparencia-backend/services/receita"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "receita-cli",
	Short: "receita-cli queries the revenue records of the Fortaleza transparency portal.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.json5", "Path to the config file.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging.")
}

// loadConfig reads the service config and installs the logger it asks
// for (DEBUG when --verbose is given). the returned func flushes
// telemetry.
func loadConfig(ctx context.Context) (receita.Config, *slog.Logger, func()) {
	cfg, err := receita.Load(configPath)
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}

	level, err := telemetry.ParseLevel(cfg.LogLevel)
	if err != nil {
		slog.Warn("invalid log level, using INFO", "level", cfg.LogLevel)
	}
	if verbose {
		level = slog.LevelDebug
	}
	logger := telemetry.InitSlog(level)

	tel, err := telemetry.SetupFromEnv(ctx, "receita-cli")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	shutdown := func() {
		err := tel.Shutdown(context.Background())
		if err != nil {
			logger.Warn("failed to shut down telemetry", "err", err)
		}
	}

	return cfg, logger, shutdown
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
