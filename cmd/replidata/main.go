// Package main provides the replidata CLI entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pevans/replidata/config"
	"github.com/pevans/replidata/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// Global flags
var (
	configPath string
	logLevel   string
	logFormat  string
)

// Loaded by the root command before any subcommand runs
var (
	cfg    *config.Config
	logger zerolog.Logger
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(ctx, err))
	}
}

var rootCmd = &cobra.Command{
	Use:   "replidata",
	Short: "Scrape and join I4R replication report metadata",
	Long: `replidata collects metadata about replication reports published by the
Institute for Replication.

It loads the discussion paper index, visits each report's detail and
repository metadata pages, writes the results to CSV, and joins them with
the public reference database.

Configuration is read from replidata.yaml, or the file named by --config
or $REPLIDATA_CONFIG. A missing file means defaults.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (REPLIDATA_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", getEnv("REPLIDATA_LOG_LEVEL", ""), "Log level: debug, info, warn, error (REPLIDATA_LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", getEnv("REPLIDATA_LOG_FORMAT", ""), "Log format: console or json (REPLIDATA_LOG_FORMAT)")
	rootCmd.Version = Version
}

// loadConfig reads the config file, applies global flag overrides and builds
// the logger.
func loadConfig(cmd *cobra.Command, args []string) error {
	path := config.ResolvePath(configPath)

	loaded, err := config.LoadFile(path)
	if err != nil {
		return &exitError{code: ExitConfigError, err: fmt.Errorf("failed to load config %s: %w", path, err)}
	}

	if logLevel != "" {
		loaded.Logging.Level = logLevel
	}
	if logFormat != "" {
		loaded.Logging.Format = logFormat
	}
	if err := loaded.Validate(); err != nil {
		return &exitError{code: ExitConfigError, err: err}
	}

	cfg = loaded
	logger = logging.New(cfg.LoggingOptions())
	logger.Debug().Str("config", path).Msg("Loaded configuration")

	return nil
}

// exitCode maps a command error to a process exit code. Only a cancelled
// signal context counts as an interrupt; timeouts inside a run are ordinary
// failures.
func exitCode(signalCtx context.Context, err error) int {
	var e *exitError
	if errors.As(err, &e) {
		return e.code
	}
	if signalCtx.Err() != nil {
		return ExitInterrupted
	}
	return ExitError
}
