package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/DjordjeVuckovic/vm-bench/pkg/config/env"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:           "vmbench",
		Short:         "Benchmark VM builds and report timing statistics",
		Long:          "Runs benchmark suites against VM configurations, aggregates wall-clock and GC times into CSV reports, and merges or plots them.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := setupLogging(logLevel); err != nil {
				return err
			}
			return env.LoadDotEnv(".env", false)
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Set log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newRunCmd(),
		newValidateCmd(),
		newMergeCmd(),
		newInterleaveCmd(),
		newPlotCmd(),
		newServeCmd(),
	)
	return rootCmd
}

func setupLogging(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}
