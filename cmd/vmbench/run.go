package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DjordjeVuckovic/vm-bench/internal/bench/runner"
	"github.com/DjordjeVuckovic/vm-bench/internal/bench/spec"
	"github.com/DjordjeVuckovic/vm-bench/internal/storage/factory"
	"github.com/spf13/cobra"
)

type runFlags struct {
	specPath   string
	suites     []string
	iterations int
	timeout    time.Duration
	output     string
	failFast   bool
	json       bool
}

func newRunCmd() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run benchmark suites against every configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runBench(ctx, cmd, f)
		},
	}

	cmd.Flags().StringVarP(&f.specPath, "spec", "s", "", "Path to bench spec YAML")
	cmd.Flags().StringSliceVar(&f.suites, "suite", nil, "Suite to run, repeatable (default all)")
	cmd.Flags().IntVarP(&f.iterations, "iterations", "n", 0, "Trials per benchmark (overrides spec)")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "Time limit per trial (overrides spec)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output directory (overrides spec)")
	cmd.Flags().BoolVar(&f.failFast, "fail-fast", false, "Stop at the first failed suite")
	cmd.Flags().BoolVar(&f.json, "json", false, "Also write a JSON report per suite")
	_ = cmd.MarkFlagRequired("spec")

	return cmd
}

func runBench(ctx context.Context, cmd *cobra.Command, f runFlags) error {
	bs, err := spec.LoadFromFile(f.specPath)
	if err != nil {
		return fmt.Errorf("load spec %s: %w", f.specPath, err)
	}

	suites, err := selectSuites(bs, f.suites)
	if err != nil {
		return err
	}

	cfg := runner.ConfigFromSpec(bs)
	if f.iterations > 0 {
		cfg.Iterations = f.iterations
	}
	if f.timeout > 0 {
		cfg.Timeout = f.timeout
	}
	if f.output != "" {
		cfg.OutputDir = f.output
	}
	cfg.FailFast = f.failFast
	cfg.WriteJSON = cfg.WriteJSON || f.json
	cfg.Summary = cmd.OutOrStdout()

	sinkCfg, err := sinkConfig(bs)
	if err != nil {
		return err
	}
	sink, err := factory.NewSink(ctx, sinkCfg)
	if err != nil {
		return fmt.Errorf("create sink: %w", err)
	}
	defer sink.Close()

	rr, err := runner.New(cfg, sink).RunAll(ctx, bs.Configurations, suites)
	if rr != nil {
		for _, p := range rr.Paths() {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
	}
	return err
}

// sinkConfig prefers the spec's sink section over the environment.
func sinkConfig(bs *spec.BenchSpec) (*factory.SinkConfig, error) {
	if bs.Sink != nil {
		return factory.FromSpec(bs.Sink), nil
	}
	return factory.LoadEnv()
}

func selectSuites(bs *spec.BenchSpec, names []string) ([]spec.Suite, error) {
	if len(names) == 0 {
		return bs.Suites, nil
	}
	out := make([]spec.Suite, 0, len(names))
	for _, n := range names {
		st, ok := bs.Suite(n)
		if !ok {
			return nil, fmt.Errorf("suite %q not found in spec", n)
		}
		out = append(out, st)
	}
	slog.Debug("Selected suites", "suites", names)
	return out, nil
}

func newValidateCmd() *cobra.Command {
	var specPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a bench spec",
		RunE: func(cmd *cobra.Command, args []string) error {
			bs, err := spec.LoadFromFile(specPath)
			if err != nil {
				return fmt.Errorf("load spec %s: %w", specPath, err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "spec %s is valid\n", specPath)
			for _, c := range bs.Configurations {
				fmt.Fprintf(out, "configuration %s: %s\n", c.Name, c.Dir)
			}
			for _, s := range bs.Suites {
				fmt.Fprintf(out, "suite %s: %d benchmarks\n", s.Name, len(s.Benchmarks))
			}
			fmt.Fprintf(out, "iterations %d, timeout %s, output %s\n", bs.Runs.Iterations, bs.Runs.Timeout, bs.Output.Dir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&specPath, "spec", "s", "", "Path to bench spec YAML")
	_ = cmd.MarkFlagRequired("spec")
	return cmd
}
