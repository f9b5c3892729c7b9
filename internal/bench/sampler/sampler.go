package sampler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/vm-bench/internal/apperr"
	"github.com/DjordjeVuckovic/vm-bench/internal/bench/spec"
	"github.com/DjordjeVuckovic/vm-bench/internal/bench/stats"
)

// LibraryPathVar is pointed at the configuration directory for every trial.
const LibraryPathVar = "LD_LIBRARY_PATH"

var metricPattern = regexp.MustCompile(`\[(\d+(?:\.\d+)?)\]`)

type Config struct {
	// Timeout bounds a single trial. Zero disables the bound.
	Timeout time.Duration
}

type Sampler struct {
	config Config
}

func New(cfg Config) *Sampler {
	return &Sampler{config: cfg}
}

// Command builds the argv for one benchmark under cfg. "${dir}" in flags expands to cfg.Dir.
func Command(cfg spec.Configuration, benchmarkPath string) []string {
	argv := make([]string, 0, len(cfg.Flags)+2)
	exe := cfg.Executable
	if !filepath.IsAbs(exe) {
		exe = filepath.Join(cfg.Dir, exe)
	}
	argv = append(argv, exe)
	for _, f := range cfg.Flags {
		argv = append(argv, strings.ReplaceAll(f, "${dir}", cfg.Dir))
	}
	return append(argv, benchmarkPath)
}

// Sample runs benchmarkPath n times against cfg, one trial after another.
func (s *Sampler) Sample(ctx context.Context, cfg spec.Configuration, benchmarkPath string, n int) (stats.SampleSet, error) {
	if n < 1 {
		return nil, fmt.Errorf("trial count must be at least 1, got %d", n)
	}

	argv := Command(cfg, benchmarkPath)
	cmdLine := strings.Join(argv, " ")
	env := environment(cfg)

	slog.Info("Executing benchmark", "config", cfg.Name, "benchmark", benchmarkPath, "trials", n)

	samples := make(stats.SampleSet, 0, n)
	for i := 0; i < n; i++ {
		smp, err := s.trial(ctx, cfg.Dir, argv, cmdLine, env)
		if err != nil {
			return nil, err
		}
		samples = append(samples, smp)
		slog.Debug("Trial finished", "benchmark", benchmarkPath, "trial", i, "wall_ms", smp.WallTime, "metric", smp.Metric)
	}
	return samples, nil
}

func (s *Sampler) trial(ctx context.Context, dir string, argv []string, cmdLine string, env []string) (stats.Sample, error) {
	runCtx := ctx
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	var stdout bytes.Buffer
	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Env = env
	cmd.Stdout = &stdout
	// children left behind by a killed target must not keep Wait blocked on the pipe
	cmd.WaitDelay = time.Second

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return stats.Sample{}, &apperr.LaunchError{Command: cmdLine, Err: err}
	}
	waitErr := cmd.Wait()
	elapsed := time.Since(start)

	if waitErr != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return stats.Sample{}, &apperr.TimeoutError{Command: cmdLine, Timeout: s.config.Timeout}
		}
		if ctx.Err() != nil {
			return stats.Sample{}, fmt.Errorf("benchmark %q interrupted: %w", cmdLine, ctx.Err())
		}
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return stats.Sample{}, fmt.Errorf("wait for %q: %w", cmdLine, waitErr)
		}
		slog.Warn("Benchmark exited with non-zero status", "command", cmdLine, "exit_code", exitErr.ExitCode())
	}

	output := stdout.String()
	metric, ok := ParseMetric(output)
	if !ok {
		return stats.Sample{}, &apperr.MetricParseError{Dir: dir, Command: cmdLine, Output: output}
	}

	return stats.Sample{
		WallTime: float64(elapsed) / float64(time.Millisecond),
		Metric:   metric,
	}, nil
}

// ParseMetric extracts the first bracketed decimal number, e.g. "[12.345]" or "[42]".
func ParseMetric(output string) (float64, bool) {
	m := metricPattern.FindStringSubmatch(output)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func environment(cfg spec.Configuration) []string {
	env := os.Environ()
	for k, v := range cfg.Env {
		env = append(env, k+"="+v)
	}
	return append(env, LibraryPathVar+"="+cfg.Dir)
}
