package runner

import (
	"io"
	"time"

	"github.com/DjordjeVuckovic/vm-bench/internal/bench/spec"
	"github.com/DjordjeVuckovic/vm-bench/internal/bench/stats"
)

type Config struct {
	Iterations int
	// Timeout bounds each trial.
	Timeout   time.Duration
	Stats     stats.Options
	OutputDir string
	WriteJSON bool
	// FailFast stops the run at the first failed suite instead of moving on.
	FailFast bool
	// Summary receives a console table per finished suite. Nil disables it.
	Summary io.Writer
}

func DefaultConfig() Config {
	return Config{
		Iterations: spec.DefaultIterations,
		Timeout:    spec.DefaultTimeout,
		Stats:      stats.DefaultOptions(),
		OutputDir:  spec.DefaultOutputDir,
	}
}

// ConfigFromSpec takes run settings from a loaded spec file.
func ConfigFromSpec(bs *spec.BenchSpec) Config {
	cfg := DefaultConfig()
	cfg.Iterations = bs.Runs.Iterations
	cfg.Timeout = bs.Runs.Timeout
	cfg.Stats.Z = bs.Stats.Z
	if bs.Stats.LegacyWallCentering {
		cfg.Stats.Centering = stats.CenterWall
	}
	cfg.OutputDir = bs.Output.Dir
	cfg.WriteJSON = bs.Output.JSON
	return cfg
}
