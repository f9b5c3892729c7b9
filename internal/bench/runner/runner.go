package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/DjordjeVuckovic/vm-bench/internal/bench/report"
	"github.com/DjordjeVuckovic/vm-bench/internal/bench/sampler"
	"github.com/DjordjeVuckovic/vm-bench/internal/bench/spec"
	"github.com/DjordjeVuckovic/vm-bench/internal/bench/stats"
	"github.com/DjordjeVuckovic/vm-bench/internal/storage"
	"github.com/google/uuid"
)

type Runner struct {
	config  Config
	sampler *sampler.Sampler
	sink    storage.Sink
}

// New creates a runner. A nil sink keeps results in files only.
func New(cfg Config, sink storage.Sink) *Runner {
	if sink == nil {
		sink = storage.NopSink{}
	}
	return &Runner{
		config:  cfg,
		sampler: sampler.New(sampler.Config{Timeout: cfg.Timeout}),
		sink:    sink,
	}
}

// ReportPath is the CSV file of one configuration and suite.
func ReportPath(outputDir, configuration, suite string) string {
	return filepath.Join(outputDir, configuration+"_"+suite+".csv")
}

// RunAll runs every suite against every configuration. Failed suites are logged and the run moves
// on to the next unit; the returned error joins all failures.
func (r *Runner) RunAll(ctx context.Context, configurations []spec.Configuration, suites []spec.Suite) (*RunResult, error) {
	rr := &RunResult{RunID: uuid.New(), StartedAt: time.Now().UTC()}

	if err := os.MkdirAll(r.config.OutputDir, 0o755); err != nil {
		return rr, fmt.Errorf("create output dir: %w", err)
	}

	slog.Info("Starting benchmark run",
		"run_id", rr.RunID,
		"configurations", len(configurations),
		"suites", len(suites),
		"iterations", r.config.Iterations,
		"output", r.config.OutputDir)

	var errs []error
	for _, cfg := range configurations {
		for _, st := range suites {
			if err := ctx.Err(); err != nil {
				return rr, errors.Join(append(errs, err)...)
			}

			run := storage.RunInfo{
				RunID:         rr.RunID,
				Configuration: cfg.Name,
				Suite:         st.Name,
				StartedAt:     rr.StartedAt,
			}
			sr := r.RunSuite(ctx, run, cfg, st)
			rr.Suites = append(rr.Suites, sr)

			if sr.Err != nil {
				slog.Error("Suite failed", "config", cfg.Name, "suite", st.Name, "error", sr.Err)
				errs = append(errs, fmt.Errorf("%s/%s: %w", cfg.Name, st.Name, sr.Err))
				if r.config.FailFast {
					return rr, errors.Join(errs...)
				}
			}
		}
	}

	slog.Info("Benchmark run finished", "run_id", rr.RunID, "suites", len(rr.Suites), "failed", len(rr.Failed()))
	return rr, errors.Join(errs...)
}

// RunSuite measures every benchmark of st under cfg and writes the report table. A benchmark failure
// stops the suite and no file is written. A sink failure is reported but leaves the file in place.
func (r *Runner) RunSuite(ctx context.Context, run storage.RunInfo, cfg spec.Configuration, st spec.Suite) SuiteResult {
	sr := SuiteResult{Configuration: cfg.Name, Suite: st.Name}

	table, err := r.measure(ctx, cfg, st)
	if err != nil {
		sr.Err = err
		return sr
	}
	sr.Table = table

	path := ReportPath(r.config.OutputDir, cfg.Name, st.Name)
	if err := writeCSV(path, table); err != nil {
		sr.Err = err
		return sr
	}
	sr.Path = path
	slog.Info("Report written", "config", cfg.Name, "suite", st.Name, "path", path, "rows", table.Len())

	if r.config.WriteJSON {
		doc := report.NewDocument(run.RunID.String(), cfg.Name, st.Name, run.StartedAt, table)
		jsonPath := path[:len(path)-len(filepath.Ext(path))] + ".json"
		if err := report.WriteJSON(doc, jsonPath); err != nil {
			sr.Err = err
			return sr
		}
	}

	if r.config.Summary != nil {
		report.WriteSummary(r.config.Summary, cfg.Name+" / "+st.Name, table)
	}

	if err := r.sink.Save(ctx, run, table); err != nil {
		slog.Error("Failed to save results to sink", "config", cfg.Name, "suite", st.Name, "error", err)
		sr.Err = fmt.Errorf("save results: %w", err)
	}
	return sr
}

func (r *Runner) measure(ctx context.Context, cfg spec.Configuration, st spec.Suite) (*report.Table, error) {
	table := report.NewTable(r.config.Iterations)
	for _, bench := range st.Benchmarks {
		samples, err := r.sampler.Sample(ctx, cfg, bench, r.config.Iterations)
		if err != nil {
			return nil, err
		}
		res, err := stats.Aggregate(samples, r.config.Stats)
		if err != nil {
			return nil, fmt.Errorf("aggregate %s: %w", bench, err)
		}
		if err := table.Add(report.Identity(bench), res, samples); err != nil {
			return nil, err
		}
	}
	return table, nil
}

func writeCSV(path string, table *report.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := table.WriteCSV(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	return nil
}
