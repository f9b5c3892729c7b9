package runner

import (
	"time"

	"github.com/DjordjeVuckovic/vm-bench/internal/bench/report"
	"github.com/google/uuid"
)

type SuiteResult struct {
	Configuration string
	Suite         string
	// Path is the written CSV file, empty when the suite failed.
	Path  string
	Table *report.Table
	Err   error
}

type RunResult struct {
	RunID     uuid.UUID
	StartedAt time.Time
	Suites    []SuiteResult
}

// Failed returns the suites that produced no report.
func (rr *RunResult) Failed() []SuiteResult {
	var out []SuiteResult
	for _, s := range rr.Suites {
		if s.Err != nil {
			out = append(out, s)
		}
	}
	return out
}

// Paths returns the CSV files written by the run in execution order.
func (rr *RunResult) Paths() []string {
	var out []string
	for _, s := range rr.Suites {
		if s.Path != "" {
			out = append(out, s.Path)
		}
	}
	return out
}
