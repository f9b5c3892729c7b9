package storage

import (
	"context"
	"sort"
	"time"

	"github.com/DjordjeVuckovic/vm-bench/internal/bench/report"
	"github.com/DjordjeVuckovic/vm-bench/internal/bench/stats"
	"github.com/google/uuid"
)

// RunInfo identifies the run a table belongs to.
type RunInfo struct {
	RunID         uuid.UUID
	Configuration string
	Suite         string
	StartedAt     time.Time
}

// Sink receives every completed report table of a run.
type Sink interface {
	Save(ctx context.Context, run RunInfo, table *report.Table) error
	Close()
}

// RunLoader reads back the records of a stored run, ordered by configuration, suite and benchmark.
type RunLoader interface {
	LoadRun(ctx context.Context, runID uuid.UUID) ([]Record, error)
}

// SortRecords orders records by configuration, suite and benchmark.
func SortRecords(records []Record) {
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Configuration != b.Configuration {
			return a.Configuration < b.Configuration
		}
		if a.Suite != b.Suite {
			return a.Suite < b.Suite
		}
		return a.Benchmark < b.Benchmark
	})
}

type Type string

const (
	None   Type = "none"
	Memory Type = "memory"
	PG     Type = "postgres"
	ES     Type = "elasticsearch"
)

type SinkError string

const (
	ErrUnsupportedSink SinkError = "unsupported sink type: %s"
)

func (e SinkError) Error() string {
	return string(e)
}

// Record is one report row flattened for storage.
type Record struct {
	ID            uuid.UUID       `json:"id"`
	RunID         uuid.UUID       `json:"run_id"`
	Configuration string          `json:"configuration"`
	Suite         string          `json:"suite"`
	Benchmark     string          `json:"benchmark"`
	Trials        int             `json:"trials"`
	AvgTime       float64         `json:"avg_time"`
	AvgTimeErr    float64         `json:"avg_time_err"`
	AvgGCTime     float64         `json:"avg_gc_time"`
	AvgGCTimeErr  float64         `json:"avg_gc_time_err"`
	Samples       stats.SampleSet `json:"samples"`
	StartedAt     time.Time       `json:"started_at"`
}

// Records flattens table. Record IDs are derived from the run and row identity, so saving the
// same table twice yields the same IDs.
func Records(run RunInfo, table *report.Table) []Record {
	rows := table.Rows()
	records := make([]Record, 0, len(rows))
	for _, r := range rows {
		key := run.Configuration + "/" + run.Suite + "/" + r.Name
		records = append(records, Record{
			ID:            uuid.NewSHA1(run.RunID, []byte(key)),
			RunID:         run.RunID,
			Configuration: run.Configuration,
			Suite:         run.Suite,
			Benchmark:     r.Name,
			Trials:        table.Trials(),
			AvgTime:       r.Result.WallMean,
			AvgTimeErr:    r.Result.WallCI,
			AvgGCTime:     r.Result.MetricMean,
			AvgGCTimeErr:  r.Result.MetricCI,
			Samples:       r.Samples,
			StartedAt:     run.StartedAt,
		})
	}
	return records
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) Save(context.Context, RunInfo, *report.Table) error { return nil }

func (NopSink) Close() {}
