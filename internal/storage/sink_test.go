package storage

import (
	"testing"
	"time"

	"github.com/DjordjeVuckovic/vm-bench/internal/bench/report"
	"github.com/DjordjeVuckovic/vm-bench/internal/bench/stats"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureTable(t *testing.T) *report.Table {
	t.Helper()
	tbl := report.NewTable(2)
	require.NoError(t, tbl.Add("Bounce",
		stats.Result{WallMean: 12, WallCI: 0.5, MetricMean: 2, MetricCI: 0.1},
		stats.SampleSet{{WallTime: 11, Metric: 2}, {WallTime: 13, Metric: 2}},
	))
	require.NoError(t, tbl.Add("Sieve",
		stats.Result{WallMean: 4, MetricMean: 1},
		stats.SampleSet{{WallTime: 4, Metric: 1}, {WallTime: 4, Metric: 1}},
	))
	return tbl
}

func TestRecords(t *testing.T) {
	run := RunInfo{
		RunID:         uuid.New(),
		Configuration: "copying_nocache",
		Suite:         "micro",
		StartedAt:     time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	records := Records(run, fixtureTable(t))
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "Bounce", first.Benchmark)
	assert.Equal(t, run.RunID, first.RunID)
	assert.Equal(t, "copying_nocache", first.Configuration)
	assert.Equal(t, "micro", first.Suite)
	assert.Equal(t, 2, first.Trials)
	assert.Equal(t, 12.0, first.AvgTime)
	assert.Equal(t, 0.5, first.AvgTimeErr)
	assert.Equal(t, 2.0, first.AvgGCTime)
	assert.Equal(t, 0.1, first.AvgGCTimeErr)
	assert.Len(t, first.Samples, 2)
	assert.Equal(t, run.StartedAt, first.StartedAt)

	assert.Equal(t, "Sieve", records[1].Benchmark)
	assert.NotEqual(t, records[0].ID, records[1].ID)
}

func TestRecords_StableIDs(t *testing.T) {
	run := RunInfo{RunID: uuid.New(), Configuration: "a", Suite: "s"}
	tbl := fixtureTable(t)

	again := Records(run, tbl)
	assert.Equal(t, Records(run, tbl)[0].ID, again[0].ID)

	other := Records(RunInfo{RunID: uuid.New(), Configuration: "a", Suite: "s"}, tbl)
	assert.NotEqual(t, again[0].ID, other[0].ID)
}

func TestRecords_EmptyTable(t *testing.T) {
	assert.Empty(t, Records(RunInfo{RunID: uuid.New()}, report.NewTable(3)))
}

func TestSinkError(t *testing.T) {
	assert.Equal(t, "unsupported sink type: %s", ErrUnsupportedSink.Error())
}

func TestSortRecords(t *testing.T) {
	records := []Record{
		{Configuration: "mark_sweep", Suite: "micro", Benchmark: "Loop"},
		{Configuration: "copying", Suite: "micro", Benchmark: "Sieve"},
		{Configuration: "copying", Suite: "macro", Benchmark: "Richards"},
		{Configuration: "copying", Suite: "micro", Benchmark: "Bounce"},
	}
	SortRecords(records)

	var got []string
	for _, r := range records {
		got = append(got, r.Configuration+"/"+r.Suite+"/"+r.Benchmark)
	}
	assert.Equal(t, []string{
		"copying/macro/Richards", "copying/micro/Bounce", "copying/micro/Sieve", "mark_sweep/micro/Loop",
	}, got)
}
