package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/DjordjeVuckovic/vm-bench/internal/apperr"
	"github.com/DjordjeVuckovic/vm-bench/internal/bench/report"
	"github.com/DjordjeVuckovic/vm-bench/internal/bench/spec"
	"github.com/DjordjeVuckovic/vm-bench/internal/storage"
	"github.com/DjordjeVuckovic/vm-bench/internal/storage/in_mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeVM prints a fixed metric except for benchmarks whose path contains "Broken".
func fakeVM(t *testing.T, name string) spec.Configuration {
	t.Helper()
	dir := t.TempDir()
	script := "#!/bin/sh\n" +
		"case \"$1\" in\n" +
		"  *Broken*) echo \"no metric here\" ;;\n" +
		"  *) echo \"GC time [2.5]\" ;;\n" +
		"esac\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vm.sh"), []byte(script), 0o755))
	return spec.Configuration{Name: name, Dir: dir, Executable: "vm.sh"}
}

func testConfig(t *testing.T) Config {
	cfg := DefaultConfig()
	cfg.Iterations = 3
	cfg.OutputDir = filepath.Join(t.TempDir(), "results")
	return cfg
}

type failingSink struct{}

func (failingSink) Save(context.Context, storage.RunInfo, *report.Table) error {
	return errors.New("connection refused")
}

func (failingSink) Close() {}

func TestRunner_RunAll(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	sink := in_mem.NewInMemSink()

	configs := []spec.Configuration{fakeVM(t, "copying"), fakeVM(t, "mark_sweep")}
	suites := []spec.Suite{
		{Name: "micro", Benchmarks: []string{"Examples/Benchmarks/Loop.som", "Examples/Benchmarks/Sieve.som"}},
		{Name: "richards", Benchmarks: []string{"Examples/Benchmarks/Richards/RichardsBenchmarks.som"}},
	}

	rr, err := New(cfg, sink).RunAll(ctx, configs, suites)
	require.NoError(t, err)
	require.Len(t, rr.Suites, 4)
	assert.Empty(t, rr.Failed())

	assert.Equal(t, []string{
		filepath.Join(cfg.OutputDir, "copying_micro.csv"),
		filepath.Join(cfg.OutputDir, "copying_richards.csv"),
		filepath.Join(cfg.OutputDir, "mark_sweep_micro.csv"),
		filepath.Join(cfg.OutputDir, "mark_sweep_richards.csv"),
	}, rr.Paths())

	raw, err := report.ReadFile(filepath.Join(cfg.OutputDir, "copying_micro.csv"))
	require.NoError(t, err)
	assert.Equal(t, report.Header(3), raw.Header)
	require.Equal(t, 2, raw.Len())
	assert.Equal(t, "Loop", raw.Label(0))
	assert.Equal(t, "Sieve", raw.Label(1))
	assert.Equal(t, "2.5", raw.Rows[0][3])
	assert.Equal(t, "0", raw.Rows[0][4])

	samples, err := raw.Samples(0)
	require.NoError(t, err)
	require.Len(t, samples, 3)
	for _, s := range samples {
		assert.Equal(t, 2.5, s.Metric)
		assert.Positive(t, s.WallTime)
	}

	records := sink.Records()
	require.Len(t, records, 6)
	for _, r := range records {
		assert.Equal(t, rr.RunID, r.RunID)
	}
	assert.Equal(t, "RichardsBenchmarks", records[2].Benchmark)
}

func TestRunner_FailedSuiteWritesNoFileAndContinues(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	configs := []spec.Configuration{fakeVM(t, "copying")}
	suites := []spec.Suite{
		{Name: "bad", Benchmarks: []string{"Loop.som", "Broken.som"}},
		{Name: "good", Benchmarks: []string{"Loop.som"}},
	}

	rr, err := New(cfg, nil).RunAll(ctx, configs, suites)
	require.Error(t, err)

	var parseErr *apperr.MetricParseError
	assert.ErrorAs(t, err, &parseErr)

	require.Len(t, rr.Suites, 2)
	assert.Error(t, rr.Suites[0].Err)
	assert.Empty(t, rr.Suites[0].Path)
	assert.NoFileExists(t, filepath.Join(cfg.OutputDir, "copying_bad.csv"))

	assert.NoError(t, rr.Suites[1].Err)
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "copying_good.csv"))
}

func TestRunner_FailFast(t *testing.T) {
	cfg := testConfig(t)
	cfg.FailFast = true

	configs := []spec.Configuration{fakeVM(t, "copying")}
	suites := []spec.Suite{
		{Name: "bad", Benchmarks: []string{"Broken.som"}},
		{Name: "good", Benchmarks: []string{"Loop.som"}},
	}

	rr, err := New(cfg, nil).RunAll(context.Background(), configs, suites)
	require.Error(t, err)
	assert.Len(t, rr.Suites, 1)
	assert.NoFileExists(t, filepath.Join(cfg.OutputDir, "copying_good.csv"))
}

func TestRunner_LaunchFailure(t *testing.T) {
	cfg := testConfig(t)
	missing := spec.Configuration{Name: "missing", Dir: t.TempDir(), Executable: "no-such-vm"}

	_, err := New(cfg, nil).RunAll(context.Background(), []spec.Configuration{missing},
		[]spec.Suite{{Name: "micro", Benchmarks: []string{"Loop.som"}}})

	var launchErr *apperr.LaunchError
	require.ErrorAs(t, err, &launchErr)
	assert.Contains(t, err.Error(), "no-such-vm Loop.som")
}

func TestRunner_SinkFailureKeepsReport(t *testing.T) {
	cfg := testConfig(t)

	rr, err := New(cfg, failingSink{}).RunAll(context.Background(),
		[]spec.Configuration{fakeVM(t, "copying")},
		[]spec.Suite{{Name: "micro", Benchmarks: []string{"Loop.som"}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")

	require.Len(t, rr.Suites, 1)
	assert.FileExists(t, rr.Suites[0].Path)
	assert.NotNil(t, rr.Suites[0].Table)
}

func TestRunner_JSONAndSummary(t *testing.T) {
	cfg := testConfig(t)
	cfg.WriteJSON = true
	var summary bytes.Buffer
	cfg.Summary = &summary

	rr, err := New(cfg, nil).RunAll(context.Background(),
		[]spec.Configuration{fakeVM(t, "copying")},
		[]spec.Suite{{Name: "micro", Benchmarks: []string{"Loop.som"}}})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, "copying_micro.json"))
	require.NoError(t, err)
	var doc report.Document
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, rr.RunID.String(), doc.RunID)
	assert.Equal(t, "micro", doc.Suite)
	assert.Equal(t, 3, doc.Trials)
	require.Len(t, doc.Rows, 1)
	assert.Equal(t, "Loop", doc.Rows[0].Name)

	assert.Contains(t, summary.String(), "copying / micro")
	assert.Contains(t, summary.String(), "Loop")
}

func TestRunner_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(testConfig(t), nil).RunAll(ctx,
		[]spec.Configuration{fakeVM(t, "copying")},
		[]spec.Suite{{Name: "micro", Benchmarks: []string{"Loop.som"}}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConfigFromSpec(t *testing.T) {
	bs, err := spec.Parse([]byte(`
configurations:
  - dir: /opt/vm/copying
    executable: SOM++
suites:
  - name: micro
    benchmarks: [Loop.som]
runs:
  iterations: 5
stats:
  legacy_wall_centering: true
output:
  json: true
`))
	require.NoError(t, err)

	cfg := ConfigFromSpec(bs)
	assert.Equal(t, 5, cfg.Iterations)
	assert.Equal(t, spec.DefaultTimeout, cfg.Timeout)
	assert.Equal(t, spec.DefaultZ, cfg.Stats.Z)
	assert.True(t, cfg.WriteJSON)
	assert.Equal(t, spec.DefaultOutputDir, cfg.OutputDir)
	assert.NotEqual(t, DefaultConfig().Stats.Centering, cfg.Stats.Centering)
}
