package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/vm-bench/internal/bench/stats"
)

const (
	Separator = ", "

	ColName          = "name"
	ColAvgTime       = "avg_time"
	ColAvgTimeErr    = "avg_time_err"
	ColAvgGCTime     = "avg_gc_time"
	ColAvgGCTimeErr  = "avg_gc_time_err"
	colTotalTimePref = "total_time_"
	colGCTimePref    = "gc_time_"

	// LeadingColumns is the number of columns before the per-trial pairs.
	LeadingColumns = 5
)

// Identity derives a benchmark or table name from a path: the base name without leading dots, cut
// at its first dot.
func Identity(path string) string {
	base := strings.TrimLeft(filepath.Base(path), ".")
	if i := strings.Index(base, "."); i >= 0 {
		return base[:i]
	}
	return base
}

type Row struct {
	Name    string          `json:"name"`
	Result  stats.Result    `json:"aggregate"`
	Samples stats.SampleSet `json:"samples"`
}

func (r Row) Fields() []string {
	fields := make([]string, 0, LeadingColumns+2*len(r.Samples))
	fields = append(fields,
		r.Name,
		FormatFloat(r.Result.WallMean),
		FormatFloat(r.Result.WallCI),
		FormatFloat(r.Result.MetricMean),
		FormatFloat(r.Result.MetricCI),
	)
	for _, s := range r.Samples {
		fields = append(fields, FormatFloat(s.WallTime), FormatFloat(s.Metric))
	}
	return fields
}

// Table accumulates rows for one configuration and suite. The trial count is fixed at construction.
type Table struct {
	trials int
	rows   []Row
}

func NewTable(trials int) *Table {
	return &Table{trials: trials}
}

func (t *Table) Trials() int { return t.trials }

func (t *Table) Len() int { return len(t.rows) }

func (t *Table) Rows() []Row {
	out := make([]Row, len(t.rows))
	copy(out, t.rows)
	return out
}

func (t *Table) Add(name string, res stats.Result, samples stats.SampleSet) error {
	if len(samples) != t.trials {
		return fmt.Errorf("benchmark %q has %d samples, table expects %d", name, len(samples), t.trials)
	}
	own := make(stats.SampleSet, len(samples))
	copy(own, samples)
	t.rows = append(t.rows, Row{Name: name, Result: res, Samples: own})
	return nil
}

func (t *Table) Header() []string {
	return Header(t.trials)
}

func Header(trials int) []string {
	header := []string{ColName, ColAvgTime, ColAvgTimeErr, ColAvgGCTime, ColAvgGCTimeErr}
	for i := 0; i < trials; i++ {
		header = append(header, colTotalTimePref+strconv.Itoa(i), colGCTimePref+strconv.Itoa(i))
	}
	return header
}

func (t *Table) WriteCSV(w io.Writer) error {
	if err := writeLine(w, t.Header()); err != nil {
		return err
	}
	for _, r := range t.rows {
		if err := writeLine(w, r.Fields()); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table) String() string {
	var sb strings.Builder
	_ = t.WriteCSV(&sb)
	return sb.String()
}

func writeLine(w io.Writer, fields []string) error {
	if _, err := io.WriteString(w, strings.Join(fields, Separator)+"\n"); err != nil {
		return fmt.Errorf("write csv line: %w", err)
	}
	return nil
}

// FormatFloat renders the shortest decimal text that parses back to v.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
