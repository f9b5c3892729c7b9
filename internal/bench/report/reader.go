package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/vm-bench/internal/bench/stats"
)

// RawTable is a parsed CSV file: a header and rows of trimmed text fields.
type RawTable struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

func ReadFile(path string) (*RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	t, err := ParseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return t, nil
}

// ParseCSV reads comma separated lines, trimming whitespace around every field.
// Rows may have differing field counts; callers validate shape.
func ParseCSV(r io.Reader) (*RawTable, error) {
	csvReader := csv.NewReader(r)
	csvReader.FieldsPerRecord = -1
	csvReader.TrimLeadingSpace = true
	csvReader.LazyQuotes = true

	header, err := csvReader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("csv has no header")
	}
	if err != nil {
		return nil, err
	}
	header = trimAll(header)
	if header[0] == "#"+ColName {
		header[0] = ColName
	}

	t := &RawTable{Header: header}
	for {
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		t.Rows = append(t.Rows, trimAll(row))
	}
	return t, nil
}

func trimAll(fields []string) []string {
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
	return fields
}

func (t *RawTable) Len() int { return len(t.Rows) }

// Label returns the first field of row i.
func (t *RawTable) Label(i int) string {
	if i < 0 || i >= len(t.Rows) || len(t.Rows[i]) == 0 {
		return ""
	}
	return t.Rows[i][0]
}

// Samples re-derives the per-trial SampleSet of row i of a report CSV.
func (t *RawTable) Samples(i int) (stats.SampleSet, error) {
	if i < 0 || i >= len(t.Rows) {
		return nil, fmt.Errorf("row %d out of range", i)
	}
	row := t.Rows[i]
	if len(row) < LeadingColumns || (len(row)-LeadingColumns)%2 != 0 {
		return nil, fmt.Errorf("row %d has %d fields, not a report row", i, len(row))
	}

	samples := make(stats.SampleSet, 0, (len(row)-LeadingColumns)/2)
	for c := LeadingColumns; c < len(row); c += 2 {
		wall, err := strconv.ParseFloat(row[c], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d column %d: %w", i, c, err)
		}
		metric, err := strconv.ParseFloat(row[c+1], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d column %d: %w", i, c+1, err)
		}
		samples = append(samples, stats.Sample{WallTime: wall, Metric: metric})
	}
	return samples, nil
}

func (t *RawTable) WriteCSV(w io.Writer) error {
	if err := writeLine(w, t.Header); err != nil {
		return err
	}
	for _, r := range t.Rows {
		if err := writeLine(w, r); err != nil {
			return err
		}
	}
	return nil
}

func (t *RawTable) String() string {
	var sb strings.Builder
	_ = t.WriteCSV(&sb)
	return sb.String()
}
