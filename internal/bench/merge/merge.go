package merge

import (
	"strings"

	"github.com/DjordjeVuckovic/vm-bench/internal/apperr"
	"github.com/DjordjeVuckovic/vm-bench/internal/bench/report"
)

// QualifierSeparator joins a source identity and a column name in merged headers.
const QualifierSeparator = "."

// Source is one parsed table and the name its columns are qualified with.
type Source struct {
	Name  string
	Table *report.RawTable
}

// NewSource names a table after its file, the same way benchmark identities are derived.
func NewSource(path string, t *report.RawTable) Source {
	return Source{Name: report.Identity(path), Table: t}
}

type Options struct {
	// Positional aligns row r of every source with row r of the first source without comparing
	// labels. By default rows are joined on their label.
	Positional bool
}

// Merge projects columns from every source and places them side by side, keyed by the first
// source's labels. Nothing is returned unless every source passes the shape checks.
func Merge(columns []int, sources []Source, opts Options) (*report.RawTable, error) {
	if err := validate(columns, sources); err != nil {
		return nil, err
	}

	header := make([]string, 0, 1+len(columns)*len(sources))
	header = append(header, report.ColName)
	for _, src := range sources {
		for _, col := range columns {
			header = append(header, src.Name+QualifierSeparator+src.Table.Header[col])
		}
	}

	aligned, err := align(sources, opts)
	if err != nil {
		return nil, err
	}

	first := sources[0].Table
	rows := make([][]string, 0, first.Len())
	for r := 0; r < first.Len(); r++ {
		line := make([]string, 0, len(header))
		line = append(line, first.Label(r))
		for s, src := range sources {
			row := src.Table.Rows[aligned[s][r]]
			for _, col := range columns {
				line = append(line, row[col])
			}
		}
		rows = append(rows, line)
	}

	return &report.RawTable{Header: header, Rows: rows}, nil
}

func validate(columns []int, sources []Source) error {
	if len(sources) == 0 {
		return apperr.NewShapeMismatch("", "no source tables")
	}
	if len(columns) == 0 {
		return apperr.NewShapeMismatch("", "no columns selected")
	}

	want := sources[0].Table.Len()
	for _, src := range sources {
		t := src.Table
		if t.Len() != want {
			return apperr.NewShapeMismatch(src.Name, "has %d rows, %s has %d", t.Len(), sources[0].Name, want)
		}
		for _, col := range columns {
			if col < 0 || col >= len(t.Header) {
				return apperr.NewShapeMismatch(src.Name, "column %d out of range for header of %d fields", col, len(t.Header))
			}
		}
		for r, row := range t.Rows {
			if len(row) == 0 {
				return apperr.NewShapeMismatch(src.Name, "row %d is empty", r)
			}
			for _, col := range columns {
				if col >= len(row) {
					return apperr.NewShapeMismatch(src.Name, "column %d out of range in row %d (%s)", col, r, row[0])
				}
			}
		}
	}
	return nil
}

// align returns, per source, the row index matching each row of the first source.
func align(sources []Source, opts Options) ([][]int, error) {
	first := sources[0].Table
	aligned := make([][]int, len(sources))

	if opts.Positional {
		for s := range sources {
			idx := make([]int, first.Len())
			for r := range idx {
				idx[r] = r
			}
			aligned[s] = idx
		}
		return aligned, nil
	}

	for s, src := range sources {
		byLabel := make(map[string]int, src.Table.Len())
		for r := range src.Table.Rows {
			label := src.Table.Label(r)
			if _, dup := byLabel[label]; dup {
				return nil, apperr.NewShapeMismatch(src.Name, "duplicate label %q", label)
			}
			byLabel[label] = r
		}

		idx := make([]int, first.Len())
		for r := range first.Rows {
			label := first.Label(r)
			at, ok := byLabel[label]
			if !ok {
				return nil, apperr.NewShapeMismatch(src.Name, "no row labelled %q", label)
			}
			idx[r] = at
		}
		aligned[s] = idx
	}
	return aligned, nil
}

// Interleave groups rows by position: row r of every source in order, followed by two blank lines.
func Interleave(sources []Source) ([]string, error) {
	if len(sources) == 0 {
		return nil, apperr.NewShapeMismatch("", "no source tables")
	}
	rows := sources[0].Table.Len() + 1
	for _, src := range sources {
		if src.Table.Len()+1 != rows {
			return nil, apperr.NewShapeMismatch(src.Name, "has %d rows, %s has %d", src.Table.Len(), sources[0].Name, rows-1)
		}
	}

	var lines []string
	for r := 0; r < rows; r++ {
		for _, src := range sources {
			lines = append(lines, joinRow(src.Table, r))
		}
		lines = append(lines, "", "")
	}
	return lines, nil
}

// joinRow renders line r of t, where line 0 is the header.
func joinRow(t *report.RawTable, r int) string {
	fields := t.Header
	if r > 0 {
		fields = t.Rows[r-1]
	}
	return strings.Join(fields, report.Separator)
}
