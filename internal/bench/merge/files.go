package merge

import (
	"github.com/DjordjeVuckovic/vm-bench/internal/bench/report"
)

// ReadSources parses every path into a Source named after its file.
func ReadSources(paths []string) ([]Source, error) {
	sources := make([]Source, 0, len(paths))
	for _, p := range paths {
		t, err := report.ReadFile(p)
		if err != nil {
			return nil, err
		}
		sources = append(sources, NewSource(p, t))
	}
	return sources, nil
}

func MergeFiles(columns []int, paths []string, opts Options) (*report.RawTable, error) {
	sources, err := ReadSources(paths)
	if err != nil {
		return nil, err
	}
	return Merge(columns, sources, opts)
}
