package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

func WriteSummary(w io.Writer, title string, t *Table) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "\n--- %s (%d trials) ---\n\n", title, t.Trials())

	header := []string{"Benchmark", "Time (ms)", "±", "GC (ms)", "±"}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	fmt.Fprintln(tw, strings.Join(sep, "\t"))

	for _, r := range t.rows {
		row := []string{
			r.Name,
			fmt.Sprintf("%.3f", r.Result.WallMean),
			fmt.Sprintf("%.3f", r.Result.WallCI),
			fmt.Sprintf("%.3f", r.Result.MetricMean),
			fmt.Sprintf("%.3f", r.Result.MetricCI),
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	fmt.Fprintln(tw)
	tw.Flush()
}
