package main

import (
	"github.com/DjordjeVuckovic/vm-bench/internal/bench/plot"
	"github.com/spf13/cobra"
)

func newPlotCmd() *cobra.Command {
	var (
		req   plot.Request
		tools = plot.DefaultTools()
	)

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Render a report CSV with a gnuplot template",
		RunE: func(cmd *cobra.Command, args []string) error {
			return plot.Render(cmd.Context(), req, tools)
		},
	}

	cmd.Flags().StringVarP(&req.TemplatePath, "template", "t", "", "Gnuplot template with bench_name, csv_file and out_file placeholders")
	cmd.Flags().StringVar(&req.Name, "name", "", "Value for bench_name")
	cmd.Flags().StringVar(&req.CSV, "csv", "", "Value for csv_file")
	cmd.Flags().StringVar(&req.Out, "out", "", "Value for out_file")
	cmd.Flags().BoolVar(&req.PNG, "png", false, "Also convert the output to PNG")
	cmd.Flags().StringVar(&tools.Gnuplot, "gnuplot", plot.DefaultGnuplot, "gnuplot executable")
	cmd.Flags().StringVar(&tools.Convert, "convert", plot.DefaultConvert, "ImageMagick convert executable")
	for _, name := range []string{"template", "name", "csv", "out"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
