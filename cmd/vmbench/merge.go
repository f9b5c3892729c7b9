package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/DjordjeVuckovic/vm-bench/internal/bench/merge"
	"github.com/spf13/cobra"
)

func newMergeCmd() *cobra.Command {
	var (
		columns    string
		positional bool
		output     string
	)

	cmd := &cobra.Command{
		Use:   "merge [files...]",
		Short: "Merge selected columns of report CSVs side by side",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cols, err := merge.ParseColumns(columns)
			if err != nil {
				return err
			}
			merged, err := merge.MergeFiles(cols, args, merge.Options{Positional: positional})
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), output, merged.String())
		},
	}

	cmd.Flags().StringVarP(&columns, "columns", "c", "", "Comma-separated zero-based column indices")
	cmd.Flags().BoolVar(&positional, "positional", false, "Align rows by position instead of benchmark name")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	_ = cmd.MarkFlagRequired("columns")
	return cmd
}

func newInterleaveCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "interleave [files...]",
		Short: "Group rows at the same position of several CSVs together",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := merge.ReadSources(args)
			if err != nil {
				return err
			}
			lines, err := merge.Interleave(sources)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), output, strings.Join(lines, "\n")+"\n")
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}

func writeOutput(stdout io.Writer, path, content string) error {
	if path == "" {
		_, err := io.WriteString(stdout, content)
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
