package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newDatasetsCmd(st *cliState) *cobra.Command {
	return &cobra.Command{
		Use:     "datasets",
		Short:   "List configured datasets",
		Args:    cobra.NoArgs,
		PreRunE: configPreRunE(st),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDatasets(cmd, st)
		},
	}
}

func runDatasets(cmd *cobra.Command, st *cliState) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("datasets: missing config (internal error)")
	}

	rows := []struct {
		label  string
		input  string
		output string
	}{
		{"sanitized", st.cfg.Datasets.SanitizedPath, st.cfg.Output.SanitizedDir},
		{"original", st.cfg.Datasets.OriginalPath, st.cfg.Output.OriginalDir},
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LABEL\tINPUT\tOUTPUT_DIR\tPROMPT\tCODE\tTESTS")
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\n",
			row.label,
			row.input,
			row.output,
			countFiles(filepath.Join(row.output, "prompt")),
			countFiles(filepath.Join(row.output, "code")),
			countFiles(filepath.Join(row.output, "tests")),
		)
	}
	return tw.Flush()
}

// countFiles reports how many regular files a directory holds. A missing
// directory counts as zero.
func countFiles(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	count := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			count++
		}
	}
	return count
}
