package main

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/stellarlinkco/mbpp-tools/internal/store"
)

type historyOptions struct {
	dataset string
	limit   int
	since   string
}

func newHistoryCmd(st *cliState) *cobra.Command {
	var opts historyOptions

	cmd := &cobra.Command{
		Use:     "history",
		Short:   "Show recorded split runs",
		Args:    cobra.NoArgs,
		PreRunE: configPreRunE(st),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryList(cmd, st, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.dataset, "dataset", "", "dataset label to filter")
	cmd.Flags().IntVar(&opts.limit, "limit", 20, "max runs to list")
	cmd.Flags().StringVar(&opts.since, "since", "", "only runs since date (YYYY-MM-DD or RFC3339)")

	cmd.AddCommand(newHistoryShowCmd(st))
	cmd.AddCommand(newHistorySnapshotsCmd(st))
	return cmd
}

func newHistoryShowCmd(st *cliState) *cobra.Command {
	return &cobra.Command{
		Use:     "show <run-id>",
		Short:   "Show details for a split run",
		Args:    cobra.ExactArgs(1),
		PreRunE: configPreRunE(st),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryShow(cmd, st, args[0])
		},
	}
}

func newHistorySnapshotsCmd(st *cliState) *cobra.Command {
	var metric string
	var runID string
	var limit int

	cmd := &cobra.Command{
		Use:     "snapshots <label>",
		Short:   "Show analysis snapshots for a dataset",
		Args:    cobra.ExactArgs(1),
		PreRunE: configPreRunE(st),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistorySnapshots(cmd, st, args[0], metric, runID, limit)
		},
	}

	cmd.Flags().StringVar(&metric, "metric", "", "metric name to filter")
	cmd.Flags().StringVar(&runID, "run", "", "analysis run id to filter")
	cmd.Flags().IntVar(&limit, "limit", 20, "max snapshots to list")
	return cmd
}

func runHistoryList(cmd *cobra.Command, st *cliState, opts *historyOptions) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("history: missing config (internal error)")
	}
	if opts == nil {
		return fmt.Errorf("history: nil options")
	}

	since, err := parseSince(opts.since)
	if err != nil {
		return err
	}

	stor, err := store.Open(st.cfg)
	if err != nil {
		return err
	}
	defer stor.Close()

	var reader store.RunReader = stor

	filter := store.RunFilter{
		Dataset: strings.TrimSpace(opts.dataset),
		Since:   since,
		Limit:   opts.limit,
	}
	runs, err := reader.ListSplitRuns(cmd.Context(), filter)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		_, _ = fmt.Fprintln(out, "No runs found.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN_ID\tDATASET\tCREATED\tTOTAL\tPROMPT\tCODE\tTESTS\tSKIPPED")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
			r.ID,
			r.Dataset,
			formatTime(r.CreatedAt),
			r.TotalEntries,
			r.PromptWritten,
			r.CodeWritten,
			r.TestsWritten,
			r.Skipped,
		)
	}
	return tw.Flush()
}

func runHistoryShow(cmd *cobra.Command, st *cliState, runID string) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("history: missing config (internal error)")
	}

	runID = strings.TrimSpace(runID)
	if runID == "" {
		return fmt.Errorf("history: missing run id")
	}

	stor, err := store.Open(st.cfg)
	if err != nil {
		return err
	}
	defer stor.Close()

	var reader store.RunReader = stor

	run, err := reader.GetSplitRun(cmd.Context(), runID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("history: run %q not found", runID)
		}
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Run: %s\n", run.ID)
	_, _ = fmt.Fprintf(out, "Dataset: %s\n", run.Dataset)
	_, _ = fmt.Fprintf(out, "Input: %s\n", run.InputPath)
	_, _ = fmt.Fprintf(out, "Created: %s\n", formatTime(run.CreatedAt))
	_, _ = fmt.Fprintf(out, "Entries: %d prompt=%d code=%d tests=%d skipped=%d\n",
		run.TotalEntries, run.PromptWritten, run.CodeWritten, run.TestsWritten, run.Skipped)
	return nil
}

func runHistorySnapshots(cmd *cobra.Command, st *cliState, label, metric, runID string, limit int) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("history: missing config (internal error)")
	}

	label = strings.TrimSpace(label)
	if label == "" {
		return fmt.Errorf("history: missing dataset label")
	}

	stor, err := store.Open(st.cfg)
	if err != nil {
		return err
	}
	defer stor.Close()

	var reader store.RunReader = stor

	filter := store.SnapshotFilter{
		RunID:   strings.TrimSpace(runID),
		Dataset: label,
		Metric:  strings.TrimSpace(metric),
		Limit:   limit,
	}
	snaps, err := reader.ListSnapshots(cmd.Context(), filter)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(snaps) == 0 {
		_, _ = fmt.Fprintln(out, "No snapshots found.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "METRIC\tCOUNT\tMIN\tMAX\tMEDIAN\tAVG\tCREATED\tRUN_ID")
	for _, s := range snaps {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%.2f\t%.2f\t%s\t%s\n",
			s.Metric,
			s.SampleCount,
			s.Min,
			s.Max,
			s.Median,
			s.Avg,
			formatTime(s.CreatedAt),
			s.RunID,
		)
	}
	return tw.Flush()
}

func parseSince(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	layouts := []string{time.RFC3339, "2006-01-02"}
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("history: invalid --since %q (expected YYYY-MM-DD or RFC3339)", s)
}

func formatTime(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.UTC().Format(time.RFC3339)
}
