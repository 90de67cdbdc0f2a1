package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/stellarlinkco/mbpp-tools/internal/analyze"
	"github.com/stellarlinkco/mbpp-tools/internal/chart"
	"github.com/stellarlinkco/mbpp-tools/internal/report"
	"github.com/stellarlinkco/mbpp-tools/internal/store"
)

type analyzeOptions struct {
	verbose  bool
	plots    bool
	plotsDir string
	save     bool
}

func newAnalyzeCmd(st *cliState) *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:     "analyze",
		Short:   "Report text statistics for the split datasets",
		Args:    cobra.NoArgs,
		PreRunE: configPreRunE(st),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, st, &opts)
		},
	}

	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "include code word counts in the report")
	cmd.Flags().BoolVar(&opts.plots, "plots", false, "render summary and histogram charts")
	cmd.Flags().StringVar(&opts.plotsDir, "plots-dir", "", "chart output dir (overrides config)")
	cmd.Flags().BoolVar(&opts.save, "save", false, "record snapshots in the store")
	return cmd
}

func runAnalyze(cmd *cobra.Command, st *cliState, opts *analyzeOptions) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("analyze: missing config (internal error)")
	}
	if opts == nil {
		return fmt.Errorf("analyze: nil options")
	}

	var renderer chart.Renderer
	if opts.plots {
		dir := strings.TrimSpace(opts.plotsDir)
		if dir == "" {
			dir = st.cfg.Output.PlotsDir
		}
		png, err := chart.NewPNG(dir)
		if err != nil {
			return err
		}
		renderer = png
	}

	out := cmd.OutOrStdout()

	// Report order is fixed: original first, then sanitized.
	specs := []struct {
		label string
		root  string
	}{
		{"original", st.cfg.Output.OriginalDir},
		{"sanitized", st.cfg.Output.SanitizedDir},
	}

	collected := make(map[string]*analyze.Metrics, len(specs))
	for _, spec := range specs {
		if _, err := os.Stat(spec.root); err != nil {
			report.WriteMissing(out, spec.label)
			continue
		}
		m := analyze.Collect(spec.label, spec.root)
		collected[spec.label] = m
		report.WriteDataset(out, m, opts.verbose)

		if renderer != nil {
			if err := renderCharts(renderer, m); err != nil {
				return err
			}
		}
	}

	if left, right := collected["original"], collected["sanitized"]; left != nil && right != nil {
		report.WriteComparisons(out, left.Describe(), right.Describe())
	}

	if opts.save {
		return saveSnapshots(cmd, st, collected)
	}
	return nil
}

func renderCharts(r chart.Renderer, m *analyze.Metrics) error {
	samples := m.ByMetric()
	stats := m.Describe().ByMetric()
	for _, metric := range analyze.MetricNames {
		if err := r.RenderStats(m.Label, metric, stats[metric]); err != nil {
			return err
		}
		if err := r.RenderHistogram(m.Label, metric, samples[metric]); err != nil {
			return err
		}
	}
	return nil
}

func saveSnapshots(cmd *cobra.Command, st *cliState, collected map[string]*analyze.Metrics) error {
	if len(collected) == 0 {
		return nil
	}

	stor, err := store.Open(st.cfg)
	if err != nil {
		return fmt.Errorf("analyze: open store: %w", err)
	}
	defer stor.Close()

	var writer store.RunWriter = stor

	runID, err := newRunID()
	if err != nil {
		return fmt.Errorf("analyze: generate run id: %w", err)
	}

	now := time.Now().UTC()
	var snaps []*store.SnapshotRecord
	for _, label := range []string{"original", "sanitized"} {
		m := collected[label]
		if m == nil {
			continue
		}
		byMetric := m.Describe().ByMetric()
		for _, metric := range analyze.MetricNames {
			stats := byMetric[metric]
			snaps = append(snaps, &store.SnapshotRecord{
				ID:          fmt.Sprintf("%s_snap_%d", runID, len(snaps)+1),
				RunID:       runID,
				Dataset:     label,
				Metric:      metric,
				SampleCount: stats.Count,
				Min:         stats.Min,
				Max:         stats.Max,
				Median:      stats.Median,
				Avg:         stats.Avg,
				CreatedAt:   now,
			})
		}
	}

	if err := writer.SaveSnapshots(cmd.Context(), snaps); err != nil {
		return err
	}

	log.Info().Str("run", runID).Int("snapshots", len(snaps)).Msg("analyze: snapshots saved")
	return nil
}
