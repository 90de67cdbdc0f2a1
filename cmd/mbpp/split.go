package main

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/stellarlinkco/mbpp-tools/internal/reportfile"
	"github.com/stellarlinkco/mbpp-tools/internal/splitter"
	"github.com/stellarlinkco/mbpp-tools/internal/store"
)

type splitOptions struct {
	input      string
	outputDir  string
	reports    bool
	reportsDir string
	summaryOut string
	save       bool
}

func newSplitCmd(st *cliState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a dataset into prompt, code, and tests files",
	}

	cmd.AddCommand(newSplitSanitizedCmd(st))
	cmd.AddCommand(newSplitOriginalCmd(st))
	return cmd
}

func newSplitSanitizedCmd(st *cliState) *cobra.Command {
	var opts splitOptions

	cmd := &cobra.Command{
		Use:     "sanitized",
		Short:   "Split the sanitized JSON-array dataset",
		Args:    cobra.NoArgs,
		PreRunE: configPreRunE(st),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSplit(cmd, st, &opts, "sanitized")
		},
	}

	addSplitFlags(cmd, &opts)
	return cmd
}

func newSplitOriginalCmd(st *cliState) *cobra.Command {
	var opts splitOptions

	cmd := &cobra.Command{
		Use:     "original",
		Short:   "Split the original JSONL dataset",
		Args:    cobra.NoArgs,
		PreRunE: configPreRunE(st),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSplit(cmd, st, &opts, "original")
		},
	}

	addSplitFlags(cmd, &opts)
	return cmd
}

func addSplitFlags(cmd *cobra.Command, opts *splitOptions) {
	cmd.Flags().StringVar(&opts.input, "input", "", "input dataset path (overrides config)")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "output root dir (overrides config)")
	cmd.Flags().BoolVar(&opts.reports, "reports", true, "write session report files")
	cmd.Flags().StringVar(&opts.reportsDir, "reports-dir", "", "session report dir (overrides config)")
	cmd.Flags().StringVar(&opts.summaryOut, "summary-out", "", "also write the JSON summary to this file")
	cmd.Flags().BoolVar(&opts.save, "save", false, "record the run in the store")
}

func runSplit(cmd *cobra.Command, st *cliState, opts *splitOptions, label string) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("split: missing config (internal error)")
	}
	if opts == nil {
		return fmt.Errorf("split: nil options")
	}

	input := strings.TrimSpace(opts.input)
	outputDir := strings.TrimSpace(opts.outputDir)

	// The summary file's parent dir is created up front, before any
	// artifact writes.
	summaryOut := strings.TrimSpace(opts.summaryOut)
	if err := reportfile.EnsureParentDir(summaryOut); err != nil {
		return err
	}

	var result *splitter.Result
	var err error
	switch label {
	case "sanitized":
		if input == "" {
			input = st.cfg.Datasets.SanitizedPath
		}
		if outputDir == "" {
			outputDir = st.cfg.Output.SanitizedDir
		}
		result, err = splitter.SplitArray(cmd.Context(), input, outputDir)
	case "original":
		if input == "" {
			input = st.cfg.Datasets.OriginalPath
		}
		if outputDir == "" {
			outputDir = st.cfg.Output.OriginalDir
		}
		result, err = splitter.SplitLines(cmd.Context(), input, outputDir)
	default:
		return fmt.Errorf("split: unknown dataset %q", label)
	}
	if err != nil {
		return err
	}

	if opts.reports {
		dir := strings.TrimSpace(opts.reportsDir)
		if dir == "" {
			dir = st.cfg.Output.ReportsDir
		}
		outcomes := []reportfile.Outcome{
			{Name: "prompt", Items: result.Session.Prompt},
			{Name: "code", Items: result.Session.Code},
			{Name: "tests", Items: result.Session.Tests},
			{Name: "skipped", Items: result.Session.Skipped},
		}
		if err := reportfile.Write(dir, 0, outcomes); err != nil {
			return err
		}
	}

	if opts.save {
		if err := saveSplitRun(cmd, st, label, input, result); err != nil {
			return err
		}
	}

	b, err := json.MarshalIndent(result.Summary, "", "  ")
	if err != nil {
		return fmt.Errorf("split: marshal summary: %w", err)
	}
	b = append(b, '\n')
	if _, err := cmd.OutOrStdout().Write(b); err != nil {
		return err
	}
	if summaryOut != "" {
		if err := os.WriteFile(summaryOut, b, 0o644); err != nil {
			return fmt.Errorf("split: write summary %q: %w", summaryOut, err)
		}
	}
	return nil
}

func saveSplitRun(cmd *cobra.Command, st *cliState, label, input string, result *splitter.Result) error {
	stor, err := store.Open(st.cfg)
	if err != nil {
		return fmt.Errorf("split: open store: %w", err)
	}
	defer stor.Close()

	var writer store.RunWriter = stor

	runID, err := newRunID()
	if err != nil {
		return fmt.Errorf("split: generate run id: %w", err)
	}

	record := &store.SplitRunRecord{
		ID:            runID,
		Dataset:       label,
		InputPath:     input,
		TotalEntries:  result.Summary.TotalEntries,
		PromptWritten: result.Summary.Written.Prompt,
		CodeWritten:   result.Summary.Written.Code,
		TestsWritten:  result.Summary.Written.Tests,
		Skipped:       len(result.Session.Skipped),
		CreatedAt:     time.Now().UTC(),
	}
	if err := writer.SaveSplitRun(cmd.Context(), record); err != nil {
		return err
	}

	log.Info().Str("run", runID).Str("dataset", label).Msg("split: run saved")
	return nil
}

func newRunID() (string, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	return fmt.Sprintf("run_%s_%x", time.Now().UTC().Format("20060102T150405Z"), buf), nil
}
