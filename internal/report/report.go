package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/stellarlinkco/mbpp-tools/internal/analyze"
	"github.com/stellarlinkco/mbpp-tools/internal/textstat"
)

// WriteDataset renders the raw describe lines and the per-dataset Markdown
// summary table. Verbose mode adds the code token stats to the raw block;
// the table always stays at the four corpus metrics.
func WriteDataset(w io.Writer, m *analyze.Metrics, verbose bool) {
	stats := m.Describe()

	fmt.Fprintf(w, "Dataset: %s\n", stats.Label)
	fmt.Fprintf(w, "- Code lines: %s\n", statsInline(stats.CodeLines))
	if verbose {
		fmt.Fprintf(w, "- Code words: %s\n", statsInline(textstat.Describe(m.CodeWords)))
	}
	fmt.Fprintf(w, "- Prompt characters: %s\n", statsInline(stats.PromptChars))
	fmt.Fprintf(w, "- Prompt words: %s\n", statsInline(stats.PromptWords))
	fmt.Fprintf(w, "- Prompt sentences: %s\n", statsInline(stats.PromptSents))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "## %s Summary (Markdown Table)\n", stats.Label)
	fmt.Fprintln(w, "| Metric | Count | Min | Median | Average | Max |")
	fmt.Fprintln(w, "|---|---:|---:|---:|---:|---:|")
	writeSummaryRow(w, "Code lines", stats.CodeLines)
	writeSummaryRow(w, "Prompt characters", stats.PromptChars)
	writeSummaryRow(w, "Prompt words", stats.PromptWords)
	writeSummaryRow(w, "Prompt sentences", stats.PromptSents)
	fmt.Fprintln(w)
}

// WriteMissing notes a dataset whose corpus root does not exist.
func WriteMissing(w io.Writer, label string) {
	fmt.Fprintf(w, "Dataset: %s (missing)\n\n", label)
}

// WriteComparisons renders the four side-by-side tables for two datasets.
func WriteComparisons(w io.Writer, left, right analyze.DatasetStats) {
	writeComparison(w, "Code lines", left.Label, left.CodeLines, right.Label, right.CodeLines)
	writeComparison(w, "Prompt characters", left.Label, left.PromptChars, right.Label, right.PromptChars)
	writeComparison(w, "Prompt words", left.Label, left.PromptWords, right.Label, right.PromptWords)
	writeComparison(w, "Prompt sentences", left.Label, left.PromptSents, right.Label, right.PromptSents)
}

func writeComparison(w io.Writer, metric, leftLabel string, left textstat.Stats, rightLabel string, right textstat.Stats) {
	fmt.Fprintf(w, "## %s (Comparison)\n", metric)
	fmt.Fprintf(w, "| Metric | %s | %s |\n", leftLabel, rightLabel)
	fmt.Fprintln(w, "|---|---|---|")
	fmt.Fprintf(w, "| Count | %d | %d |\n", left.Count, right.Count)
	fmt.Fprintf(w, "| Min | %d | %d |\n", left.Min, right.Min)
	fmt.Fprintf(w, "| Median | %s | %s |\n", formatFloat(left.Median), formatFloat(right.Median))
	fmt.Fprintf(w, "| Average | %s | %s |\n", formatFloat(left.Avg), formatFloat(right.Avg))
	fmt.Fprintf(w, "| Max | %d | %d |\n", left.Max, right.Max)
	fmt.Fprintln(w)
}

func writeSummaryRow(w io.Writer, metric string, s textstat.Stats) {
	fmt.Fprintf(w, "| %s | %d | %d | %s | %s | %d |\n",
		metric, s.Count, s.Min, formatFloat(s.Median), formatFloat(s.Avg), s.Max)
}

func statsInline(s textstat.Stats) string {
	return fmt.Sprintf("{avg: %s, median: %s, min: %d, max: %d, count: %d}",
		formatFloat(s.Avg), formatFloat(s.Median), s.Min, s.Max, s.Count)
}

// formatFloat trims trailing zeros so integral medians print as integers.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
