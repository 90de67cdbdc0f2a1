package analyze

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"github.com/stellarlinkco/mbpp-tools/internal/textstat"
)

const (
	MetricCodeLines   = "code_lines"
	MetricPromptChars = "prompt_chars"
	MetricPromptWords = "prompt_words"
	MetricPromptSents = "prompt_sentences"
)

// MetricNames lists the four corpus metrics in report order.
var MetricNames = []string{MetricCodeLines, MetricPromptChars, MetricPromptWords, MetricPromptSents}

// Metrics holds the raw per-file samples for one dataset, in sorted file
// order.
type Metrics struct {
	Label       string
	CodeLines   []int
	CodeWords   []int
	PromptChars []int
	PromptWords []int
	PromptSents []int
}

// DatasetStats carries the aggregated summaries the reporters and the API
// serve.
type DatasetStats struct {
	Label       string         `json:"label"`
	CodeLines   textstat.Stats `json:"code_lines"`
	PromptChars textstat.Stats `json:"prompt_chars"`
	PromptWords textstat.Stats `json:"prompt_words"`
	PromptSents textstat.Stats `json:"prompt_sentences"`
}

// Collect walks one split corpus root. Unreadable or non-UTF-8 files count
// as empty text; a missing category directory yields no samples at all.
func Collect(label, root string) *Metrics {
	m := &Metrics{Label: label}

	for _, p := range listFiles(filepath.Join(root, "code"), ".py") {
		text := readText(p)
		m.CodeLines = append(m.CodeLines, textstat.CountLines(text))
		m.CodeWords = append(m.CodeWords, textstat.CountCodeWords(text))
	}

	for _, p := range listFiles(filepath.Join(root, "prompt"), ".txt") {
		text := readText(p)
		m.PromptChars = append(m.PromptChars, textstat.CountChars(text))
		m.PromptWords = append(m.PromptWords, textstat.CountProseWords(text))
		m.PromptSents = append(m.PromptSents, textstat.CountSentences(text))
	}

	return m
}

// Describe aggregates the samples into summary records.
func (m *Metrics) Describe() DatasetStats {
	return DatasetStats{
		Label:       m.Label,
		CodeLines:   textstat.Describe(m.CodeLines),
		PromptChars: textstat.Describe(m.PromptChars),
		PromptWords: textstat.Describe(m.PromptWords),
		PromptSents: textstat.Describe(m.PromptSents),
	}
}

// ByMetric returns the sample vectors keyed by canonical metric name.
func (m *Metrics) ByMetric() map[string][]int {
	return map[string][]int{
		MetricCodeLines:   m.CodeLines,
		MetricPromptChars: m.PromptChars,
		MetricPromptWords: m.PromptWords,
		MetricPromptSents: m.PromptSents,
	}
}

// ByMetric returns the summaries keyed by canonical metric name.
func (s DatasetStats) ByMetric() map[string]textstat.Stats {
	return map[string]textstat.Stats{
		MetricCodeLines:   s.CodeLines,
		MetricPromptChars: s.PromptChars,
		MetricPromptWords: s.PromptWords,
		MetricPromptSents: s.PromptSents,
	}
}

func listFiles(dir, ext string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Debug().Err(err).Str("dir", dir).Msg("analyze: no readable files")
		return nil
	}

	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out
}

func readText(path string) string {
	b, err := os.ReadFile(path)
	if err != nil {
		log.Debug().Err(err).Str("file", path).Msg("analyze: treating unreadable file as empty")
		return ""
	}
	if !utf8.Valid(b) {
		log.Debug().Str("file", path).Msg("analyze: treating non-utf8 file as empty")
		return ""
	}
	return string(b)
}
