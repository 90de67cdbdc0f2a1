package chart

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stellarlinkco/mbpp-tools/internal/analyze"
	"github.com/stellarlinkco/mbpp-tools/internal/textstat"
)

func TestNewPNG_EmptyDir(t *testing.T) {
	if _, err := NewPNG(" \t "); err == nil {
		t.Fatalf("expected error")
	}
}

func TestNewPNG_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plots")
	if _, err := NewPNG(dir); err != nil {
		t.Fatalf("NewPNG: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("plots dir missing: %v", err)
	}
}

func TestRenderStats_WritesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plots")
	r, err := NewPNG(dir)
	if err != nil {
		t.Fatalf("NewPNG: %v", err)
	}

	stats := textstat.Describe([]int{1, 2, 3, 4, 10})
	if err := r.RenderStats("sanitized", analyze.MetricCodeLines, stats); err != nil {
		t.Fatalf("RenderStats: %v", err)
	}

	path := filepath.Join(dir, "sanitized_code_lines_stats.png")
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat chart: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("chart file is empty")
	}
}

func TestRenderHistogram_WritesFileWithP75(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plots")
	r, err := NewPNG(dir)
	if err != nil {
		t.Fatalf("NewPNG: %v", err)
	}

	values := []int{1, 2, 2, 3, 3, 3, 4, 8, 15, 20}
	if err := r.RenderHistogram("original", analyze.MetricPromptWords, values); err != nil {
		t.Fatalf("RenderHistogram: %v", err)
	}

	path := filepath.Join(dir, "original_prompt_words_hist.png")
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat chart: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("chart file is empty")
	}
}

func TestRenderHistogram_UnmarkedMetric(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plots")
	r, err := NewPNG(dir)
	if err != nil {
		t.Fatalf("NewPNG: %v", err)
	}

	if err := r.RenderHistogram("original", analyze.MetricPromptChars, []int{5, 6, 7}); err != nil {
		t.Fatalf("RenderHistogram: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "original_prompt_chars_hist.png")); err != nil {
		t.Fatalf("stat chart: %v", err)
	}
}

func TestRenderHistogram_NoSamplesNoFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plots")
	r, err := NewPNG(dir)
	if err != nil {
		t.Fatalf("NewPNG: %v", err)
	}

	if err := r.RenderHistogram("original", analyze.MetricCodeLines, nil); err != nil {
		t.Fatalf("RenderHistogram: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("unexpected files: %v", entries)
	}
}
