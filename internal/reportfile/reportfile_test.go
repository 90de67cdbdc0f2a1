package reportfile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWrite_SummaryFiles(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "reports")
	outcomes := []Outcome{
		{Name: "prompt", Items: []string{"1", "2"}},
		{Name: "code", Items: []string{"1", "2"}},
		{Name: "tests", Items: []string{"1"}},
		{Name: "skipped", Items: nil},
	}
	if err := Write(dir, 0, outcomes); err != nil {
		t.Fatalf("Write: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "summary.json"))
	if err != nil {
		t.Fatalf("read summary.json: %v", err)
	}
	var got struct {
		ExitStatus int `json:"exitstatus"`
		Total      int `json:"total"`
		Stats      map[string]struct {
			Count int      `json:"count"`
			Items []string `json:"items"`
		} `json:"stats"`
	}
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("parse summary.json: %v", err)
	}
	if got.ExitStatus != 0 {
		t.Fatalf("exitstatus: got %d", got.ExitStatus)
	}
	if got.Total != 5 {
		t.Fatalf("total: got %d want 5", got.Total)
	}
	if got.Stats["prompt"].Count != 2 || got.Stats["tests"].Count != 1 {
		t.Fatalf("stats counts: got %+v", got.Stats)
	}
	if got.Stats["skipped"].Count != 0 || got.Stats["skipped"].Items == nil {
		t.Fatalf("skipped stats: got %+v", got.Stats["skipped"])
	}
	if !strings.Contains(string(raw), `"items": []`) {
		t.Fatalf("empty outcome should render as [], got:\n%s", raw)
	}

	txt, err := os.ReadFile(filepath.Join(dir, "summary.txt"))
	if err != nil {
		t.Fatalf("read summary.txt: %v", err)
	}
	want := "Exit status: 0\nTotal: 5\nprompt: 2\ncode: 2\ntests: 1\nskipped: 0\n"
	if string(txt) != want {
		t.Fatalf("summary.txt:\ngot  %q\nwant %q", txt, want)
	}
}

func TestWrite_NonzeroExitStatus(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := Write(dir, 2, []Outcome{{Name: "skipped", Items: []string{"line_4"}}}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	txt, err := os.ReadFile(filepath.Join(dir, "summary.txt"))
	if err != nil {
		t.Fatalf("read summary.txt: %v", err)
	}
	if !strings.HasPrefix(string(txt), "Exit status: 2\nTotal: 1\n") {
		t.Fatalf("summary.txt: got %q", txt)
	}
}

func TestWrite_EmptyDir(t *testing.T) {
	t.Parallel()

	if err := Write("   ", 0, nil); err == nil {
		t.Fatalf("Write(empty dir): expected error")
	}
}

func TestWrite_Rerun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := Write(dir, 0, []Outcome{{Name: "prompt", Items: []string{"a"}}}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := Write(dir, 0, []Outcome{{Name: "prompt", Items: []string{"a", "b"}}}); err != nil {
		t.Fatalf("Write(rerun): %v", err)
	}

	txt, err := os.ReadFile(filepath.Join(dir, "summary.txt"))
	if err != nil {
		t.Fatalf("read summary.txt: %v", err)
	}
	if !strings.Contains(string(txt), "prompt: 2\n") {
		t.Fatalf("rerun should overwrite, got %q", txt)
	}
}

func TestEnsureParentDir(t *testing.T) {
	t.Parallel()

	if err := EnsureParentDir(""); err != nil {
		t.Fatalf("EnsureParentDir(empty): %v", err)
	}
	if err := EnsureParentDir("bare.xml"); err != nil {
		t.Fatalf("EnsureParentDir(bare name): %v", err)
	}

	target := filepath.Join(t.TempDir(), "deep", "nested", "junit.xml")
	if err := EnsureParentDir(target); err != nil {
		t.Fatalf("EnsureParentDir: %v", err)
	}
	info, err := os.Stat(filepath.Dir(target))
	if err != nil || !info.IsDir() {
		t.Fatalf("parent dir missing: %v", err)
	}
}
