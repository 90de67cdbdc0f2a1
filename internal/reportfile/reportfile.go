package reportfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Outcome is one category of artifacts produced or skipped during a run.
type Outcome struct {
	Name  string
	Items []string
}

type outcomeStats struct {
	Count int      `json:"count"`
	Items []string `json:"items"`
}

type summary struct {
	ExitStatus int                     `json:"exitstatus"`
	Total      int                     `json:"total"`
	Stats      map[string]outcomeStats `json:"stats"`
}

// Write renders summary.json and summary.txt under dir. The text report
// lists outcomes in the order given.
func Write(dir string, exitStatus int, outcomes []Outcome) error {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return errors.New("reportfile: empty reports dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("reportfile: create %q: %w", dir, err)
	}

	stats := make(map[string]outcomeStats, len(outcomes))
	total := 0
	for _, oc := range outcomes {
		items := oc.Items
		if items == nil {
			items = []string{}
		}
		stats[oc.Name] = outcomeStats{Count: len(items), Items: items}
		total += len(items)
	}

	data, err := json.MarshalIndent(summary{ExitStatus: exitStatus, Total: total, Stats: stats}, "", "  ")
	if err != nil {
		return fmt.Errorf("reportfile: marshal summary: %w", err)
	}
	jsonPath := filepath.Join(dir, "summary.json")
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return fmt.Errorf("reportfile: write %q: %w", jsonPath, err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Exit status: %d\n", exitStatus)
	fmt.Fprintf(&sb, "Total: %d\n", total)
	for _, oc := range outcomes {
		fmt.Fprintf(&sb, "%s: %d\n", oc.Name, len(oc.Items))
	}
	txtPath := filepath.Join(dir, "summary.txt")
	if err := os.WriteFile(txtPath, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("reportfile: write %q: %w", txtPath, err)
	}
	return nil
}

// EnsureParentDir creates the parent directory of path. An empty path or a
// bare file name is a no-op.
func EnsureParentDir(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("reportfile: create %q: %w", dir, err)
	}
	return nil
}
