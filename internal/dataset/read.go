package dataset

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ReadArray reads a whole-document JSON array of dataset entries. A missing
// file, malformed JSON, or a top-level value that is not an array are all
// errors; the callers treat them as fatal.
func ReadArray(path string) ([]json.RawMessage, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("dataset: empty input path")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: read %q: %w", path, err)
	}

	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("dataset: %q: expected a JSON array at top level", path)
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, fmt.Errorf("dataset: parse %q: %w", path, err)
	}
	return entries, nil
}

// EachLine streams the non-blank lines of a JSONL file to fn together with
// their 1-based physical line numbers. An error returned by fn stops the
// scan and is returned as-is.
func EachLine(ctx context.Context, path string, fn func(n int, line []byte) error) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("dataset: empty input path")
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("dataset: open %q: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 2*1024*1024)

	n := 0
	for sc.Scan() {
		n++
		if err := ctx.Err(); err != nil {
			return err
		}
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		if err := fn(n, line); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("dataset: scan %q: %w", path, err)
	}
	return nil
}
