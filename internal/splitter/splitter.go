package splitter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/stellarlinkco/mbpp-tools/internal/dataset"
)

// Summary is the JSON object a split run prints to stdout.
type Summary struct {
	TotalEntries int        `json:"total_entries"`
	Written      Written    `json:"written"`
	OutputDirs   OutputDirs `json:"output_dirs"`
}

type Written struct {
	Prompt int `json:"prompt"`
	Code   int `json:"code"`
	Tests  int `json:"tests"`
}

type OutputDirs struct {
	Prompt string `json:"prompt"`
	Code   string `json:"code"`
	Tests  string `json:"tests"`
}

// Session records which artifacts a split run produced and which entries it
// dropped, for the session report writer.
type Session struct {
	Prompt  []string
	Code    []string
	Tests   []string
	Skipped []string
}

// Result bundles the printable summary with the per-item session record.
type Result struct {
	Summary Summary
	Session Session
}

// SplitArray runs the whole-document pipeline: the input must be a JSON
// array, and any failure to read or parse it is fatal. Entries that are not
// objects are skipped but still counted in the total.
func SplitArray(ctx context.Context, inputPath, rootDir string) (*Result, error) {
	dirs, err := makeCategoryDirs(rootDir)
	if err != nil {
		return nil, err
	}

	entries, err := dataset.ReadArray(inputPath)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	res.Summary.TotalEntries = len(entries)
	res.Summary.OutputDirs = dirs.outputDirs()

	for i, raw := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		idx := i + 1
		rec, ok := dataset.ParseRecord(raw)
		if !ok {
			log.Debug().Int("entry", idx).Msg("split: skipping non-object entry")
			res.Session.Skipped = append(res.Session.Skipped, fmt.Sprintf("entry_%d", idx))
			continue
		}

		name := rec.Name(idx)

		if rec.Prompt != nil {
			if err := writeArtifact(dirs.prompt, name+".txt", dataset.DecodeEscapes(*rec.Prompt)); err != nil {
				return nil, err
			}
			res.Summary.Written.Prompt++
			res.Session.Prompt = append(res.Session.Prompt, name)
		}

		if rec.Code != nil {
			if err := writeArtifact(dirs.code, name+".py", dataset.DecodeEscapes(*rec.Code)); err != nil {
				return nil, err
			}
			res.Summary.Written.Code++
			res.Session.Code = append(res.Session.Code, name)
		}

		// test_list wins over tests whenever it was an array, even an
		// empty one.
		switch {
		case rec.TestList != nil:
			content := testsContent(rec.TestImports, nil, assertionsFromList(rec.TestList))
			if err := writeArtifact(dirs.tests, name+".py", content); err != nil {
				return nil, err
			}
			res.Summary.Written.Tests++
			res.Session.Tests = append(res.Session.Tests, name)
		case rec.Tests != nil:
			content := testsContent(rec.TestImports, nil, dataset.DecodeEscapes(*rec.Tests))
			if err := writeArtifact(dirs.tests, name+".py", content); err != nil {
				return nil, err
			}
			res.Summary.Written.Tests++
			res.Session.Tests = append(res.Session.Tests, name)
		}
	}

	return res, nil
}

// SplitLines runs the line-delimited pipeline. Only a missing or unreadable
// input file is fatal; a line that does not parse as JSON is dropped and
// excluded from the total, while a parsed non-object line counts but
// produces nothing.
func SplitLines(ctx context.Context, inputPath, rootDir string) (*Result, error) {
	dirs, err := makeCategoryDirs(rootDir)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	res.Summary.OutputDirs = dirs.outputDirs()

	err = dataset.EachLine(ctx, inputPath, func(n int, line []byte) error {
		if !json.Valid(line) {
			log.Debug().Int("line", n).Msg("split: skipping unparseable line")
			res.Session.Skipped = append(res.Session.Skipped, fmt.Sprintf("line_%d", n))
			return nil
		}

		res.Summary.TotalEntries++

		rec, ok := dataset.ParseRecord(line)
		if !ok {
			log.Debug().Int("line", n).Msg("split: skipping non-object line")
			res.Session.Skipped = append(res.Session.Skipped, fmt.Sprintf("line_%d", n))
			return nil
		}

		name := rec.Name(n)

		if p := rec.PromptText(); p != nil {
			if err := writeArtifact(dirs.prompt, name+".txt", dataset.DecodeEscapes(*p)); err != nil {
				return err
			}
			res.Summary.Written.Prompt++
			res.Session.Prompt = append(res.Session.Prompt, name)
		}

		if rec.Code != nil {
			if err := writeArtifact(dirs.code, name+".py", dataset.DecodeEscapes(*rec.Code)); err != nil {
				return err
			}
			res.Summary.Written.Code++
			res.Session.Code = append(res.Session.Code, name)
		}

		// Unlike the array pipeline, an empty test_list falls through to
		// the tests string here.
		switch {
		case len(rec.TestList) > 0:
			content := testsContent(rec.TestImports, rec.TestSetupCode, assertionsFromList(rec.TestList))
			if err := writeArtifact(dirs.tests, name+".py", content); err != nil {
				return err
			}
			res.Summary.Written.Tests++
			res.Session.Tests = append(res.Session.Tests, name)
		case rec.Tests != nil:
			content := testsContent(rec.TestImports, rec.TestSetupCode, dataset.DecodeEscapes(*rec.Tests))
			if err := writeArtifact(dirs.tests, name+".py", content); err != nil {
				return err
			}
			res.Summary.Written.Tests++
			res.Session.Tests = append(res.Session.Tests, name)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}

type categoryDirs struct {
	prompt string
	code   string
	tests  string
}

func (d categoryDirs) outputDirs() OutputDirs {
	return OutputDirs{Prompt: d.prompt, Code: d.code, Tests: d.tests}
}

// makeCategoryDirs creates the three category directories up front, before
// the input file is checked. Re-running over existing directories is fine.
func makeCategoryDirs(root string) (categoryDirs, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return categoryDirs{}, errors.New("splitter: empty output root")
	}

	d := categoryDirs{
		prompt: filepath.Join(root, "prompt"),
		code:   filepath.Join(root, "code"),
		tests:  filepath.Join(root, "tests"),
	}
	for _, dir := range []string{d.prompt, d.code, d.tests} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return categoryDirs{}, fmt.Errorf("splitter: create %q: %w", dir, err)
		}
	}
	return d, nil
}

func writeArtifact(dir, name, content string) error {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("splitter: write %q: %w", path, err)
	}
	return nil
}

// assertionsFromList decodes and joins the assertion block. An empty list
// still yields a bare newline, matching the historical array-pipeline
// output.
func assertionsFromList(list []string) string {
	decoded := make([]string, 0, len(list))
	for _, a := range list {
		decoded = append(decoded, dataset.DecodeEscapes(a))
	}
	return strings.Join(decoded, "\n") + "\n"
}

// testsContent assembles a tests artifact: decoded imports, an optional
// newline-terminated setup block, then the assertions.
func testsContent(imports []string, setup *string, assertions string) string {
	var b strings.Builder

	if len(imports) > 0 {
		for i, imp := range imports {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(dataset.DecodeEscapes(imp))
		}
		b.WriteByte('\n')
	}

	if setup != nil && strings.TrimSpace(*setup) != "" {
		s := dataset.DecodeEscapes(*setup)
		b.WriteString(s)
		if !strings.HasSuffix(s, "\n") {
			b.WriteByte('\n')
		}
	}

	b.WriteString(assertions)
	return b.String()
}
