package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Record is one benchmark problem as it appears in either dataset variant.
// Pointer fields are nil when the key is absent; TestList and TestImports
// are non-nil exactly when the source value was a JSON array.
type Record struct {
	TaskID        string
	Prompt        *string
	Text          *string
	Code          *string
	Tests         *string
	TestSetupCode *string
	TestList      []string
	TestImports   []string
}

// ParseRecord parses one dataset entry. ok is false when the entry is not a
// JSON object; mistyped fields inside an object are treated as absent rather
// than failing the whole record.
func ParseRecord(raw []byte) (Record, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return Record{}, false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Record{}, false
	}

	var rec Record
	if v, ok := fields["task_id"]; ok {
		if s, ok := stringValue(v); ok {
			rec.TaskID = s
		}
	}
	rec.Prompt = optionalString(fields, "prompt")
	rec.Text = optionalString(fields, "text")
	rec.Code = optionalString(fields, "code")
	rec.Tests = optionalString(fields, "tests")
	rec.TestSetupCode = optionalString(fields, "test_setup_code")
	if v, ok := fields["test_list"]; ok {
		rec.TestList, _ = stringListValue(v)
	}
	if v, ok := fields["test_imports"]; ok {
		rec.TestImports, _ = stringListValue(v)
	}
	return rec, true
}

// PromptText returns the prompt, falling back to the legacy text field used
// by the original dataset dump.
func (r Record) PromptText() *string {
	if r.Prompt != nil {
		return r.Prompt
	}
	return r.Text
}

// Name derives the artifact base name from the task id, or from the record's
// 1-based position when the id is absent.
func (r Record) Name(index int) string {
	if r.TaskID != "" {
		return SanitizeFilename(r.TaskID)
	}
	return SanitizeFilename(fmt.Sprintf("item_%d", index))
}

func optionalString(fields map[string]json.RawMessage, key string) *string {
	v, ok := fields[key]
	if !ok {
		return nil
	}
	s, ok := stringValue(v)
	if !ok {
		return nil
	}
	return &s
}

// stringValue accepts JSON strings and numbers; task ids in the original
// dump are bare integers. JSON null is absent, not the empty string.
func stringValue(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), true
	}
	return "", false
}

func stringListValue(raw json.RawMessage) ([]string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, false
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, false
	}

	out := make([]string, 0, len(elems))
	for _, e := range elems {
		if s, ok := stringValue(e); ok {
			out = append(out, s)
			continue
		}
		out = append(out, string(bytes.TrimSpace(e)))
	}
	return out, true
}
