package dataset

import "testing"

func TestParseRecord_NotAnObject(t *testing.T) {
	for _, raw := range []string{`[1,2]`, `"s"`, `null`, `42`, `{broken`, ``} {
		if _, ok := ParseRecord([]byte(raw)); ok {
			t.Fatalf("ParseRecord(%q): expected ok=false", raw)
		}
	}
}

func TestParseRecord_Fields(t *testing.T) {
	raw := []byte(`{
		"task_id": 602,
		"prompt": "Write a function",
		"code": "def f():\\n    pass",
		"tests": "assert True",
		"test_list": ["assert f()", "assert g()"],
		"test_imports": ["import math"],
		"test_setup_code": "x = 1"
	}`)

	rec, ok := ParseRecord(raw)
	if !ok {
		t.Fatalf("ParseRecord: ok=false")
	}
	if rec.TaskID != "602" {
		t.Fatalf("TaskID: got %q want %q", rec.TaskID, "602")
	}
	if rec.Prompt == nil || *rec.Prompt != "Write a function" {
		t.Fatalf("Prompt: got %v", rec.Prompt)
	}
	if rec.Code == nil || *rec.Code != `def f():\n    pass` {
		t.Fatalf("Code: got %v", rec.Code)
	}
	if rec.Tests == nil || *rec.Tests != "assert True" {
		t.Fatalf("Tests: got %v", rec.Tests)
	}
	if len(rec.TestList) != 2 || rec.TestList[0] != "assert f()" || rec.TestList[1] != "assert g()" {
		t.Fatalf("TestList: got %#v", rec.TestList)
	}
	if len(rec.TestImports) != 1 || rec.TestImports[0] != "import math" {
		t.Fatalf("TestImports: got %#v", rec.TestImports)
	}
	if rec.TestSetupCode == nil || *rec.TestSetupCode != "x = 1" {
		t.Fatalf("TestSetupCode: got %v", rec.TestSetupCode)
	}
}

func TestParseRecord_TaskIDString(t *testing.T) {
	rec, ok := ParseRecord([]byte(`{"task_id": "abc_123"}`))
	if !ok {
		t.Fatalf("ParseRecord: ok=false")
	}
	if rec.TaskID != "abc_123" {
		t.Fatalf("TaskID: got %q want %q", rec.TaskID, "abc_123")
	}
}

func TestParseRecord_NullFieldsAbsent(t *testing.T) {
	rec, ok := ParseRecord([]byte(`{"task_id": null, "prompt": null, "test_list": null}`))
	if !ok {
		t.Fatalf("ParseRecord: ok=false")
	}
	if rec.TaskID != "" {
		t.Fatalf("TaskID: got %q want empty", rec.TaskID)
	}
	if rec.Prompt != nil {
		t.Fatalf("Prompt: got %v want nil", rec.Prompt)
	}
	if rec.TestList != nil {
		t.Fatalf("TestList: got %#v want nil", rec.TestList)
	}
}

func TestParseRecord_EmptyTestListStaysPresent(t *testing.T) {
	rec, ok := ParseRecord([]byte(`{"test_list": []}`))
	if !ok {
		t.Fatalf("ParseRecord: ok=false")
	}
	if rec.TestList == nil {
		t.Fatalf("TestList: nil for empty array")
	}
	if len(rec.TestList) != 0 {
		t.Fatalf("TestList: got %#v want empty", rec.TestList)
	}
}

func TestParseRecord_NonArrayTestListIgnored(t *testing.T) {
	rec, ok := ParseRecord([]byte(`{"test_list": "assert True", "tests": "assert 1==1"}`))
	if !ok {
		t.Fatalf("ParseRecord: ok=false")
	}
	if rec.TestList != nil {
		t.Fatalf("TestList: got %#v want nil", rec.TestList)
	}
	if rec.Tests == nil || *rec.Tests != "assert 1==1" {
		t.Fatalf("Tests: got %v", rec.Tests)
	}
}

func TestParseRecord_MistypedFieldTreatedAsAbsent(t *testing.T) {
	rec, ok := ParseRecord([]byte(`{"prompt": {"nested": true}, "text": "fallback"}`))
	if !ok {
		t.Fatalf("ParseRecord: ok=false")
	}
	if rec.Prompt != nil {
		t.Fatalf("Prompt: got %v want nil", rec.Prompt)
	}
	if got := rec.PromptText(); got == nil || *got != "fallback" {
		t.Fatalf("PromptText: got %v", got)
	}
}

func TestParseRecord_NumericListElements(t *testing.T) {
	rec, ok := ParseRecord([]byte(`{"test_list": ["assert x", 7]}`))
	if !ok {
		t.Fatalf("ParseRecord: ok=false")
	}
	if len(rec.TestList) != 2 || rec.TestList[0] != "assert x" || rec.TestList[1] != "7" {
		t.Fatalf("TestList: got %#v", rec.TestList)
	}
}

func TestRecord_Name(t *testing.T) {
	rec := Record{TaskID: "task 1/2"}
	if got := rec.Name(5); got != "task_1_2" {
		t.Fatalf("Name: got %q want %q", got, "task_1_2")
	}

	rec = Record{}
	if got := rec.Name(5); got != "item_5" {
		t.Fatalf("Name: got %q want %q", got, "item_5")
	}
}

func TestRecord_PromptTextFallback(t *testing.T) {
	p, tx := "from prompt", "from text"

	r := Record{Prompt: &p, Text: &tx}
	if got := r.PromptText(); got == nil || *got != "from prompt" {
		t.Fatalf("PromptText: got %v", got)
	}

	r = Record{Text: &tx}
	if got := r.PromptText(); got == nil || *got != "from text" {
		t.Fatalf("PromptText: got %v", got)
	}

	r = Record{}
	if got := r.PromptText(); got != nil {
		t.Fatalf("PromptText: got %v want nil", got)
	}
}
