package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"newsquiz/internal/domain"
)

func TestValidateCommandReportsProblems(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "questions.json")
	writeFile(t, path, `[
  {"id": "a", "question_text": "Who won?", "choices": ["x", "y"], "correct_index": 0, "creator": "desk"},
  {"id": "b", "question_text": "", "choices": ["x"], "correct_index": null, "creator": ""}
]`)

	out, err := run(t, "validate", path)
	if err == nil {
		t.Fatalf("expected validation error, output:\n%s", out)
	}
	if !strings.Contains(out, "question 2 (b)") || strings.Contains(out, "question 1 (a)") {
		t.Fatalf("unexpected report:\n%s", out)
	}
	if !strings.Contains(out, domain.IssueEmptyCreator) {
		t.Fatalf("expected creator issue:\n%s", out)
	}
}

func TestImportThenExportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	writeFile(t, cfgPath, "store:\n  driver: file\nfile:\n  path: "+filepath.Join(dir, "quiz.json")+"\n")

	records := filepath.Join(dir, "records.json")
	writeFile(t, records, `{"body": [
  {"gameType": "BlackSwan", "quizDate": "2025-01-02", "data": {"questions": [{"id": "q1", "question": "A?", "answer": "a"}]}},
  {"gameType": "Chess", "quizDate": "2025-01-02", "data": {"questions": []}}
]}`)

	out, err := run(t, "--config", cfgPath, "import", records)
	if err != nil {
		t.Fatalf("import: %v\n%s", err, out)
	}
	if !strings.Contains(out, "wrote BlackSwan/2025-01-02: 1 questions") || !strings.Contains(out, "skip Chess") {
		t.Fatalf("unexpected import output:\n%s", out)
	}

	merge := filepath.Join(dir, "merge.json")
	writeFile(t, merge, `[{"gameType": "BlackSwan", "quizDate": "2025-01-02", "data": {"questions": [{"id": "q2", "question": "B?", "answer": "b"}]}}]`)
	if out, err := run(t, "--config", cfgPath, "import", "--merge", merge); err != nil {
		t.Fatalf("merge import: %v\n%s", err, out)
	}

	out, err = run(t, "--config", cfgPath, "export")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	var got []domain.QuizRecord
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode export: %v\n%s", err, out)
	}
	if len(got) != 1 || len(got[0].Data.Questions) != 2 || got[0].Data.Questions[1].ID != "q2" {
		t.Fatalf("unexpected export %+v", got)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
