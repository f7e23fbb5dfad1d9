package domain

import (
	"encoding/json"
	"testing"
)

func TestStoredRoundTripKeepsCorrectIndex(t *testing.T) {
	for idx := 0; idx < 3; idx++ {
		q := validQuestion()
		i := idx
		q.CorrectIndex = &i

		stored := ToStored(q)
		if stored.Answer != q.Choices[idx] {
			t.Fatalf("expected answer %q, got %q", q.Choices[idx], stored.Answer)
		}
		back := FromStored(q.Theme, q.Date, stored)
		if back.CorrectIndex == nil || *back.CorrectIndex != idx {
			t.Fatalf("expected index %d back, got %v", idx, back.CorrectIndex)
		}
		if back.Creator != q.Creator || back.RelatedArticle.URL != q.RelatedArticle.URL {
			t.Fatalf("lost fields in round trip: %+v", back)
		}
	}
}

func TestFromStoredUnknownAnswerHasNoIndex(t *testing.T) {
	q := FromStored(SignalDecoding, "2025-01-02", StoredQuestion{
		ID:       "x",
		Question: "?",
		Options:  []string{"a", "b"},
		Answer:   "c",
		NewsLink: "https://example.com",
	})
	if q.CorrectIndex != nil {
		t.Fatalf("expected nil index, got %d", *q.CorrectIndex)
	}
	if q.RelatedArticle == nil || q.RelatedArticle.URL != "https://example.com" {
		t.Fatalf("expected news link as related article, got %+v", q.RelatedArticle)
	}
}

func TestToStoredWithoutAnswerLeavesItBlank(t *testing.T) {
	q := validQuestion()
	q.CorrectIndex = nil
	if s := ToStored(q); s.Answer != "" {
		t.Fatalf("expected empty answer, got %q", s.Answer)
	}
}

func TestStoredQuestionDecodesDatasetShapes(t *testing.T) {
	raw := `{
		"id": "q1",
		"questionType": "주관식",
		"question": "Capital?",
		"hint": "Starts with S",
		"answer": "Seoul",
		"explanation": "",
		"newsLink": "",
		"relatedArticle": {"title": "t", "excerpt": "e"}
	}`
	var s StoredQuestion
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !s.Type.IsFreeText() {
		t.Fatalf("expected free-text, got %q", s.Type)
	}
	if len(s.Hint) != 1 || s.Hint[0] != "Starts with S" {
		t.Fatalf("expected single hint, got %v", s.Hint)
	}
	if s.RelatedArticle.Snippet != "e" {
		t.Fatalf("expected excerpt alias, got %+v", s.RelatedArticle)
	}

	if err := json.Unmarshal([]byte(`{"questionType":"multiple-choice","hint":["a","b"]}`), &s); err != nil {
		t.Fatalf("decode list hint: %v", err)
	}
	if s.Type != MultipleChoice || len(s.Hint) != 2 {
		t.Fatalf("unexpected decode %+v", s)
	}
	if err := json.Unmarshal([]byte(`{"questionType":"essay"}`), &s); err == nil {
		t.Fatalf("expected error for unknown question type")
	}
}

func TestProgressKeyString(t *testing.T) {
	key := ProgressKey{Theme: PrisonersDilemma, Date: "2025-02-01"}
	if key.String() != "quiz-progress-PrisonersDilemma-2025-02-01" {
		t.Fatalf("unexpected key %q", key.String())
	}
	if key.Scoped() != key.String() {
		t.Fatalf("unscoped key should equal its name, got %q", key.Scoped())
	}
	key.Player = "c1"
	if key.Scoped() != "c1:quiz-progress-PrisonersDilemma-2025-02-01" {
		t.Fatalf("unexpected scoped key %q", key.Scoped())
	}
}

func TestParseTheme(t *testing.T) {
	if th, err := ParseTheme("g2"); err != nil || th != PrisonersDilemma {
		t.Fatalf("expected g2 -> PrisonersDilemma, got %v %v", th, err)
	}
	if _, err := ParseTheme("Chess"); err == nil {
		t.Fatalf("expected unknown theme error")
	}
}
