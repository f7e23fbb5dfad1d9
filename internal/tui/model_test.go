package tui

import (
	"context"
	"strings"
	"testing"

	"newsquiz/internal/app"
	"newsquiz/internal/domain"
	"newsquiz/internal/infra/memory"

	tea "github.com/charmbracelet/bubbletea"
)

func TestModelPlaysThroughToResult(t *testing.T) {
	m := newTestModel(nil)

	m = press(m, tea.KeyMsg{Type: tea.KeyDown})
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.snap.Score != 1 || !m.snap.States[0].IsAnswered {
		t.Fatalf("expected correct first answer, got %+v", m.snap)
	}
	if !strings.Contains(m.View(), "Correct!") {
		t.Fatalf("expected verdict in view:\n%s", m.View())
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.current != 1 {
		t.Fatalf("enter on an answered question should advance, at %d", m.current)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.typing {
		t.Fatalf("enter on free-text should start typing")
	}
	m = press(m, runes("seoul"))
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.typing || !m.snap.Complete || m.snap.Percent != 100 {
		t.Fatalf("expected completed quiz, got typing=%v %+v", m.typing, m.snap)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.result {
		t.Fatalf("expected result screen")
	}
	view := m.View()
	if !strings.Contains(view, "2 / 2") || !strings.Contains(view, "100% correct") || !strings.Contains(view, "Outstanding") {
		t.Fatalf("unexpected result view:\n%s", view)
	}

	m = press(m, runes("r"))
	if m.result || m.current != 0 || m.snap.Answered != 0 {
		t.Fatalf("restart should clear the run, got %+v", m.snap)
	}
}

func TestModelHintAndNavigation(t *testing.T) {
	m := newTestModel(nil)

	m = press(m, runes("p"))
	if m.current != 0 {
		t.Fatalf("prev at the first question must stay, got %d", m.current)
	}
	m = press(m, runes("n"))
	m = press(m, runes("n"))
	if m.current != 1 {
		t.Fatalf("next must stop at the last question, got %d", m.current)
	}
	m = press(m, runes("h"))
	if !m.snap.States[1].HintVisible || !strings.Contains(m.View(), "hint: Han river") {
		t.Fatalf("expected visible hint:\n%s", m.View())
	}
	m = press(m, runes("h"))
	if m.snap.States[1].HintVisible {
		t.Fatalf("second h should hide the hint")
	}
}

func TestModelKeepsDraftAndIgnoresBlankSubmit(t *testing.T) {
	progress := memory.NewProgressStore()
	m := newTestModel(progress)
	m = press(m, runes("n"))

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.typing || m.snap.States[1].IsAnswered {
		t.Fatalf("blank submit must not answer, got typing=%v %+v", m.typing, m.snap.States[1])
	}

	m = press(m, runes("bus"))
	m = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.typing || m.snap.States[1].UserInput != "bus" {
		t.Fatalf("esc should keep the draft, got %+v", m.snap.States[1])
	}

	saved, ok, err := progress.LoadProgress(context.Background(), m.session.Key())
	if err != nil || !ok || saved.States[1].UserInput != "bus" {
		t.Fatalf("expected persisted draft, got %+v ok=%v err=%v", saved, ok, err)
	}
}

func TestModelQuits(t *testing.T) {
	m := newTestModel(nil)
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestResultBand(t *testing.T) {
	cases := []struct {
		percent int
		prefix  string
	}{
		{100, "Outstanding"},
		{60, "Well done"},
		{40, "Not bad"},
		{0, "Time to"},
	}
	for _, tc := range cases {
		if got := resultBand(tc.percent); !strings.HasPrefix(got, tc.prefix) {
			t.Fatalf("%d%%: got %q", tc.percent, got)
		}
	}
}

func newTestModel(progress app.ProgressStore) Model {
	questions := []domain.StoredQuestion{
		{ID: "q1", Type: domain.MultipleChoice, Question: "What is 2 + 2?", Options: []string{"3", "4", "5"}, Answer: "4", Explanation: "Arithmetic."},
		{ID: "q2", Type: domain.FreeText, Question: "Capital of Korea?", Answer: "Seoul", Hint: domain.Hints{"Han river"}},
	}
	var opts []app.SessionOption
	if progress != nil {
		opts = append(opts, app.WithProgressStore(progress))
	}
	key := domain.ProgressKey{Theme: domain.SignalDecoding, Date: "2025-01-02"}
	session := app.NewQuizSession(context.Background(), key, questions, opts...)
	return NewModel(session, Options{NoColor: true})
}

func press(m Model, msg tea.KeyMsg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
