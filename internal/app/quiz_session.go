package app

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"newsquiz/internal/domain"
	"newsquiz/internal/logger"
)

// SessionSnapshot is a read-only view of a quiz session.
type SessionSnapshot struct {
	Theme    domain.Theme         `json:"theme"`
	Date     string               `json:"date"`
	States   []domain.AnswerState `json:"questionStates"`
	Score    int                  `json:"score"`
	Answered int                  `json:"answered"`
	Total    int                  `json:"total"`
	Complete bool                 `json:"isComplete"`
	Percent  int                  `json:"percent"`
}

// QuizSession tracks one player's answers to an immutable, ordered question list.
// Each position moves Unanswered -> Answered exactly once. Score and completion are derived from
// the positions after every transition. When a ProgressStore is attached, every state change
// writes the full snapshot before returning; a failed write leaves the session unchanged.
type QuizSession struct {
	key       domain.ProgressKey
	questions []domain.StoredQuestion
	progress  ProgressStore
	now       func() time.Time
	log       *logger.Logger

	mu     sync.Mutex
	states []domain.AnswerState
}

// SessionOption customizes a QuizSession.
type SessionOption func(*QuizSession)

// WithProgressStore enables persistence. Without it the session never reads or writes progress.
func WithProgressStore(store ProgressStore) SessionOption {
	return func(s *QuizSession) { s.progress = store }
}

// WithClock sets the timestamp source for saved snapshots.
func WithClock(now func() time.Time) SessionOption {
	return func(s *QuizSession) { s.now = now }
}

// WithSessionLogger attaches a logger.
func WithSessionLogger(l *logger.Logger) SessionOption {
	return func(s *QuizSession) { s.log = logger.OrNop(l) }
}

// NewQuizSession starts a session for questions under key. If persistence is enabled and a saved
// snapshot with the same number of positions exists it is resumed; anything else (no snapshot,
// a different length, an unreadable store) starts from a fresh, all-unanswered state.
func NewQuizSession(ctx context.Context, key domain.ProgressKey, questions []domain.StoredQuestion, opts ...SessionOption) *QuizSession {
	s := &QuizSession{
		key:       key,
		questions: append([]domain.StoredQuestion(nil), questions...),
		now:       time.Now,
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.states = freshStates(len(s.questions))
	s.resume(ctx)
	return s
}

func (s *QuizSession) resume(ctx context.Context) {
	if s.progress == nil {
		return
	}
	saved, ok, err := s.progress.LoadProgress(ctx, s.key)
	if err != nil {
		s.log.Warn("progress load failed, starting fresh", "key", s.key.String(), "error", err)
		return
	}
	if !ok || len(saved.States) != len(s.questions) {
		return
	}
	s.states = append([]domain.AnswerState(nil), saved.States...)
}

// Key identifies the session's progress record.
func (s *QuizSession) Key() domain.ProgressKey { return s.key }

// Questions returns the session's question list.
func (s *QuizSession) Questions() []domain.StoredQuestion {
	return append([]domain.StoredQuestion(nil), s.questions...)
}

// Snapshot returns the current state.
func (s *QuizSession) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// AnswerChoice answers position i with a choice; correct iff it equals the stored answer exactly.
// Answering an already answered position changes nothing.
func (s *QuizSession) AnswerChoice(ctx context.Context, i int, choice string) (SessionSnapshot, error) {
	return s.mutate(ctx, i, func(st *domain.AnswerState, q domain.StoredQuestion) bool {
		if st.IsAnswered {
			return false
		}
		picked := choice
		st.SelectedAnswer = &picked
		st.IsAnswered = true
		st.IsCorrect = choice == q.Answer
		return true
	})
}

// SetInput replaces the pending free-text input of position i.
func (s *QuizSession) SetInput(ctx context.Context, i int, text string) (SessionSnapshot, error) {
	return s.mutate(ctx, i, func(st *domain.AnswerState, _ domain.StoredQuestion) bool {
		if st.UserInput == text {
			return false
		}
		st.UserInput = text
		return true
	})
}

// SubmitInput answers position i with its pending input. Blank input or an answered position is a
// no-op. Matching ignores surrounding whitespace and case; nothing else is normalized.
func (s *QuizSession) SubmitInput(ctx context.Context, i int) (SessionSnapshot, error) {
	return s.mutate(ctx, i, func(st *domain.AnswerState, q domain.StoredQuestion) bool {
		if st.IsAnswered || strings.TrimSpace(st.UserInput) == "" {
			return false
		}
		st.IsAnswered = true
		st.IsCorrect = MatchFreeText(st.UserInput, q.Answer)
		return true
	})
}

// ToggleHint flips hint visibility for position i.
func (s *QuizSession) ToggleHint(ctx context.Context, i int) (SessionSnapshot, error) {
	return s.mutate(ctx, i, func(st *domain.AnswerState, _ domain.StoredQuestion) bool {
		st.HintVisible = !st.HintVisible
		return true
	})
}

// Restart clears every position and persists the cleared state.
func (s *QuizSession) Restart(ctx context.Context) (SessionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := freshStates(len(s.questions))
	if err := s.persistLocked(ctx, next); err != nil {
		return s.snapshotLocked(), err
	}
	s.states = next
	return s.snapshotLocked(), nil
}

// MatchFreeText compares a typed answer with the stored one, ignoring case and outer whitespace.
func MatchFreeText(input, answer string) bool {
	return strings.EqualFold(strings.TrimSpace(input), strings.TrimSpace(answer))
}

func (s *QuizSession) mutate(ctx context.Context, i int, apply func(*domain.AnswerState, domain.StoredQuestion) bool) (SessionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.questions) {
		return s.snapshotLocked(), fmt.Errorf("position %d of %d: %w", i, len(s.questions), domain.ErrQuestionIndex)
	}
	next := append([]domain.AnswerState(nil), s.states...)
	if !apply(&next[i], s.questions[i]) {
		return s.snapshotLocked(), nil
	}
	if err := s.persistLocked(ctx, next); err != nil {
		return s.snapshotLocked(), err
	}
	s.states = next
	return s.snapshotLocked(), nil
}

func (s *QuizSession) persistLocked(ctx context.Context, states []domain.AnswerState) error {
	if s.progress == nil {
		return nil
	}
	score, _, complete := tally(states)
	err := s.progress.SaveProgress(ctx, s.key, domain.Progress{
		States:   append([]domain.AnswerState(nil), states...),
		Score:    score,
		Complete: complete,
		SavedAt:  s.now(),
	})
	if err != nil {
		return fmt.Errorf("save progress %s: %w", s.key, err)
	}
	return nil
}

func (s *QuizSession) snapshotLocked() SessionSnapshot {
	score, answered, complete := tally(s.states)
	snap := SessionSnapshot{
		Theme:    s.key.Theme,
		Date:     s.key.Date,
		States:   append([]domain.AnswerState(nil), s.states...),
		Score:    score,
		Answered: answered,
		Total:    len(s.states),
		Complete: complete,
	}
	if snap.Total > 0 {
		snap.Percent = int(math.Round(float64(score) / float64(snap.Total) * 100))
	}
	return snap
}

// tally derives score, answered count and completion. An empty list is never complete.
func tally(states []domain.AnswerState) (score, answered int, complete bool) {
	for _, st := range states {
		if st.IsAnswered {
			answered++
		}
		if st.IsCorrect {
			score++
		}
	}
	return score, answered, len(states) > 0 && answered == len(states)
}

func freshStates(n int) []domain.AnswerState {
	return make([]domain.AnswerState, n)
}
