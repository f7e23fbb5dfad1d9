package app

import (
	"context"
	"fmt"
	"strings"

	"newsquiz/internal/domain"
	"newsquiz/internal/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// QuestionPatch carries the fields to overwrite on the active question. Nil fields are left alone.
type QuestionPatch struct {
	Theme          *domain.Theme
	Type           *domain.QuestionType
	Title          *string
	Text           *string
	Choices        []string
	CorrectIndex   **int
	Answer         *string
	Explanation    *string
	Hints          domain.Hints
	RelatedArticle **domain.RelatedArticle
	Creator        *string
	Tags           *string
}

// EditorSession is the admin's in-memory, ordered working copy of one date's questions.
// It is owned by a single author; it is not safe for concurrent use.
type EditorSession struct {
	store     QuestionStore
	log       *logger.Logger
	newID     func() string
	date      string
	questions []domain.Question
	active    int
}

// EditorOption customizes an EditorSession.
type EditorOption func(*EditorSession)

// WithIDGenerator replaces the question id generator (tests use a counter).
func WithIDGenerator(gen func() string) EditorOption {
	return func(s *EditorSession) { s.newID = gen }
}

// WithEditorLogger attaches a logger.
func WithEditorLogger(l *logger.Logger) EditorOption {
	return func(s *EditorSession) { s.log = logger.OrNop(l) }
}

func NewEditorSession(store QuestionStore, date string, opts ...EditorOption) *EditorSession {
	s := &EditorSession{
		store: store,
		log:   logger.Nop(),
		newID: newQuestionID,
		date:  date,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newQuestionID() string {
	return "q-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// Date is the date the session edits.
func (s *EditorSession) Date() string { return s.date }

// ActiveIndex is the position being edited.
func (s *EditorSession) ActiveIndex() int { return s.active }

// Len is the number of questions in the session.
func (s *EditorSession) Len() int { return len(s.questions) }

// Questions returns a deep copy of the ordered questions.
func (s *EditorSession) Questions() []domain.Question {
	out := make([]domain.Question, len(s.questions))
	for i, q := range s.questions {
		out[i] = q.Clone()
	}
	return out
}

// Active returns a copy of the active question.
func (s *EditorSession) Active() (domain.Question, bool) {
	if s.active < 0 || s.active >= len(s.questions) {
		return domain.Question{}, false
	}
	return s.questions[s.active].Clone(), true
}

// Load replaces the session with everything stored for date across all themes, in theme order.
// An empty result, or a failed read, leaves one blank question so the editor is never empty.
func (s *EditorSession) Load(ctx context.Context, date string) error {
	s.date = date
	questions, err := LoadDate(ctx, s.store, date)
	s.questions = questions
	s.active = 0
	if err != nil {
		s.log.Warn("editor load failed", "date", date, "error", err)
	}
	s.ensureNotEmpty()
	return err
}

// LoadDate reads every theme's set for date concurrently and returns them in editor form, themes in
// display order and each set in stored order. On any read error nothing is returned.
func LoadDate(ctx context.Context, store QuestionStore, date string) ([]domain.Question, error) {
	perTheme := make([][]domain.StoredQuestion, len(domain.Themes))

	g, gctx := errgroup.WithContext(ctx)
	for i, theme := range domain.Themes {
		g.Go(func() error {
			stored, err := store.Read(gctx, theme, date)
			if err != nil {
				return fmt.Errorf("read %s/%s: %w", theme, date, err)
			}
			perTheme[i] = stored
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	questions := []domain.Question{}
	for i, theme := range domain.Themes {
		for _, sq := range perTheme[i] {
			questions = append(questions, domain.FromStored(theme, date, sq))
		}
	}
	return questions, nil
}

// Replace swaps in an ordered question list wholesale and resets navigation. An empty list is
// kept empty so that saving it clears the date.
func (s *EditorSession) Replace(questions []domain.Question) {
	s.questions = make([]domain.Question, len(questions))
	for i, q := range questions {
		s.questions[i] = q.Clone()
	}
	s.active = 0
}

// Add appends a blank question for the session date and makes it active.
func (s *EditorSession) Add() int {
	s.questions = append(s.questions, s.blank())
	s.active = len(s.questions) - 1
	return s.active
}

// Duplicate inserts a copy of position i (with a fresh id) right after it and makes the copy active.
func (s *EditorSession) Duplicate(i int) error {
	if i < 0 || i >= len(s.questions) {
		return fmt.Errorf("duplicate %d: %w", i, domain.ErrQuestionIndex)
	}
	dup := s.questions[i].Clone()
	dup.ID = s.newID()

	s.questions = append(s.questions, domain.Question{})
	copy(s.questions[i+2:], s.questions[i+1:])
	s.questions[i+1] = dup
	s.active = i + 1
	return nil
}

// Delete removes position i, clamping the active index. Removing the last question
// leaves a fresh blank one in its place.
func (s *EditorSession) Delete(i int) error {
	if i < 0 || i >= len(s.questions) {
		return fmt.Errorf("delete %d: %w", i, domain.ErrQuestionIndex)
	}
	s.questions = append(s.questions[:i], s.questions[i+1:]...)
	if s.active >= len(s.questions) {
		s.active = max(0, len(s.questions)-1)
	}
	s.ensureNotEmpty()
	return nil
}

// Select moves the active index.
func (s *EditorSession) Select(i int) error {
	if i < 0 || i >= len(s.questions) {
		return fmt.Errorf("select %d: %w", i, domain.ErrQuestionIndex)
	}
	s.active = i
	return nil
}

// UpdateActive shallow-merges patch into the active question.
func (s *EditorSession) UpdateActive(patch QuestionPatch) error {
	if s.active < 0 || s.active >= len(s.questions) {
		return fmt.Errorf("update %d: %w", s.active, domain.ErrQuestionIndex)
	}
	q := &s.questions[s.active]
	if patch.Theme != nil {
		q.Theme = *patch.Theme
	}
	if patch.Type != nil {
		q.Type = *patch.Type
	}
	if patch.Title != nil {
		q.Title = *patch.Title
	}
	if patch.Text != nil {
		q.Text = *patch.Text
	}
	if patch.Choices != nil {
		q.Choices = append([]string(nil), patch.Choices...)
	}
	if patch.CorrectIndex != nil {
		q.CorrectIndex = nil
		if *patch.CorrectIndex != nil {
			idx := **patch.CorrectIndex
			q.CorrectIndex = &idx
		}
	}
	if patch.Answer != nil {
		q.Answer = *patch.Answer
	}
	if patch.Explanation != nil {
		q.Explanation = *patch.Explanation
	}
	if patch.Hints != nil {
		q.Hints = append(domain.Hints(nil), patch.Hints...)
	}
	if patch.RelatedArticle != nil {
		q.RelatedArticle = nil
		if *patch.RelatedArticle != nil {
			ra := **patch.RelatedArticle
			q.RelatedArticle = &ra
		}
	}
	if patch.Creator != nil {
		q.Creator = *patch.Creator
	}
	if patch.Tags != nil {
		q.Tags = *patch.Tags
	}
	return nil
}

// Save validates every question and, only if all pass, writes the date's questions grouped by
// theme. A theme without questions has its (theme, date) entry deleted. The session itself is
// not modified, whatever the outcome.
func (s *EditorSession) Save(ctx context.Context) error {
	if err := domain.ValidateAll(s.questions); err != nil {
		return err
	}
	batch := make(domain.ThemeBatch, len(domain.Themes))
	for i, q := range s.questions {
		if !q.Theme.Valid() {
			return fmt.Errorf("question %d: %w: %q", i+1, domain.ErrUnknownTheme, q.Theme)
		}
		batch[q.Theme] = append(batch[q.Theme], domain.ToStored(q))
	}
	if err := WriteBatch(ctx, s.store, s.date, batch); err != nil {
		s.log.Error("editor save failed", "date", s.date, "error", err)
		return err
	}
	s.log.Info("editor saved", "date", s.date, "questions", len(s.questions))
	return nil
}

// DeleteAll removes the date from every theme and resets the session to one blank question.
func (s *EditorSession) DeleteAll(ctx context.Context) error {
	if err := s.store.DeleteDate(ctx, s.date); err != nil {
		return fmt.Errorf("delete %s: %w", s.date, err)
	}
	s.questions = nil
	s.active = 0
	s.ensureNotEmpty()
	return nil
}

func (s *EditorSession) blank() domain.Question {
	return domain.Question{
		ID:      s.newID(),
		Date:    s.date,
		Theme:   domain.DefaultTheme,
		Type:    domain.MultipleChoice,
		Choices: []string{"", ""},
	}
}

func (s *EditorSession) ensureNotEmpty() {
	if len(s.questions) == 0 {
		s.Add()
	}
}
