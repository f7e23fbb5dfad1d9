package memory

import (
	"context"
	"sync"

	"newsquiz/internal/domain"
)

// QuestionStore is an in-memory implementation of app.QuestionStore and app.DatasetSource.
type QuestionStore struct {
	mu   sync.RWMutex
	sets domain.Dataset
}

func NewQuestionStore() *QuestionStore {
	return &QuestionStore{sets: domain.NewDataset()}
}

// NewQuestionStoreFrom seeds the store with a copy of ds.
func NewQuestionStoreFrom(ds domain.Dataset) *QuestionStore {
	s := NewQuestionStore()
	for theme, byDate := range ds {
		if !theme.Valid() {
			continue
		}
		for date, qs := range byDate {
			if len(qs) > 0 {
				s.sets[theme][date] = copyQuestions(qs)
			}
		}
	}
	return s
}

func (s *QuestionStore) Read(_ context.Context, theme domain.Theme, date string) ([]domain.StoredQuestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyQuestions(s.sets[theme][date]), nil
}

func (s *QuestionStore) Write(_ context.Context, theme domain.Theme, date string, questions []domain.StoredQuestion) error {
	if !theme.Valid() {
		return domain.ErrUnknownTheme
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(questions) == 0 {
		delete(s.sets[theme], date)
		return nil
	}
	s.sets[theme][date] = copyQuestions(questions)
	return nil
}

func (s *QuestionStore) DeleteDate(_ context.Context, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, theme := range domain.Themes {
		delete(s.sets[theme], date)
	}
	return nil
}

// Has reports whether an entry exists for (theme, date); an empty entry never exists.
func (s *QuestionStore) Has(theme domain.Theme, date string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sets[theme][date]
	return ok
}

func (s *QuestionStore) LoadDataset(context.Context) (domain.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := domain.NewDataset()
	for theme, byDate := range s.sets {
		for date, qs := range byDate {
			out[theme][date] = copyQuestions(qs)
		}
	}
	return out, nil
}

func copyQuestions(qs []domain.StoredQuestion) []domain.StoredQuestion {
	if len(qs) == 0 {
		return []domain.StoredQuestion{}
	}
	out := make([]domain.StoredQuestion, len(qs))
	for i, q := range qs {
		q.Options = append([]string(nil), q.Options...)
		q.Hint = append(domain.Hints(nil), q.Hint...)
		if q.RelatedArticle != nil {
			ra := *q.RelatedArticle
			q.RelatedArticle = &ra
		}
		out[i] = q
	}
	return out
}
