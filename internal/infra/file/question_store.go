package file

import (
	"context"
	"fmt"
	"sync"

	"newsquiz/internal/domain"
	"newsquiz/internal/logger"
)

// QuestionStore keeps every question set in one JSON document:
//
//	{"BlackSwan": {"2025-01-02": [...]}, "SignalDecoding": {...}, "PrisonersDilemma": {...}}
//
// Each write rewrites the whole file. Unknown themes in the file are ignored.
type QuestionStore struct {
	path string
	log  *logger.Logger
	mu   sync.Mutex
}

func NewQuestionStore(path string, log *logger.Logger) *QuestionStore {
	return &QuestionStore{path: path, log: logger.OrNop(log)}
}

func (s *QuestionStore) Read(_ context.Context, theme domain.Theme, date string) ([]domain.StoredQuestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ds, err := s.load()
	if err != nil {
		return nil, err
	}
	qs := ds.Questions(theme, date)
	if qs == nil {
		qs = []domain.StoredQuestion{}
	}
	return qs, nil
}

func (s *QuestionStore) Write(_ context.Context, theme domain.Theme, date string, questions []domain.StoredQuestion) error {
	if !theme.Valid() {
		return domain.ErrUnknownTheme
	}
	return s.update(func(ds domain.Dataset) {
		put(ds, theme, date, questions)
	})
}

// WriteBatch applies every theme of date with a single file rewrite.
func (s *QuestionStore) WriteBatch(_ context.Context, date string, batch domain.ThemeBatch) error {
	return s.update(func(ds domain.Dataset) {
		for _, theme := range domain.Themes {
			put(ds, theme, date, batch[theme])
		}
	})
}

func (s *QuestionStore) DeleteDate(_ context.Context, date string) error {
	return s.update(func(ds domain.Dataset) {
		for _, theme := range domain.Themes {
			delete(ds[theme], date)
		}
	})
}

func (s *QuestionStore) LoadDataset(context.Context) (domain.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *QuestionStore) update(apply func(domain.Dataset)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ds, err := s.load()
	if err != nil {
		return err
	}
	apply(ds)
	if err := writeJSON(s.path, ds); err != nil {
		s.log.Error("question file write failed", "path", s.path, "error", err)
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

func (s *QuestionStore) load() (domain.Dataset, error) {
	var raw domain.Dataset
	if _, err := readJSON(s.path, &raw); err != nil {
		return nil, err
	}
	ds := domain.NewDataset()
	for theme, byDate := range raw {
		if !theme.Valid() {
			s.log.Warn("ignoring unknown theme in question file", "theme", theme)
			continue
		}
		for date, qs := range byDate {
			if len(qs) > 0 {
				ds[theme][date] = qs
			}
		}
	}
	return ds, nil
}

func put(ds domain.Dataset, theme domain.Theme, date string, questions []domain.StoredQuestion) {
	if len(questions) == 0 {
		delete(ds[theme], date)
		return
	}
	ds[theme][date] = append([]domain.StoredQuestion(nil), questions...)
}
