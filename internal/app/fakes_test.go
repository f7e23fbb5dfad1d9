package app

import (
	"context"
	"sync"

	"newsquiz/internal/domain"
)

// fakeStore is a map-backed QuestionStore with per-theme failure injection.
type fakeStore struct {
	mu        sync.Mutex
	sets      map[domain.Theme]map[string][]domain.StoredQuestion
	failWrite map[domain.Theme]error
	failRead  error
	writes    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sets:      map[domain.Theme]map[string][]domain.StoredQuestion{},
		failWrite: map[domain.Theme]error{},
	}
}

func (s *fakeStore) Read(_ context.Context, theme domain.Theme, date string) ([]domain.StoredQuestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failRead != nil {
		return nil, s.failRead
	}
	return append([]domain.StoredQuestion{}, s.sets[theme][date]...), nil
}

func (s *fakeStore) Write(_ context.Context, theme domain.Theme, date string, qs []domain.StoredQuestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failWrite[theme]; err != nil {
		return err
	}
	s.writes++
	if len(qs) == 0 {
		delete(s.sets[theme], date)
		return nil
	}
	if s.sets[theme] == nil {
		s.sets[theme] = map[string][]domain.StoredQuestion{}
	}
	s.sets[theme][date] = append([]domain.StoredQuestion(nil), qs...)
	return nil
}

func (s *fakeStore) DeleteDate(_ context.Context, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, byDate := range s.sets {
		delete(byDate, date)
	}
	return nil
}

func (s *fakeStore) LoadDataset(context.Context) (domain.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ds := domain.NewDataset()
	for theme, byDate := range s.sets {
		for date, qs := range byDate {
			ds[theme][date] = append([]domain.StoredQuestion(nil), qs...)
		}
	}
	return ds, nil
}

func (s *fakeStore) has(theme domain.Theme, date string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sets[theme][date]
	return ok
}

// batchStore records that the whole batch went through WriteBatch.
type batchStore struct {
	*fakeStore
	batches int
}

func (s *batchStore) WriteBatch(ctx context.Context, date string, batch domain.ThemeBatch) error {
	s.batches++
	for _, theme := range domain.Themes {
		if err := s.fakeStore.Write(ctx, theme, date, batch[theme]); err != nil {
			return err
		}
	}
	return nil
}

func counterIDs() func() string {
	n := 0
	return func() string {
		n++
		return "id-" + string(rune('0'+n))
	}
}

func intPtr(i int) *int { return &i }

func validQuestion(id string, theme domain.Theme) domain.Question {
	return domain.Question{
		ID:           id,
		Date:         "2025-01-02",
		Theme:        theme,
		Type:         domain.MultipleChoice,
		Text:         "Which?",
		Choices:      []string{"a", "b"},
		CorrectIndex: intPtr(1),
		Creator:      "kim",
	}
}
