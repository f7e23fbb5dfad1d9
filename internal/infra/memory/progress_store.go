package memory

import (
	"context"
	"sync"

	"newsquiz/internal/domain"
)

// ProgressStore is an in-memory implementation of app.ProgressStore.
type ProgressStore struct {
	mu    sync.RWMutex
	saved map[domain.ProgressKey]domain.Progress
}

func NewProgressStore() *ProgressStore {
	return &ProgressStore{
		saved: make(map[domain.ProgressKey]domain.Progress),
	}
}

func (s *ProgressStore) LoadProgress(_ context.Context, key domain.ProgressKey) (domain.Progress, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.saved[key]
	if !ok {
		return domain.Progress{}, false, nil
	}
	p.States = append([]domain.AnswerState(nil), p.States...)
	return p, true, nil
}

func (s *ProgressStore) SaveProgress(_ context.Context, key domain.ProgressKey, progress domain.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	progress.States = append([]domain.AnswerState(nil), progress.States...)
	s.saved[key] = progress
	return nil
}

// Len counts the stored records.
func (s *ProgressStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.saved)
}
