package file

import (
	"context"
	"fmt"
	"sync"

	"newsquiz/internal/domain"
)

// ProgressStore keeps quiz progress in one JSON file mapping record names to snapshots.
type ProgressStore struct {
	path string
	mu   sync.Mutex
}

func NewProgressStore(path string) *ProgressStore {
	return &ProgressStore{path: path}
}

func (s *ProgressStore) LoadProgress(_ context.Context, key domain.ProgressKey) (domain.Progress, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	saved, err := s.load()
	if err != nil {
		return domain.Progress{}, false, err
	}
	p, ok := saved[key.Scoped()]
	return p, ok, nil
}

func (s *ProgressStore) SaveProgress(_ context.Context, key domain.ProgressKey, progress domain.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	saved, err := s.load()
	if err != nil {
		return err
	}
	saved[key.Scoped()] = progress
	if err := writeJSON(s.path, saved); err != nil {
		return fmt.Errorf("save progress %s: %w", key, err)
	}
	return nil
}

func (s *ProgressStore) load() (map[string]domain.Progress, error) {
	saved := map[string]domain.Progress{}
	if _, err := readJSON(s.path, &saved); err != nil {
		return nil, err
	}
	if saved == nil {
		saved = map[string]domain.Progress{}
	}
	return saved, nil
}
