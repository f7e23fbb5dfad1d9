package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"newsquiz/internal/domain"
)

type countingSource struct {
	ds    domain.Dataset
	err   error
	calls int
}

func (s *countingSource) LoadDataset(context.Context) (domain.Dataset, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.ds, nil
}

func sampleDataset() domain.Dataset {
	ds := domain.NewDataset()
	ds[domain.BlackSwan]["2025-01-02"] = []domain.StoredQuestion{{ID: "q1", Question: "?", Options: []string{"a", "b"}, Answer: "a"}}
	return ds
}

func TestDatasetCacheReusesWithinTTL(t *testing.T) {
	now := time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)
	source := &countingSource{ds: sampleDataset()}
	cache := NewDatasetCache(source, 5*time.Minute, nil)
	cache.SetClock(func() time.Time { return now })

	if _, f := cache.Fetch(context.Background()); f != Fresh {
		t.Fatalf("expected fresh, got %v", f)
	}
	if _, f := cache.Fetch(context.Background()); f != Cached {
		t.Fatalf("expected cached, got %v", f)
	}
	if source.calls != 1 {
		t.Fatalf("expected source once, got %d", source.calls)
	}

	now = now.Add(6 * time.Minute)
	if _, f := cache.Fetch(context.Background()); f != Fresh {
		t.Fatalf("expected refetch after ttl, got %v", f)
	}
	if source.calls != 2 {
		t.Fatalf("expected source twice, got %d", source.calls)
	}
}

func TestDatasetCacheServesStaleOnFailure(t *testing.T) {
	now := time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)
	source := &countingSource{ds: sampleDataset()}
	cache := NewDatasetCache(source, time.Minute, nil)
	cache.SetClock(func() time.Time { return now })

	_, _ = cache.Fetch(context.Background())
	now = now.Add(2 * time.Minute)
	source.err = errors.New("gateway down")

	ds, f := cache.Fetch(context.Background())
	if f != Stale || !f.Degraded() {
		t.Fatalf("expected stale, got %v", f)
	}
	if len(ds.Questions(domain.BlackSwan, "2025-01-02")) != 1 {
		t.Fatalf("expected stale data served")
	}
}

func TestDatasetCacheEmptyWithoutPriorFetch(t *testing.T) {
	cache := NewDatasetCache(&countingSource{err: errors.New("boom")}, time.Minute, nil)
	ds, f := cache.Fetch(context.Background())
	if f != Empty {
		t.Fatalf("expected empty, got %v", f)
	}
	if len(ds) != len(domain.Themes) || len(ds[domain.SignalDecoding]) != 0 {
		t.Fatalf("expected empty dataset with theme buckets, got %+v", ds)
	}
	if _, err := cache.LoadDataset(context.Background()); err != nil {
		t.Fatalf("LoadDataset must not fail: %v", err)
	}
}

func TestDatasetCacheClear(t *testing.T) {
	source := &countingSource{ds: sampleDataset()}
	cache := NewDatasetCache(source, time.Hour, nil)
	_, _ = cache.Fetch(context.Background())
	cache.Clear()
	_, _ = cache.Fetch(context.Background())
	if source.calls != 2 {
		t.Fatalf("expected refetch after clear, got %d calls", source.calls)
	}
}

// gatedSource blocks its first load until release is closed.
type gatedSource struct {
	mu      sync.Mutex
	ds      domain.Dataset
	calls   int
	started chan struct{}
	release chan struct{}
}

func (s *gatedSource) LoadDataset(context.Context) (domain.Dataset, error) {
	s.mu.Lock()
	s.calls++
	first := s.calls == 1
	ds := s.ds
	s.mu.Unlock()
	if first {
		close(s.started)
		<-s.release
	}
	return ds, nil
}

func TestDatasetCacheClearDuringFetchDoesNotKeepOldData(t *testing.T) {
	source := &gatedSource{ds: sampleDataset(), started: make(chan struct{}), release: make(chan struct{})}
	cache := NewDatasetCache(source, time.Hour, nil)

	done := make(chan Freshness, 1)
	go func() {
		_, f := cache.Fetch(context.Background())
		done <- f
	}()
	<-source.started

	cache.Clear()
	updated := domain.NewDataset()
	updated[domain.BlackSwan]["2025-01-03"] = []domain.StoredQuestion{{ID: "q2", Answer: "b"}}
	source.mu.Lock()
	source.ds = updated
	source.mu.Unlock()
	close(source.release)

	if f := <-done; f != Fresh {
		t.Fatalf("in-flight caller should still get its result, got %v", f)
	}

	ds, f := cache.Fetch(context.Background())
	if f != Fresh {
		t.Fatalf("expected a new fetch after clear, got %v", f)
	}
	if len(ds.Questions(domain.BlackSwan, "2025-01-03")) != 1 || len(ds.Questions(domain.BlackSwan, "2025-01-02")) != 0 {
		t.Fatalf("expected post-write dataset, got %+v", ds)
	}
	if source.calls != 2 {
		t.Fatalf("expected two source loads, got %d", source.calls)
	}
}
