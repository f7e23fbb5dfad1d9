package memory

import (
	"context"
	"strconv"
	"sync"
	"time"

	"newsquiz/internal/app"
	"newsquiz/internal/domain"
	"newsquiz/internal/logger"

	"golang.org/x/sync/singleflight"
)

// Freshness tells where a cached dataset came from.
type Freshness int

const (
	// Fresh: fetched from the source by this call.
	Fresh Freshness = iota
	// Cached: served from a fetch still inside the TTL window.
	Cached
	// Stale: the source failed, an older fetch was served.
	Stale
	// Empty: the source failed and nothing was cached.
	Empty
)

func (f Freshness) String() string {
	switch f {
	case Fresh:
		return "fresh"
	case Cached:
		return "cached"
	case Stale:
		return "stale"
	default:
		return "empty"
	}
}

// Degraded reports whether the upstream failed for this result.
func (f Freshness) Degraded() bool {
	return f == Stale || f == Empty
}

// DatasetCache keeps the last successful dataset fetch for a TTL window. Concurrent misses share
// a single fetch. It never fails: on a source error it serves the last value, or an empty dataset.
type DatasetCache struct {
	source app.DatasetSource
	ttl    time.Duration
	clock  func() time.Time
	log    *logger.Logger
	sf     singleflight.Group

	mu        sync.RWMutex
	value     domain.Dataset
	fetchedAt time.Time
	has       bool

	// gen counts Clear calls; a fetch started under an older gen is not stored.
	gen uint64
}

func NewDatasetCache(source app.DatasetSource, ttl time.Duration, log *logger.Logger) *DatasetCache {
	return &DatasetCache{
		source: source,
		ttl:    ttl,
		clock:  time.Now,
		log:    logger.OrNop(log),
	}
}

// SetClock replaces the time source (tests).
func (c *DatasetCache) SetClock(clock func() time.Time) {
	c.clock = clock
}

// LoadDataset implements app.DatasetSource and never returns an error.
func (c *DatasetCache) LoadDataset(ctx context.Context) (domain.Dataset, error) {
	ds, _ := c.Fetch(ctx)
	return ds, nil
}

// Fetch returns the dataset and how it was obtained.
func (c *DatasetCache) Fetch(ctx context.Context) (domain.Dataset, Freshness) {
	if ds, ok := c.lookup(c.clock()); ok {
		return ds, Cached
	}

	type result struct {
		ds        domain.Dataset
		freshness Freshness
	}
	c.mu.RLock()
	gen := c.gen
	c.mu.RUnlock()
	v, _, _ := c.sf.Do("dataset:"+strconv.FormatUint(gen, 10), func() (interface{}, error) {
		// Re-check in case another caller filled it.
		now := c.clock()
		if ds, ok := c.lookup(now); ok {
			return result{ds, Cached}, nil
		}

		ds, err := c.source.LoadDataset(ctx)
		if err != nil {
			c.mu.RLock()
			prev, has := c.value, c.has
			c.mu.RUnlock()
			if has {
				c.log.Warn("dataset fetch failed, serving stale cache", "error", err)
				return result{prev, Stale}, nil
			}
			c.log.Warn("dataset fetch failed, serving empty dataset", "error", err)
			return result{domain.NewDataset(), Empty}, nil
		}
		if ds == nil {
			ds = domain.NewDataset()
		}

		c.mu.Lock()
		if c.gen == gen {
			c.value = ds
			c.fetchedAt = now
			c.has = true
		}
		c.mu.Unlock()
		return result{ds, Fresh}, nil
	})
	r := v.(result)
	return r.ds, r.freshness
}

// Clear drops the cached value so the next Fetch goes to the source. Fetches already in flight
// still answer their callers but do not refill the cache.
func (c *DatasetCache) Clear() {
	c.mu.Lock()
	c.gen++
	c.value = nil
	c.has = false
	c.fetchedAt = time.Time{}
	c.mu.Unlock()
}

func (c *DatasetCache) lookup(now time.Time) (domain.Dataset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.has && now.Sub(c.fetchedAt) < c.ttl {
		return c.value, true
	}
	return nil, false
}
