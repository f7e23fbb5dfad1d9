package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"newsquiz/internal/domain"

	"github.com/redis/go-redis/v9"
)

// ProgressStore keeps quiz progress as JSON blobs:
//
//	SET progress:{player}:quiz-progress-{theme}-{date} {...} EX ttl
//
// Each save refreshes the expiry so abandoned progress ages out.
type ProgressStore struct {
	client *redis.Client
	ttl    time.Duration

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewProgressStore(client *redis.Client, ttl time.Duration) *ProgressStore {
	return &ProgressStore{
		client: client,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *ProgressStore) LoadProgress(ctx context.Context, key domain.ProgressKey) (domain.Progress, bool, error) {
	raw, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Progress{}, false, nil
	}
	if err != nil {
		return domain.Progress{}, false, fmt.Errorf("load progress %s: %w", key, err)
	}
	var p domain.Progress
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.Progress{}, false, fmt.Errorf("decode progress %s: %w", key, err)
	}
	return p, true, nil
}

func (s *ProgressStore) SaveProgress(ctx context.Context, key domain.ProgressKey, progress domain.Progress) error {
	raw, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("encode progress %s: %w", key, err)
	}
	if err := s.client.Set(ctx, s.key(key), raw, s.ttlWithJitter()).Err(); err != nil {
		return fmt.Errorf("save progress %s: %w", key, err)
	}
	return nil
}

func (s *ProgressStore) key(key domain.ProgressKey) string {
	player := key.Player
	if player == "" {
		player = "local"
	}
	return "progress:" + player + ":" + key.String()
}

// ttlWithJitter spreads expiries by up to 10% so a burst of sessions does not expire together.
func (s *ProgressStore) ttlWithJitter() time.Duration {
	if s.ttl <= 0 {
		return 0
	}
	jitterMax := int64(s.ttl) / 10
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ttl + time.Duration(s.rnd.Int63n(jitterMax+1))
}
