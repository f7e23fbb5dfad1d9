package cli

import (
	"context"
	"fmt"
	"time"

	"newsquiz/internal/app"
	"newsquiz/internal/config"
	"newsquiz/internal/infra/file"
	"newsquiz/internal/infra/memory"
	pgstore "newsquiz/internal/infra/postgres"
	redisstore "newsquiz/internal/infra/redis"
	"newsquiz/internal/logger"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
)

// questionBackend is what every store driver provides.
type questionBackend interface {
	app.QuestionStore
	app.DatasetSource
}

// backends holds the opened stores for one process.
type backends struct {
	questions questionBackend
	progress  app.ProgressStore
	closers   []func()
}

func (b *backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// openBackends builds the question store selected by store.driver. Progress lives in redis when
// redis is configured, otherwise in process memory.
func openBackends(ctx context.Context, cfg config.Config, log *logger.Logger) (*backends, error) {
	b := &backends{}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		b.closers = append(b.closers, func() { _ = redisClient.Close() })
	}

	switch cfg.Store.Driver {
	case config.DriverMemory:
		b.questions = memory.NewQuestionStore()
	case config.DriverFile:
		b.questions = file.NewQuestionStore(cfg.File.Path, log)
	case config.DriverRedis:
		b.questions = redisstore.NewQuestionStore(redisClient, log)
	case config.DriverPostgres:
		if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
			b.Close()
			return nil, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		b.closers = append(b.closers, pool.Close)
		b.questions = pgstore.NewQuestionStore(pool, log)
	default:
		b.Close()
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	if redisClient != nil {
		b.progress = redisstore.NewProgressStore(redisClient, config.TTLDuration(cfg.Redis.TTL, 30*24*time.Hour))
	} else {
		b.progress = memory.NewProgressStore()
	}
	return b, nil
}
