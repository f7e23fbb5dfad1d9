package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"newsquiz/internal/domain"
	"newsquiz/internal/logger"

	"github.com/redis/go-redis/v9"
)

// QuestionStore keeps question sets in Redis.
// Each set is a JSON array: SET quiz:{theme}:{date} [...]
// Dates with an entry are indexed per theme: SADD quiz-dates:{theme} {date}
type QuestionStore struct {
	client *redis.Client
	log    *logger.Logger
}

func NewQuestionStore(client *redis.Client, log *logger.Logger) *QuestionStore {
	return &QuestionStore{client: client, log: logger.OrNop(log)}
}

func (s *QuestionStore) Read(ctx context.Context, theme domain.Theme, date string) ([]domain.StoredQuestion, error) {
	raw, err := s.client.Get(ctx, setKey(theme, date)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []domain.StoredQuestion{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s/%s: %w", theme, date, err)
	}
	return decodeSet(raw)
}

func (s *QuestionStore) Write(ctx context.Context, theme domain.Theme, date string, questions []domain.StoredQuestion) error {
	if !theme.Valid() {
		return domain.ErrUnknownTheme
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		return queueWrite(ctx, pipe, theme, date, questions)
	})
	if err != nil {
		return fmt.Errorf("write %s/%s: %w", theme, date, err)
	}
	return nil
}

// WriteBatch applies every theme of date in one MULTI/EXEC transaction.
func (s *QuestionStore) WriteBatch(ctx context.Context, date string, batch domain.ThemeBatch) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, theme := range domain.Themes {
			if err := queueWrite(ctx, pipe, theme, date, batch[theme]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.log.Error("batch write failed", "date", date, "error", err)
		return fmt.Errorf("write %s: %w", date, err)
	}
	return nil
}

func (s *QuestionStore) DeleteDate(ctx context.Context, date string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, theme := range domain.Themes {
			pipe.Del(ctx, setKey(theme, date))
			pipe.SRem(ctx, datesKey(theme), date)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", date, err)
	}
	return nil
}

func (s *QuestionStore) LoadDataset(ctx context.Context) (domain.Dataset, error) {
	ds := domain.NewDataset()
	for _, theme := range domain.Themes {
		dates, err := s.client.SMembers(ctx, datesKey(theme)).Result()
		if err != nil {
			return nil, fmt.Errorf("list %s dates: %w", theme, err)
		}
		if len(dates) == 0 {
			continue
		}
		keys := make([]string, len(dates))
		for i, d := range dates {
			keys[i] = setKey(theme, d)
		}
		values, err := s.client.MGet(ctx, keys...).Result()
		if err != nil {
			return nil, fmt.Errorf("load %s sets: %w", theme, err)
		}
		for i, v := range values {
			str, ok := v.(string)
			if !ok {
				// Index entry without a set; the key was removed out of band.
				continue
			}
			qs, err := decodeSet([]byte(str))
			if err != nil {
				s.log.Warn("skipping unreadable question set", "theme", theme, "date", dates[i], "error", err)
				continue
			}
			if len(qs) > 0 {
				ds[theme][dates[i]] = qs
			}
		}
	}
	return ds, nil
}

func queueWrite(ctx context.Context, pipe redis.Pipeliner, theme domain.Theme, date string, questions []domain.StoredQuestion) error {
	if _, err := domain.ParseDate(date); err != nil {
		return err
	}
	if len(questions) == 0 {
		pipe.Del(ctx, setKey(theme, date))
		pipe.SRem(ctx, datesKey(theme), date)
		return nil
	}
	raw, err := json.Marshal(questions)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", theme, date, err)
	}
	pipe.Set(ctx, setKey(theme, date), raw, 0)
	pipe.SAdd(ctx, datesKey(theme), date)
	return nil
}

func decodeSet(raw []byte) ([]domain.StoredQuestion, error) {
	var qs []domain.StoredQuestion
	if err := json.Unmarshal(raw, &qs); err != nil {
		return nil, fmt.Errorf("decode question set: %w", err)
	}
	if qs == nil {
		qs = []domain.StoredQuestion{}
	}
	return qs, nil
}

func setKey(theme domain.Theme, date string) string {
	return "quiz:" + string(theme) + ":" + date
}

func datesKey(theme domain.Theme) string {
	return "quiz-dates:" + string(theme)
}
