package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"newsquiz/internal/domain"
	"newsquiz/internal/logger"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const (
	upsertSetSQL = `INSERT INTO quiz_sets (game_type, quiz_date, data, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (game_type, quiz_date) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`
	deleteSetSQL  = `DELETE FROM quiz_sets WHERE game_type=$1 AND quiz_date=$2`
	deleteDateSQL = `DELETE FROM quiz_sets WHERE quiz_date=$1`
	selectSetSQL  = `SELECT data FROM quiz_sets WHERE game_type=$1 AND quiz_date=$2`
	selectAllSQL  = `SELECT game_type, quiz_date, data FROM quiz_sets`
)

// setDocument is the JSONB layout of one (game_type, quiz_date) row.
type setDocument struct {
	Questions []domain.StoredQuestion `json:"questions"`
}

// QuestionStore keeps question sets in the quiz_sets table, one JSONB row per (theme, date).
type QuestionStore struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

func NewQuestionStore(pool *pgxpool.Pool, log *logger.Logger) *QuestionStore {
	return &QuestionStore{pool: pool, log: logger.OrNop(log)}
}

func (s *QuestionStore) Read(ctx context.Context, theme domain.Theme, date string) ([]domain.StoredQuestion, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, selectSetSQL, string(theme), date).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return []domain.StoredQuestion{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load quiz set %s/%s: %w", theme, date, err)
	}
	return decodeDocument(raw)
}

func (s *QuestionStore) Write(ctx context.Context, theme domain.Theme, date string, questions []domain.StoredQuestion) error {
	if !theme.Valid() {
		return domain.ErrUnknownTheme
	}
	query, args, err := writeStatement(theme, date, questions)
	if err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("write quiz set %s/%s: %w", theme, date, err)
	}
	return nil
}

// WriteBatch applies every theme of date inside one transaction.
func (s *QuestionStore) WriteBatch(ctx context.Context, date string, batch domain.ThemeBatch) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, theme := range domain.Themes {
		query, args, err := writeStatement(theme, date, batch[theme])
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("write quiz set %s/%s: %w", theme, date, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		s.log.Error("batch commit failed", "date", date, "error", err)
		return fmt.Errorf("commit %s: %w", date, err)
	}
	return nil
}

func (s *QuestionStore) DeleteDate(ctx context.Context, date string) error {
	if _, err := s.pool.Exec(ctx, deleteDateSQL, date); err != nil {
		return fmt.Errorf("delete quiz sets %s: %w", date, err)
	}
	return nil
}

func (s *QuestionStore) LoadDataset(ctx context.Context) (domain.Dataset, error) {
	rows, err := s.pool.Query(ctx, selectAllSQL)
	if err != nil {
		return nil, fmt.Errorf("load quiz sets: %w", err)
	}
	defer rows.Close()

	ds := domain.NewDataset()
	for rows.Next() {
		var (
			gameType, date string
			raw            []byte
		)
		if err := rows.Scan(&gameType, &date, &raw); err != nil {
			return nil, fmt.Errorf("scan quiz set: %w", err)
		}
		theme := domain.Theme(gameType)
		if !theme.Valid() {
			s.log.Warn("skipping quiz set with unknown game type", "gameType", gameType, "date", date)
			continue
		}
		qs, err := decodeDocument(raw)
		if err != nil {
			s.log.Warn("skipping unreadable quiz set", "gameType", gameType, "date", date, "error", err)
			continue
		}
		if len(qs) > 0 {
			ds[theme][date] = qs
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quiz sets: %w", err)
	}
	return ds, nil
}

func writeStatement(theme domain.Theme, date string, questions []domain.StoredQuestion) (string, []interface{}, error) {
	if len(questions) == 0 {
		return deleteSetSQL, []interface{}{string(theme), date}, nil
	}
	raw, err := json.Marshal(setDocument{Questions: questions})
	if err != nil {
		return "", nil, fmt.Errorf("encode quiz set %s/%s: %w", theme, date, err)
	}
	return upsertSetSQL, []interface{}{string(theme), date, raw}, nil
}

func decodeDocument(raw []byte) ([]domain.StoredQuestion, error) {
	var doc setDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal quiz set: %w", err)
	}
	if doc.Questions == nil {
		doc.Questions = []domain.StoredQuestion{}
	}
	return doc.Questions, nil
}
