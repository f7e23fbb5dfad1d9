package app

import (
	"context"
	"fmt"

	"newsquiz/internal/domain"
	"newsquiz/internal/logger"
)

// IngestResult summarizes one upsert into a (theme, date) set.
type IngestResult struct {
	Theme          domain.Theme `json:"gameType"`
	Date           string       `json:"quizDate"`
	TotalQuestions int          `json:"totalQuestions"`
	AddedOrUpdated int          `json:"addedOrUpdated"`
}

// IngestService upserts externally produced question batches into the store by question id.
// Unlike the editor save it does not validate: whatever arrives is stored as-is.
type IngestService struct {
	store QuestionStore
	log   *logger.Logger
}

func NewIngestService(store QuestionStore, log *logger.Logger) *IngestService {
	return &IngestService{store: store, log: logger.OrNop(log)}
}

// Ingest merges incoming into the stored set for (theme, date) and writes the merged set back.
// The theme and date must be well formed; the questions themselves are not checked.
// A write failure leaves the stored set as it was.
func (s *IngestService) Ingest(ctx context.Context, theme domain.Theme, date string, incoming []domain.StoredQuestion) (IngestResult, error) {
	if !theme.Valid() {
		return IngestResult{}, fmt.Errorf("%w: %q", domain.ErrUnknownTheme, theme)
	}
	if _, err := domain.ParseDate(date); err != nil {
		return IngestResult{}, fmt.Errorf("%w: %w", domain.ErrInvalidPayload, err)
	}
	existing, err := s.store.Read(ctx, theme, date)
	if err != nil {
		return IngestResult{}, fmt.Errorf("read %s/%s: %w", theme, date, err)
	}
	merged := domain.Merge(existing, incoming)
	if err := s.store.Write(ctx, theme, date, merged); err != nil {
		return IngestResult{}, fmt.Errorf("write %s/%s: %w", theme, date, err)
	}
	s.log.Info("ingested questions", "theme", theme, "date", date, "incoming", len(incoming), "total", len(merged))
	return IngestResult{
		Theme:          theme,
		Date:           date,
		TotalQuestions: len(merged),
		AddedOrUpdated: len(incoming),
	}, nil
}
