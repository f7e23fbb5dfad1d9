package app

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"newsquiz/internal/domain"
)

// QuestionStore reads and writes question sets keyed by (theme, date) on an external medium
// (JSON file, Redis, Postgres, in-memory).
type QuestionStore interface {
	// Read returns the set for (theme, date); an absent key is an empty slice, not an error.
	Read(ctx context.Context, theme domain.Theme, date string) ([]domain.StoredQuestion, error)
	// Write replaces the set for (theme, date). An empty slice deletes the entry.
	Write(ctx context.Context, theme domain.Theme, date string, questions []domain.StoredQuestion) error
	// DeleteDate removes every theme's entry for date.
	DeleteDate(ctx context.Context, date string) error
}

// BatchWriter is implemented by stores that can write all themes of a date in one step.
type BatchWriter interface {
	WriteBatch(ctx context.Context, date string, batch domain.ThemeBatch) error
}

// DatasetSource loads every stored question at once (used by the player catalog and the aggregation endpoint).
type DatasetSource interface {
	LoadDataset(ctx context.Context) (domain.Dataset, error)
}

// ProgressStore persists quiz session snapshots.
type ProgressStore interface {
	// LoadProgress returns ok=false when nothing was saved under key.
	LoadProgress(ctx context.Context, key domain.ProgressKey) (domain.Progress, bool, error)
	SaveProgress(ctx context.Context, key domain.ProgressKey, progress domain.Progress) error
}

// BatchWriteError reports a partially applied batch. Themes are not rolled back.
type BatchWriteError struct {
	Date      string
	Succeeded []domain.Theme
	Failed    map[domain.Theme]error
}

func (e *BatchWriteError) Error() string {
	themes := make([]string, 0, len(e.Failed))
	for t := range e.Failed {
		themes = append(themes, string(t))
	}
	sort.Strings(themes)
	parts := make([]string, 0, len(themes))
	for _, t := range themes {
		parts = append(parts, fmt.Sprintf("%s: %v", t, e.Failed[domain.Theme(t)]))
	}
	return fmt.Sprintf("write %s: %d theme(s) failed: %s", e.Date, len(themes), strings.Join(parts, "; "))
}

// FailedThemes lists the failed themes in write order.
func (e *BatchWriteError) FailedThemes() []domain.Theme {
	var out []domain.Theme
	for _, t := range domain.Themes {
		if _, ok := e.Failed[t]; ok {
			out = append(out, t)
		}
	}
	return out
}

// WriteBatch writes every theme of date: a non-empty group replaces the (theme, date) entry and an
// empty or missing group deletes it. Stores implementing BatchWriter handle the whole batch; for the
// rest each theme is an independent write, all of them are attempted, and failures come back as a
// *BatchWriteError naming which themes landed.
func WriteBatch(ctx context.Context, store QuestionStore, date string, batch domain.ThemeBatch) error {
	full := make(domain.ThemeBatch, len(domain.Themes))
	for _, t := range domain.Themes {
		full[t] = batch[t]
	}
	if bw, ok := store.(BatchWriter); ok {
		return bw.WriteBatch(ctx, date, full)
	}

	var succeeded []domain.Theme
	failed := map[domain.Theme]error{}
	for _, t := range domain.Themes {
		if err := store.Write(ctx, t, date, full[t]); err != nil {
			failed[t] = err
			continue
		}
		succeeded = append(succeeded, t)
	}
	if len(failed) > 0 {
		return &BatchWriteError{Date: date, Succeeded: succeeded, Failed: failed}
	}
	return nil
}
