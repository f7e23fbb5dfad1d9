package app

import (
	"context"

	"newsquiz/internal/domain"
)

// Catalog answers player-side lookups (questions for a date, available dates, archive) over a
// dataset source, normally a cached one.
type Catalog struct {
	source DatasetSource
}

func NewCatalog(source DatasetSource) *Catalog {
	return &Catalog{source: source}
}

// Questions returns the set for (theme, date); empty when absent.
func (c *Catalog) Questions(ctx context.Context, theme domain.Theme, date string) ([]domain.StoredQuestion, error) {
	ds, err := c.source.LoadDataset(ctx)
	if err != nil {
		return nil, err
	}
	return append([]domain.StoredQuestion(nil), ds.Questions(theme, date)...), nil
}

// Dates lists the dates with at least one question for theme, newest first.
func (c *Catalog) Dates(ctx context.Context, theme domain.Theme) ([]string, error) {
	ds, err := c.source.LoadDataset(ctx)
	if err != nil {
		return nil, err
	}
	dates := make([]string, 0, len(ds[theme]))
	for date, qs := range ds[theme] {
		if len(qs) > 0 {
			dates = append(dates, date)
		}
	}
	domain.SortDatesDesc(dates)
	return dates, nil
}

// MostRecentDate returns the newest date for theme, or ok=false when there is none.
func (c *Catalog) MostRecentDate(ctx context.Context, theme domain.Theme) (string, bool, error) {
	dates, err := c.Dates(ctx, theme)
	if err != nil || len(dates) == 0 {
		return "", false, err
	}
	return dates[0], true, nil
}

// HasQuestions reports whether (theme, date) has any question.
func (c *Catalog) HasQuestions(ctx context.Context, theme domain.Theme, date string) (bool, error) {
	qs, err := c.Questions(ctx, theme, date)
	return len(qs) > 0, err
}

// Archive groups the theme's dates by year and month.
func (c *Catalog) Archive(ctx context.Context, theme domain.Theme) ([]domain.ArchiveYear, error) {
	dates, err := c.Dates(ctx, theme)
	if err != nil {
		return nil, err
	}
	return domain.BuildArchive(dates), nil
}
