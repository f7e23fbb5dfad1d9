package redis

import (
	"context"
	"errors"
	"testing"

	"newsquiz/internal/app"
	"newsquiz/internal/domain"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestQuestionStoreWriteReadDelete(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewQuestionStore(newClient(mr), nil)
	ctx := context.Background()

	if err := store.Write(ctx, domain.BlackSwan, "2025-01-02", sampleSet()); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !mr.Exists("quiz:BlackSwan:2025-01-02") {
		t.Fatalf("expected set key")
	}
	if ok, _ := mr.SIsMember("quiz-dates:BlackSwan", "2025-01-02"); !ok {
		t.Fatalf("expected date indexed")
	}

	got, err := store.Read(ctx, domain.BlackSwan, "2025-01-02")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 1 || got[0].Answer != "4" || got[0].Type != domain.MultipleChoice {
		t.Fatalf("unexpected read %+v", got)
	}

	if err := store.Write(ctx, domain.BlackSwan, "2025-01-02", nil); err != nil {
		t.Fatalf("write empty: %v", err)
	}
	if mr.Exists("quiz:BlackSwan:2025-01-02") {
		t.Fatalf("expected empty write to delete the key")
	}
	got, err = store.Read(ctx, domain.BlackSwan, "2025-01-02")
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty read, got %v %v", got, err)
	}
}

func TestQuestionStoreBatchAndDataset(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewQuestionStore(newClient(mr), nil)
	ctx := context.Background()

	_ = store.Write(ctx, domain.PrisonersDilemma, "2025-01-02", sampleSet())
	batch := domain.ThemeBatch{
		domain.BlackSwan:      sampleSet(),
		domain.SignalDecoding: sampleSet(),
	}
	if err := app.WriteBatch(ctx, store, "2025-01-02", batch); err != nil {
		t.Fatalf("write batch: %v", err)
	}
	if mr.Exists("quiz:PrisonersDilemma:2025-01-02") {
		t.Fatalf("expected theme missing from the batch to be deleted")
	}

	ds, err := store.LoadDataset(ctx)
	if err != nil {
		t.Fatalf("load dataset: %v", err)
	}
	if len(ds.Questions(domain.BlackSwan, "2025-01-02")) != 1 || len(ds.Questions(domain.SignalDecoding, "2025-01-02")) != 1 {
		t.Fatalf("unexpected dataset %+v", ds)
	}
	if _, ok := ds[domain.PrisonersDilemma]["2025-01-02"]; ok {
		t.Fatalf("deleted set must not appear in dataset")
	}

	if err := store.DeleteDate(ctx, "2025-01-02"); err != nil {
		t.Fatalf("delete date: %v", err)
	}
	ds, _ = store.LoadDataset(ctx)
	for _, theme := range domain.Themes {
		if len(ds[theme]) != 0 {
			t.Fatalf("expected %s empty after delete, got %v", theme, ds[theme])
		}
	}
}

func TestQuestionStoreDateIndexSurvivesBadDate(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewQuestionStore(newClient(mr), nil)
	ctx := context.Background()

	if err := store.Write(ctx, domain.SignalDecoding, "dates", sampleSet()); !errors.Is(err, domain.ErrInvalidDate) {
		t.Fatalf("expected invalid date, got %v", err)
	}
	_, err = app.NewIngestService(store, nil).Ingest(ctx, domain.SignalDecoding, "dates", sampleSet())
	if !errors.Is(err, domain.ErrInvalidPayload) {
		t.Fatalf("expected invalid payload, got %v", err)
	}
	if mr.Exists("quiz:SignalDecoding:dates") {
		t.Fatalf("bad date must not be written")
	}

	if err := store.Write(ctx, domain.SignalDecoding, "2025-01-02", sampleSet()); err != nil {
		t.Fatalf("write: %v", err)
	}
	ds, err := store.LoadDataset(ctx)
	if err != nil {
		t.Fatalf("load dataset: %v", err)
	}
	if len(ds.Questions(domain.SignalDecoding, "2025-01-02")) != 1 {
		t.Fatalf("unexpected dataset %+v", ds)
	}
}

func sampleSet() []domain.StoredQuestion {
	return []domain.StoredQuestion{{
		ID:       "q1",
		Type:     domain.MultipleChoice,
		Question: "What is 2 + 2?",
		Options:  []string{"3", "4"},
		Answer:   "4",
	}}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
