package http

import (
	"context"
	"net/http"

	"newsquiz/internal/domain"
	"newsquiz/internal/infra/memory"
)

const (
	cacheControlFresh    = "public, s-maxage=300, stale-while-revalidate=600"
	cacheControlDegraded = "public, s-maxage=60, stale-while-revalidate=120"
)

// DatasetFetcher returns the full dataset and how fresh it is.
type DatasetFetcher interface {
	Fetch(ctx context.Context) (domain.Dataset, memory.Freshness)
}

// QuizHandler serves GET /api/quiz: every question grouped by theme and date. It always answers
// 200; when the upstream failed it serves what it has with a shorter cache lifetime.
type QuizHandler struct {
	source DatasetFetcher
}

func NewQuizHandler(source DatasetFetcher) *QuizHandler {
	return &QuizHandler{source: source}
}

func (h *QuizHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	ds, freshness := h.source.Fetch(r.Context())
	if freshness.Degraded() {
		w.Header().Set("Cache-Control", cacheControlDegraded)
	} else {
		w.Header().Set("Cache-Control", cacheControlFresh)
	}
	writeJSON(w, http.StatusOK, ds)
}
