package http

import (
	"net/http"

	"newsquiz/internal/app"
	"newsquiz/internal/domain"
)

// CatalogHandler serves the player-side lookups.
type CatalogHandler struct {
	catalog *app.Catalog
}

func NewCatalogHandler(catalog *app.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

type questionsResponse struct {
	Theme     domain.Theme            `json:"theme"`
	Date      string                  `json:"date"`
	Questions []domain.StoredQuestion `json:"questions"`
}

type archiveResponse struct {
	Theme          domain.Theme         `json:"theme"`
	MostRecentDate string               `json:"mostRecentDate,omitempty"`
	Years          []domain.ArchiveYear `json:"years"`
}

// Questions handles GET /api/questions?theme=T&date=D. Without a date the most recent one is used.
func (h *CatalogHandler) Questions(w http.ResponseWriter, r *http.Request) {
	theme, err := domain.ParseTheme(r.URL.Query().Get("theme"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		latest, ok, err := h.catalog.MostRecentDate(r.Context(), theme)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to load quiz data")
			return
		}
		if !ok {
			writeJSON(w, http.StatusOK, questionsResponse{Theme: theme, Questions: []domain.StoredQuestion{}})
			return
		}
		date = latest
	} else if _, err := domain.ParseDate(date); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	questions, err := h.catalog.Questions(r.Context(), theme, date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load quiz data")
		return
	}
	if questions == nil {
		questions = []domain.StoredQuestion{}
	}
	writeJSON(w, http.StatusOK, questionsResponse{Theme: theme, Date: date, Questions: questions})
}

// Archive handles GET /api/archive?theme=T.
func (h *CatalogHandler) Archive(w http.ResponseWriter, r *http.Request) {
	theme, err := domain.ParseTheme(r.URL.Query().Get("theme"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	years, err := h.catalog.Archive(r.Context(), theme)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load quiz data")
		return
	}
	resp := archiveResponse{Theme: theme, Years: years}
	if resp.Years == nil {
		resp.Years = []domain.ArchiveYear{}
	}
	if len(years) > 0 && len(years[0].Months) > 0 && len(years[0].Months[0].Dates) > 0 {
		resp.MostRecentDate = years[0].Months[0].Dates[0]
	}
	writeJSON(w, http.StatusOK, resp)
}
