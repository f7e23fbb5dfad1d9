package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"newsquiz/internal/app"
	"newsquiz/internal/domain"
	"newsquiz/internal/logger"
)

// AdminHandler serves /api/admin/quiz: load, save and delete one date's questions through an
// EditorSession built per request.
type AdminHandler struct {
	store      app.QuestionStore
	credential domain.Credential
	log        *logger.Logger
	onChange   func()
	editorOpts []app.EditorOption
}

// AdminOption customizes an AdminHandler.
type AdminOption func(*AdminHandler)

// WithChangeHook runs fn after every successful save or delete, e.g. to drop a cached dataset.
func WithChangeHook(fn func()) AdminOption {
	return func(h *AdminHandler) { h.onChange = fn }
}

// WithEditorOptions passes options to every EditorSession the handler creates.
func WithEditorOptions(opts ...app.EditorOption) AdminOption {
	return func(h *AdminHandler) { h.editorOpts = append(h.editorOpts, opts...) }
}

func NewAdminHandler(store app.QuestionStore, credential domain.Credential, log *logger.Logger, opts ...AdminOption) *AdminHandler {
	h := &AdminHandler{
		store:      store,
		credential: credential,
		log:        logger.OrNop(log),
		onChange:   func() {},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type saveRequest struct {
	Date      string             `json:"date"`
	Questions *[]domain.Question `json:"questions"`
}

type saveFailure struct {
	Error     string            `json:"error"`
	Succeeded []domain.Theme    `json:"succeeded"`
	Failed    map[string]string `json:"failed"`
}

type validationFailure struct {
	Error    string           `json:"error"`
	Problems []domain.Problem `json:"problems,omitempty"`
}

func (h *AdminHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.load(w, r)
	case http.MethodPost:
		h.save(w, r)
	case http.MethodDelete:
		h.delete(w, r)
	default:
		w.Header().Set("Allow", "GET, POST, DELETE")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *AdminHandler) load(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		writeError(w, http.StatusBadRequest, "Date parameter is required")
		return
	}
	questions, err := app.LoadDate(r.Context(), h.store, date)
	if err != nil {
		h.log.Error("admin load failed", "date", date, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load quiz data")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"questions": questions})
}

func (h *AdminHandler) save(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Date == "" || req.Questions == nil {
		writeError(w, http.StatusBadRequest, "Date and questions are required")
		return
	}
	if !h.authorized(r) {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if _, err := domain.ParseDate(req.Date); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	editor := app.NewEditorSession(h.store, req.Date, h.editorOpts...)
	editor.Replace(*req.Questions)
	err := editor.Save(r.Context())

	var invalid *domain.ValidationError
	var partial *app.BatchWriteError
	switch {
	case err == nil:
		h.onChange()
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	case errors.As(err, &invalid):
		writeJSON(w, http.StatusUnprocessableEntity, validationFailure{Error: "Validation failed", Problems: invalid.Problems})
	case errors.Is(err, domain.ErrUnknownTheme):
		writeJSON(w, http.StatusUnprocessableEntity, validationFailure{Error: err.Error()})
	case errors.As(err, &partial):
		h.onChange()
		failed := make(map[string]string, len(partial.Failed))
		for theme, ferr := range partial.Failed {
			failed[string(theme)] = ferr.Error()
		}
		writeJSON(w, http.StatusInternalServerError, saveFailure{
			Error:     "Failed to save quiz data",
			Succeeded: partial.Succeeded,
			Failed:    failed,
		})
	default:
		writeError(w, http.StatusInternalServerError, "Failed to save quiz data")
	}
}

func (h *AdminHandler) delete(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		writeError(w, http.StatusBadRequest, "Date parameter is required")
		return
	}
	if !h.authorized(r) {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	editor := app.NewEditorSession(h.store, date, h.editorOpts...)
	if err := editor.DeleteAll(r.Context()); err != nil {
		h.log.Error("admin delete failed", "date", date, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete quiz data")
		return
	}
	h.onChange()
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AdminHandler) authorized(r *http.Request) bool {
	if h.credential.Matches(domain.BearerToken(r.Header.Get("Authorization"))) {
		return true
	}
	h.log.Warn("rejected admin write", "remote", r.RemoteAddr, "error", domain.ErrUnauthorized)
	return false
}
