package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"newsquiz/internal/app"
	"newsquiz/internal/domain"
	"newsquiz/internal/logger"
)

const maxIngestBody = 4 << 20

// IngestHandler serves POST /api/quizzes: upserts one (gameType, quizDate) batch by question id.
// When a secret is configured the caller must send it in X-Admin-Secret.
type IngestHandler struct {
	service  *app.IngestService
	secret   domain.Credential
	log      *logger.Logger
	onChange func()
}

func NewIngestHandler(service *app.IngestService, secret domain.Credential, log *logger.Logger, onChange func()) *IngestHandler {
	if onChange == nil {
		onChange = func() {}
	}
	return &IngestHandler{service: service, secret: secret, log: logger.OrNop(log), onChange: onChange}
}

type ingestRequest struct {
	GameType string `json:"gameType"`
	QuizDate string `json:"quizDate"`
	Data     *struct {
		Questions json.RawMessage `json:"questions"`
	} `json:"data"`
}

type ingestInvalid struct {
	Error    string          `json:"error"`
	Received json.RawMessage `json:"received"`
}

type ingestFailure struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

type ingestSaved struct {
	Success bool             `json:"success"`
	Saved   app.IngestResult `json:"saved"`
}

func (h *IngestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "OPTIONS, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if h.secret.Configured() && !h.secret.Matches(r.Header.Get("X-Admin-Secret")) {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxIngestBody))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, ingestFailure{Error: "Failed to save quiz", Details: err.Error()})
		return
	}
	received := json.RawMessage("{}")
	if json.Valid(raw) && len(raw) > 0 {
		received = raw
	}
	invalid := func() {
		writeJSON(w, http.StatusBadRequest, ingestInvalid{
			Error:    "Invalid payload. Need gameType, quizDate, data.questions[].",
			Received: received,
		})
	}

	var req ingestRequest
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &req); err != nil {
			invalid()
			return
		}
	}
	if req.GameType == "" || req.QuizDate == "" {
		invalid()
		return
	}
	incoming := []domain.StoredQuestion{}
	if req.Data != nil && len(req.Data.Questions) > 0 && string(req.Data.Questions) != "null" {
		if err := json.Unmarshal(req.Data.Questions, &incoming); err != nil {
			invalid()
			return
		}
	}

	result, err := h.service.Ingest(r.Context(), domain.Theme(req.GameType), req.QuizDate, incoming)
	if errors.Is(err, domain.ErrUnknownTheme) || errors.Is(err, domain.ErrInvalidPayload) {
		invalid()
		return
	}
	if err != nil {
		h.log.Error("ingest failed", "gameType", req.GameType, "quizDate", req.QuizDate, "error", err)
		writeJSON(w, http.StatusInternalServerError, ingestFailure{Error: "Failed to save quiz", Details: err.Error()})
		return
	}
	h.onChange()
	writeJSON(w, http.StatusOK, ingestSaved{Success: true, Saved: result})
}
