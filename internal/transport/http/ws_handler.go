package http

import (
	"encoding/json"
	"net/http"

	"newsquiz/internal/app"
	"newsquiz/internal/domain"
	"newsquiz/internal/logger"

	"github.com/gorilla/websocket"
)

// WSHandler runs one QuizSession per websocket connection.
type WSHandler struct {
	catalog  *app.Catalog
	progress app.ProgressStore
	log      *logger.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler wires the play endpoint. progress may be nil to disable persistence everywhere.
func NewWSHandler(catalog *app.Catalog, progress app.ProgressStore, log *logger.Logger) *WSHandler {
	return &WSHandler{
		catalog:  catalog,
		progress: progress,
		log:      logger.OrNop(log),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type positionPayload struct {
	Index  int    `json:"index"`
	Choice string `json:"choice"`
	Text   string `json:"text"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type statePayload struct {
	app.SessionSnapshot
	Questions []domain.StoredQuestion `json:"questions,omitempty"`
	Preview   bool                    `json:"preview,omitempty"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades /ws/play?theme=T&date=D&clientId=C[&preview=1]. Without a date the theme's most
// recent one is played. Preview sessions never read or write progress.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	theme, err := domain.ParseTheme(q.Get("theme"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	preview := q.Get("preview") == "1" || q.Get("preview") == "true"
	clientID := q.Get("clientId")
	if clientID == "" && !preview {
		http.Error(w, "missing clientId", http.StatusBadRequest)
		return
	}

	date := q.Get("date")
	if date == "" {
		latest, ok, err := h.catalog.MostRecentDate(r.Context(), theme)
		if err != nil || !ok {
			http.Error(w, "no quiz available", http.StatusNotFound)
			return
		}
		date = latest
	}
	questions, err := h.catalog.Questions(r.Context(), theme, date)
	if err != nil {
		http.Error(w, "failed to load quiz", http.StatusInternalServerError)
		return
	}
	if len(questions) == 0 {
		http.Error(w, "no quiz for "+string(theme)+" on "+date, http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	log := h.log.With("theme", theme, "date", date, "clientId", clientID)
	opts := []app.SessionOption{app.WithSessionLogger(log)}
	if !preview && h.progress != nil {
		opts = append(opts, app.WithProgressStore(h.progress))
	}
	key := domain.ProgressKey{Player: clientID, Theme: theme, Date: date}
	session := app.NewQuizSession(r.Context(), key, questions, opts...)

	send := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Warn("ws write error", "error", err)
				return
			}
		}
	}()

	// push drops messages once the writer has stopped.
	push := func(msg outboundMessage[any]) {
		select {
		case send <- msg:
		case <-writerDone:
		}
	}

	push(outboundMessage[any]{Type: "state", Payload: statePayload{
		SessionSnapshot: session.Snapshot(),
		Questions:       session.Questions(),
		Preview:         preview,
	}})

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		var payload positionPayload
		if len(inbound.Payload) > 0 {
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				push(errorMessage("invalid " + inbound.Type + " payload"))
				continue
			}
		}

		var (
			snap app.SessionSnapshot
			err  error
		)
		ctx := r.Context()
		switch inbound.Type {
		case "answer":
			snap, err = session.AnswerChoice(ctx, payload.Index, payload.Choice)
		case "input":
			snap, err = session.SetInput(ctx, payload.Index, payload.Text)
		case "submit":
			snap, err = session.SubmitInput(ctx, payload.Index)
		case "hint":
			snap, err = session.ToggleHint(ctx, payload.Index)
		case "restart":
			snap, err = session.Restart(ctx)
		default:
			push(errorMessage("unsupported message type"))
			continue
		}
		if err != nil {
			push(errorMessage(err.Error()))
			continue
		}
		push(outboundMessage[any]{Type: "state", Payload: statePayload{SessionSnapshot: snap, Preview: preview}})
	}

	close(send)
	<-writerDone
}

func errorMessage(msg string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: msg}}
}
