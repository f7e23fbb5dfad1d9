package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"newsquiz/internal/app"
	"newsquiz/internal/domain"
	"newsquiz/internal/infra/memory"

	"github.com/gorilla/websocket"
)

func TestWebSocketPlayFlow(t *testing.T) {
	progress := memory.NewProgressStore()
	server := newPlayServer(progress)
	defer server.Close()

	conn := dial(t, server, "theme=BlackSwan&date=2025-01-02&clientId=c1")
	defer conn.Close()

	state := readNext(t, conn, "state")
	if state.Total != 2 || len(state.Questions) != 2 || state.Complete {
		t.Fatalf("unexpected initial state %+v", state)
	}

	send(t, conn, "answer", map[string]any{"index": 0, "choice": "4"})
	state = readNext(t, conn, "state")
	if state.Score != 1 || state.Answered != 1 || len(state.Questions) != 0 {
		t.Fatalf("unexpected state after answer %+v", state)
	}

	send(t, conn, "input", map[string]any{"index": 1, "text": "  seoul "})
	readNext(t, conn, "state")
	send(t, conn, "submit", map[string]any{"index": 1})
	state = readNext(t, conn, "state")
	if !state.Complete || state.Score != 2 || state.Percent != 100 {
		t.Fatalf("expected complete perfect run, got %+v", state)
	}

	send(t, conn, "hint", map[string]any{"index": 5})
	readNext(t, conn, "error")

	send(t, conn, "dance", nil)
	readNext(t, conn, "error")

	key := domain.ProgressKey{Player: "c1", Theme: domain.BlackSwan, Date: "2025-01-02"}
	saved, ok, _ := progress.LoadProgress(t.Context(), key)
	if !ok || saved.Score != 2 || !saved.Complete {
		t.Fatalf("expected persisted progress, got %+v ok=%v", saved, ok)
	}
}

func TestWebSocketResumesAndPreviewSkipsProgress(t *testing.T) {
	progress := memory.NewProgressStore()
	server := newPlayServer(progress)
	defer server.Close()

	first := dial(t, server, "theme=g1&date=2025-01-02&clientId=c1")
	readNext(t, first, "state")
	send(t, first, "answer", map[string]any{"index": 0, "choice": "3"})
	readNext(t, first, "state")
	first.Close()

	resumed := dial(t, server, "theme=g1&date=2025-01-02&clientId=c1")
	defer resumed.Close()
	state := readNext(t, resumed, "state")
	if state.Answered != 1 || state.Score != 0 {
		t.Fatalf("expected resumed progress, got %+v", state)
	}

	before := progress.Len()
	preview := dial(t, server, "theme=g1&date=2025-01-02&preview=1")
	defer preview.Close()
	state = readNext(t, preview, "state")
	if state.Answered != 0 || !state.Preview {
		t.Fatalf("preview must start fresh, got %+v", state)
	}
	send(t, preview, "answer", map[string]any{"index": 0, "choice": "4"})
	readNext(t, preview, "state")
	if progress.Len() != before {
		t.Fatalf("preview must not write progress")
	}
}

func TestWebSocketRejectsBadRequests(t *testing.T) {
	server := newPlayServer(memory.NewProgressStore())
	defer server.Close()

	cases := []struct {
		query  string
		status int
	}{
		{"theme=Chess&date=2025-01-02&clientId=c1", http.StatusBadRequest},
		{"theme=BlackSwan&date=2025-01-02", http.StatusBadRequest},
		{"theme=SignalDecoding&date=2025-01-02&clientId=c1", http.StatusNotFound},
	}
	for _, tc := range cases {
		query, status := tc.query, tc.status
		_, resp, err := websocket.DefaultDialer.Dial(wsURL(server, query), nil)
		if err == nil {
			t.Fatalf("%s: expected handshake failure", query)
		}
		if resp == nil || resp.StatusCode != status {
			t.Fatalf("%s: expected %d, got %v", query, status, resp)
		}
	}
}

type wsState struct {
	app.SessionSnapshot
	Questions []domain.StoredQuestion `json:"questions"`
	Preview   bool                    `json:"preview"`
}

func newPlayServer(progress app.ProgressStore) *httptest.Server {
	catalog := app.NewCatalog(memory.NewQuestionStoreFrom(playDataset()))
	return httptest.NewServer(NewMux(Routes{Play: NewWSHandler(catalog, progress, nil)}))
}

func wsURL(server *httptest.Server, query string) string {
	return "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/play?" + query
}

func dial(t *testing.T, server *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server, query), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func send(t *testing.T, conn *websocket.Conn, typ string, payload map[string]any) {
	t.Helper()
	msg := map[string]any{"type": typ}
	if payload != nil {
		msg["payload"] = payload
	}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

func readNext(t *testing.T, conn *websocket.Conn, expect string) wsState {
	t.Helper()
	var msg struct {
		Type    string  `json:"type"`
		Payload wsState `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if msg.Type != expect {
		t.Fatalf("expected type %s, got %s", expect, msg.Type)
	}
	return msg.Payload
}

func playDataset() domain.Dataset {
	ds := domain.NewDataset()
	ds[domain.BlackSwan]["2025-01-02"] = []domain.StoredQuestion{
		{ID: "q1", Type: domain.MultipleChoice, Question: "What is 2 + 2?", Options: []string{"3", "4", "5"}, Answer: "4"},
		{ID: "q2", Type: domain.FreeText, Question: "Capital of Korea?", Answer: "Seoul", Hint: domain.Hints{"Han river"}},
	}
	return ds
}
