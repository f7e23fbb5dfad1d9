package http

import (
	"net/http"
)

// Routes holds the handlers mounted by NewMux. Nil handlers are not mounted.
type Routes struct {
	Admin   *AdminHandler
	Quiz    *QuizHandler
	Ingest  *IngestHandler
	Catalog *CatalogHandler
	Play    *WSHandler
}

func NewMux(routes Routes) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	if routes.Admin != nil {
		mux.Handle("/api/admin/quiz", routes.Admin)
	}
	if routes.Quiz != nil {
		mux.Handle("/api/quiz", routes.Quiz)
	}
	if routes.Ingest != nil {
		mux.Handle("/api/quizzes", CORS("OPTIONS,POST", routes.Ingest))
	}
	if routes.Catalog != nil {
		mux.HandleFunc("/api/questions", routes.Catalog.Questions)
		mux.HandleFunc("/api/archive", routes.Catalog.Archive)
	}
	if routes.Play != nil {
		mux.HandleFunc("/ws/play", routes.Play.ServeWS)
	}
	return mux
}
