package server

import (
	_ "embed"
	"net/http"

	"barberq/internal/api"
)

//go:embed web/queue.html
var queuePage []byte

//go:embed web/tv.html
var tvPage []byte

func (s *Server) handleQueuePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(queuePage)
}

func (s *Server) handleTVPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(tvPage)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(r.Context()); err != nil {
		s.writeErrorCode(w, http.StatusServiceUnavailable, "unhealthy", "database unreachable")
		return
	}
	s.writeJSON(w, http.StatusOK, api.HealthResponse{Status: "ok"})
}
