package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) ListRuns(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, s.Runs.List())
}

func (s *Server) GetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	run := s.Runs.Get(id)
	if run == nil {
		writeErr(w, http.StatusNotFound, CodeNotFound, "run not found")
		return
	}
	writeData(w, http.StatusOK, run)
}
