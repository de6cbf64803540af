package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/loyaltyops/promo-migrator/internal/models"
	"github.com/loyaltyops/promo-migrator/internal/remote"
)

func (s *Server) CreateEnvironment(w http.ResponseWriter, r *http.Request) {
	var env models.Environment
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		writeErr(w, http.StatusBadRequest, CodeValidation, "invalid JSON: "+err.Error())
		return
	}
	if env.BaseURL == "" {
		writeErr(w, http.StatusBadRequest, CodeValidation, "base_url is required")
		return
	}
	if env.Kind == "" {
		env.Kind = models.PlatformPromotions
	}
	if env.Kind != models.PlatformPromotions && env.Kind != models.PlatformCMS {
		writeErr(w, http.StatusBadRequest, CodeValidation, "kind must be promotions-engine or cms")
		return
	}
	s.Environments.Create(&env)
	writeData(w, http.StatusCreated, env)
}

func (s *Server) ListEnvironments(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, s.Environments.List())
}

func (s *Server) UpdateEnvironment(w http.ResponseWriter, r *http.Request) {
	id, err := envID(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, CodeValidation, "invalid environment id")
		return
	}
	var env models.Environment
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		writeErr(w, http.StatusBadRequest, CodeValidation, "invalid JSON: "+err.Error())
		return
	}
	env.ID = id
	if !s.Environments.Update(&env) {
		writeErr(w, http.StatusNotFound, CodeNotFound, "environment not found")
		return
	}
	writeData(w, http.StatusOK, env)
}

func (s *Server) DeleteEnvironment(w http.ResponseWriter, r *http.Request) {
	id, err := envID(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, CodeValidation, "invalid environment id")
		return
	}
	if !s.Environments.Delete(id) {
		writeErr(w, http.StatusNotFound, CodeNotFound, "environment not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TestEnvironment checks connectivity and auth against the remote instance.
func (s *Server) TestEnvironment(w http.ResponseWriter, r *http.Request) {
	id, err := envID(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, CodeValidation, "invalid environment id")
		return
	}
	env, err := s.Environments.Resolve(id)
	if err != nil {
		writeErr(w, http.StatusNotFound, CodeNotFound, err.Error())
		return
	}
	client := remote.NewClient(env, s.Settings.CallTimeout)
	if err := client.Ping(); err != nil {
		writeData(w, http.StatusOK, map[string]interface{}{"ok": false, "error": err.Error()})
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{"ok": true})
}

func envID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
