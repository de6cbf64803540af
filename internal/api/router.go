package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/loyaltyops/promo-migrator/internal/clone"
	"github.com/loyaltyops/promo-migrator/internal/models"
	"github.com/loyaltyops/promo-migrator/internal/observability"
	"github.com/loyaltyops/promo-migrator/internal/store"
)

// Server holds shared state for all API handlers.
type Server struct {
	Environments *models.EnvironmentStore
	Runs         *models.RunStore
	RunLog       store.RunLog
	Settings     clone.Settings
}

// NewRouter builds the chi router with all API routes.
func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(observability.Measure)

	r.Route("/api", func(r chi.Router) {
		// Environments (connection profiles)
		r.Post("/environments", s.CreateEnvironment)
		r.Get("/environments", s.ListEnvironments)
		r.Put("/environments/{id}", s.UpdateEnvironment)
		r.Delete("/environments/{id}", s.DeleteEnvironment)
		r.Post("/environments/{id}/test", s.TestEnvironment)

		// Asset browsing
		r.Get("/environments/{id}/assets/{kind}", s.ListAssets)

		// Migration
		r.Post("/migrate", s.Migrate)

		// Runs
		r.Get("/runs", s.ListRuns)
		r.Get("/runs/{id}", s.GetRun)
	})

	// WebSocket (outside /api to avoid JSON content-type assumptions)
	r.Get("/ws/runs/{id}/logs", s.StreamRunLogs)

	r.Handle("/metrics", observability.MetricsHandler())

	return r
}
