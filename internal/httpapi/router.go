// Package httpapi exposes the ledger over a JSON HTTP API.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/pokernight/internal/auth"
	"github.com/mmynk/pokernight/internal/middleware"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	GameHandler   *GameHandler
	HealthHandler *HealthHandler

	// JWTManager guards mutating routes. Nil leaves them open.
	JWTManager *auth.JWTManager
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "no route for "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", r.Method+" not allowed on "+r.URL.Path)
	})

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	requireAuth := middleware.RequireAuth(cfg.JWTManager)
	games := cfg.GameHandler

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/summary", games.Summary)
		r.Get("/debts", games.Debts)

		r.Route("/games", func(r chi.Router) {
			r.Get("/", games.ListGames)
			r.With(requireAuth).Post("/", games.CreateGame)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", games.GetGame)
				r.Get("/winners", games.GetWinners)

				r.Group(func(r chi.Router) {
					r.Use(requireAuth)

					r.Delete("/", games.DeleteGame)
					r.Post("/players", games.AddPlayer)
					r.Delete("/players/{playerID}", games.DeletePlayer)
					r.Post("/buyins", games.AddBuyIn)
					r.Delete("/buyins/{buyinID}", games.DeleteBuyIn)
					r.Put("/winners", games.AssignWinners)
					r.Post("/settle", games.Settle)
					r.Post("/reactivate", games.Reactivate)
				})
			})
		})
	})

	return r
}
