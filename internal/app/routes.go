package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Lixing-Zhang/fruit-service/internal/config"
	"github.com/Lixing-Zhang/fruit-service/internal/handlers"
	"github.com/Lixing-Zhang/fruit-service/internal/middleware"
	"github.com/Lixing-Zhang/fruit-service/internal/repository"
	"github.com/Lixing-Zhang/fruit-service/internal/service"
)

// Version is reported by /health
var Version = "dev"

// NewRouter wires middleware, handlers and routes around repo.
// Metrics are registered on reg and served from /metrics.
func NewRouter(cfg *config.Config, repo repository.FruitRepository, reg *prometheus.Registry, log *slog.Logger) http.Handler {
	fruitService := service.NewFruitService(repo)

	healthHandler := handlers.NewHealthHandler(repo, Version, log)
	fruitHandler := handlers.NewFruitHandler(fruitService, log)
	metrics := middleware.NewMetrics(reg)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(metrics.Handler)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(cfg.Server.RequestTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "api_key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// set before mounting so sub-routers inherit them
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, http.StatusNotFound, "Not found", log)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", log)
	})

	r.Get("/health", healthHandler.ServeHTTP)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	var guard func(http.Handler) http.Handler
	if cfg.Auth.Enabled() {
		guard = middleware.APIKeyAuth(cfg.Auth)
	}
	r.Route("/fruits", func(r chi.Router) {
		fruitHandler.Routes(r, guard)
	})

	return r
}
