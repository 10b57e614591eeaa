package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/athtracker/athtracker-backend/internal/api/handlers"
	custommiddleware "github.com/athtracker/athtracker-backend/internal/api/middleware"
	"github.com/athtracker/athtracker-backend/internal/config"
	"github.com/athtracker/athtracker-backend/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(systemService *service.SystemService, refreshService *service.RefreshService, cfg *config.Config, logger logrus.FieldLogger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(logger))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
		})

		r.Route("/assets", func(r chi.Router) {
			assetHandler := handlers.NewAssetHandler(refreshService)
			r.Get("/", assetHandler.Assets)
			// Method filtering happens in the handler so other verbs get 405
			// with a JSON body.
			r.HandleFunc("/refresh", assetHandler.Refresh)
		})
	})

	return r
}
