// Package main provides the API router setup.
package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/dacsanviet/discovery-engine/cmd/discovery-api/handlers"
	"github.com/dacsanviet/discovery-engine/cmd/discovery-api/middleware"
)

// Handlers groups the wired request handlers.
type Handlers struct {
	Search  *handlers.SearchHandler
	Suggest *handlers.SuggestHandler
	Vision  *handlers.VisionHandler
	Catalog *handlers.CatalogHandler
}

// NewRouter creates the main API router with all routes configured.
func NewRouter(h Handlers, requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.TraceID)
	r.Use(middleware.CORS([]string{"*"}))
	r.Use(chimiddleware.Timeout(requestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy","service":"discovery-engine"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.Search.List)
		r.Post("/suggest/products", h.Suggest.Suggest)
		r.Post("/vision/search", h.Vision.Search)
		r.Post("/catalog/refresh", h.Catalog.Refresh)
	})

	return r
}
