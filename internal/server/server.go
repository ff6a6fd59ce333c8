// Package server exposes the catalog, preference, scoring, and lead
// lifecycle operations over HTTP. Handlers shape requests and responses
// only; the rules live in the core packages.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sells-group/lead-radar/internal/catalog"
	"github.com/sells-group/lead-radar/internal/leads"
	"github.com/sells-group/lead-radar/internal/prefs"
	"github.com/sells-group/lead-radar/internal/scoring"
)

// Options tune the HTTP surface, not the domain behavior.
type Options struct {
	AllowedOrigins []string
	RatePerSec     float64
	RateBurst      int
}

// Server is the lead-radar HTTP API server.
type Server struct {
	catalog *catalog.Merger
	prefs   *prefs.Store
	engine  *scoring.Engine
	leads   *leads.Store

	router  chi.Router
	started time.Time
}

// New creates a Server wired to the given core components.
func New(cat *catalog.Merger, ps *prefs.Store, eng *scoring.Engine, ls *leads.Store, opts Options) *Server {
	s := &Server{
		catalog: cat,
		prefs:   ps,
		engine:  eng,
		leads:   ls,
		started: time.Now(),
	}
	s.routes(opts)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes(opts Options) {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(requestLogger)
	r.Use(rateLimit(opts.RatePerSec, opts.RateBurst))

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Get("/listings", s.handleListings)
		r.Post("/catalog/reload", s.handleCatalogReload)

		r.Get("/buyers/{key}/preferences", s.handleGetPreferences)
		r.Patch("/buyers/{key}/preferences", s.handlePatchPreferences)

		r.Post("/score", s.handleScore)
		r.Put("/scoring/thresholds", s.handlePutThresholds)

		r.Get("/leads", s.handleListLeads)
		r.Get("/leads/summary", s.handleLeadSummary)
		r.Post("/leads/{host}/promote", s.handlePromoteLead)
		r.Post("/leads/{host}/reset", s.handleResetLead)
		r.Post("/leads/{host}/touch", s.handleTouchLead)
	})

	s.router = r
}
