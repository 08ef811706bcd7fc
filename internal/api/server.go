// Package api provides the HTTP server: the rendered search and results views,
// their static assets and the JSON API under /api/v1.
package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/steamsearcher/steamsearcher-web/internal/domain"
	"github.com/steamsearcher/steamsearcher-web/internal/logger"
	"github.com/steamsearcher/steamsearcher-web/internal/ratelimit"
	"github.com/steamsearcher/steamsearcher-web/internal/results"
	"github.com/steamsearcher/steamsearcher-web/internal/validation"
)

// FilterLoader loads the selectable genres and categories.
type FilterLoader interface {
	Load(ctx context.Context) domain.FilterOptions
}

// Deps holds the collaborators the server needs.
type Deps struct {
	Filters     FilterLoader
	Results     *results.Service
	Pages       *Renderer
	Limiter     *ratelimit.KeyedRateLimiter
	Validator   *validation.Validator
	CORSOrigins []string
	Logger      *logger.Logger
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	filters     FilterLoader
	results     *results.Service
	pages       *Renderer
	limiter     *ratelimit.KeyedRateLimiter
	validator   *validation.Validator
	corsOrigins []string
	router      *chi.Mux
	api         huma.API
	logger      *logger.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(deps Deps) *Server {
	s := &Server{
		filters:     deps.Filters,
		results:     deps.Results,
		pages:       deps.Pages,
		limiter:     deps.Limiter,
		validator:   deps.Validator,
		corsOrigins: deps.CORSOrigins,
		router:      chi.NewRouter(),
		logger:      deps.Logger,
	}
	if s.validator == nil {
		s.validator = validation.New()
	}
	if len(s.corsOrigins) == 0 {
		s.corsOrigins = []string{"*"}
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API returns the huma API backing /api/v1.
func (s *Server) API() huma.API {
	return s.api
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.logger.Middleware)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealthCheck)
	s.router.Handle("/static/*", http.StripPrefix("/static/", staticHandler()))

	// Views.
	s.router.Group(func(r chi.Router) {
		r.Use(s.clientID)

		r.Get("/", s.handleSearchPage)
		r.Post("/", s.handleSearchSubmit)
		r.Get("/results", s.handleResultsPage)
		r.With(s.rateLimit(s.rejectGrid)).Get("/results/grid", s.handleResultsGrid)
	})

	// JSON API and OpenAPI document.
	s.router.Group(func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.corsOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
		r.Use(s.clientID)
		r.Use(s.rateLimit(s.rejectJSON))

		RegisterErrorHandler()

		config := huma.DefaultConfig("SteamSearcher Web API", "1.0.0")
		config.Info.Description = "Game search front-end API"
		s.api = humachi.New(r, config)

		s.registerFilterRoutes()
		s.registerResultsRoutes()
	})
}
