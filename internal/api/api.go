// Package api implements the HTTP API for layout planning.
//
// The API exposes the same pipeline the CLI uses, plus project storage:
//
//	POST /v1/plan               run a placement for a site polygon
//	POST /v1/estimate           area-based module count estimate
//	GET  /v1/sunpath            hourly sun positions for a date
//	POST /v1/projects           create a project
//	GET  /v1/projects           list projects
//	GET  /v1/projects/{id}      fetch a project
//	DELETE /v1/projects/{id}    delete a project and its layouts
//	POST /v1/projects/{id}/layouts  run and persist a layout
//	GET  /v1/projects/{id}/layouts  list layouts for a project
//	GET  /healthz               liveness probe
//
// Errors are returned as JSON with a stable machine-readable code:
//
//	{"error": {"code": "INVALID_LATITUDE", "message": "..."}}
package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pvlab/sunrack/pkg/pipeline"
	"github.com/pvlab/sunrack/pkg/store"
)

// Server holds the API dependencies.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
}

// NewServer creates an API server. The store may be nil, in which case
// the project endpoints return 503.
func NewServer(runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, store: st, logger: logger}
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/plan", s.handlePlan)
		r.Post("/estimate", s.handleEstimate)
		r.Get("/sunpath", s.handleSunPath)

		r.Route("/projects", func(r chi.Router) {
			r.Post("/", s.handleCreateProject)
			r.Get("/", s.handleListProjects)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetProject)
				r.Delete("/", s.handleDeleteProject)
				r.Post("/layouts", s.handleRunLayout)
				r.Get("/layouts", s.handleListLayouts)
			})
		})
	})

	return r
}

// logRequests emits one structured log line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		next.ServeHTTP(ww, req)
		s.logger.Info("request",
			"method", req.Method,
			"path", req.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start))
	})
}
