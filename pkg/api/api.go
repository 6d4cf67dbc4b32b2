// Package api exposes the visualization pipeline over HTTP.
//
// The server wraps a pipeline.Runner and an optional editable dataset store.
// All responses are JSON except the artifact endpoints, which stream the
// rendered bytes with their native content type.
//
// # Endpoints
//
//	GET    /healthz                              liveness probe
//	GET    /v1/modes                             registered layout modes
//	GET    /v1/datasets                          categories with entity counts
//	GET    /v1/datasets/{category}               entities of a category
//	POST   /v1/datasets/{category}               add a record (editable store only)
//	PUT    /v1/datasets/{category}/{name}        replace a record
//	DELETE /v1/datasets/{category}/{name}        remove a record
//	POST   /v1/datasets/{category}/reset         restore shipped defaults
//	POST   /v1/layouts                           run the pipeline, return the layout
//	GET    /v1/artifacts/{category}/{mode}.png   rendered PNG
//	GET    /v1/artifacts/{category}/{mode}.svg   rendered SVG via Graphviz
package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/chemdeck/chemdeck/pkg/dataset"
	"github.com/chemdeck/chemdeck/pkg/pipeline"
)

// Server serves the HTTP API.
type Server struct {
	runner *pipeline.Runner
	store  dataset.Store // nil for read-only deployments
	logger *log.Logger
	router chi.Router
}

// NewServer builds a server around a runner. The store may be nil, which
// disables the editing endpoints.
func NewServer(runner *pipeline.Runner, store dataset.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner: runner,
		store:  store,
		logger: logger,
	}
	s.router = s.buildRouter()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/modes", s.handleModes)

		r.Route("/datasets", func(r chi.Router) {
			r.Get("/", s.handleListDatasets)
			r.Get("/{category}", s.handleGetDataset)
			r.Post("/{category}", s.handleAddRecord)
			r.Put("/{category}/{name}", s.handleUpdateRecord)
			r.Delete("/{category}/{name}", s.handleRemoveRecord)
			r.Post("/{category}/reset", s.handleResetDataset)
		})

		r.Post("/layouts", s.handleComputeLayout)
		r.Get("/artifacts/{category}/{artifact}", s.handleArtifact)
	})

	return r
}

// logRequests emits one structured line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
