// Package server exposes an engine context over HTTP.
//
// Routes:
//
//	GET  /healthz       liveness probe
//	GET  /metrics       Prometheus exposition
//	GET  /v1/actions    action catalogue
//	POST /v1/validate   validate the served mapping, or the YAML mapping in the body
//	POST /v1/process    run one session: {sources, properties} -> {targets, audits}
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fieldmap/internal/engine"
	"fieldmap/internal/logging"
)

// maxBodySize caps request bodies.
const maxBodySize = 10 << 20

// Server serves one engine context. Every request gets its own session.
type Server struct {
	ctx      *engine.Context
	logger   *slog.Logger
	gatherer prometheus.Gatherer
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithGatherer sets the registry served on /metrics. The default is the
// global Prometheus registry.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		if g != nil {
			s.gatherer = g
		}
	}
}

// New returns a Server for ctx.
func New(ctx *engine.Context, opts ...Option) *Server {
	s := &Server{
		ctx:      ctx,
		logger:   logging.NewNop(),
		gatherer: prometheus.DefaultGatherer,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/actions", s.actions)
		r.Post("/validate", s.validate)
		r.Post("/process", s.process)
	})

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Debug("request served",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", middleware.GetReqID(r.Context()),
			"elapsed", time.Since(start),
		)
	})
}
