// Package server implements the treeflow HTTP API.
//
// Routes:
//
//	POST /api/v1/render    render the tree JSON in the request body
//	GET  /api/v1/render    render the tree at ?url= (default: the sample tree)
//	POST /api/v1/convert   convert the tree JSON in the body to a node-edge graph
//	GET  /healthz          liveness probe
//	GET  /metrics          Prometheus metrics
//
// Render accepts the query parameters format, select, hover, indent,
// row_height, drop_cap, direction, width, height, interactive and refresh.
// The ?url= host, and every redirect host, must be in Config.AllowedHosts.
package server

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/treeflow/pkg/pipeline"
	"github.com/matzehuels/treeflow/pkg/source"
)

// Default server settings.
const (
	DefaultAddr        = ":8080"
	DefaultTimeout     = 60 * time.Second
	DefaultMaxBodySize = 32 << 20
)

// Config holds server configuration.
type Config struct {
	Addr        string
	Timeout     time.Duration
	MaxBodySize int64

	// AllowedHosts lists the hosts GET /api/v1/render may fetch from, as
	// "host" or "host:port". "*" allows any host. Empty means only
	// source.DefaultHost.
	AllowedHosts []string

	// Defaults are the pipeline options requests start from (palette and
	// layout from the config file).
	Defaults pipeline.Options
}

// Server serves the render and convert API.
type Server struct {
	cfg        Config
	runner     *pipeline.Runner
	metrics    *Metrics
	logger     *log.Logger
	router     chi.Router
	httpServer *http.Server
	hosts      hostList
	client     *http.Client
}

// New creates a server. A nil metrics disables /metrics; a nil logger
// discards logs.
func New(cfg Config, runner *pipeline.Runner, metrics *Metrics, logger *log.Logger) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = DefaultMaxBodySize
	}
	if len(cfg.AllowedHosts) == 0 {
		cfg.AllowedHosts = []string{source.DefaultHost}
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	s := &Server{
		cfg:     cfg,
		runner:  runner,
		metrics: metrics,
		logger:  logger,
		hosts:   newHostList(cfg.AllowedHosts),
	}
	s.client = s.newFetchClient()
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.Timeout))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if s.metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/render", s.handleRenderBody)
		r.Get("/render", s.handleRenderURL)
		r.Post("/convert", s.handleConvert)
	})

	return r
}

// Handler returns the router.
func (s *Server) Handler() http.Handler { return s.router }

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.cfg.Timeout + 10*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return s.Shutdown(shutdownCtx)
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// logRequests logs each request and records it in the metrics.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		if s.metrics != nil {
			s.metrics.observeRequest(r.Method, route, status, time.Since(start))
		}
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Millisecond),
			"request_id", RequestID(r.Context()))
	})
}
