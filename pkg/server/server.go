// Package server exposes the pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz      liveness and build version
//	POST /v1/resolve   diagram JSON in, computed diagram JSON out
//	POST /v1/render    diagram JSON in, one rendered format out (?format=svg)
//
// Resolve options come from query parameters (node_radius, view_padding,
// refresh) and render options from format, embed_font, outlines and
// detailed. A diagram that fails to resolve is still answered with its
// computed document; only the status code changes.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/celldraw/pkg/pipeline"
)

// Server handles API requests with a shared pipeline runner.
type Server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	base    pipeline.Options
	maxBody int64
	timeout time.Duration
}

// Option configures a Server.
type Option func(*Server)

func WithLogger(l *log.Logger) Option           { return func(s *Server) { s.logger = l } }
func WithBaseOptions(o pipeline.Options) Option { return func(s *Server) { s.base = o } }
func WithMaxBodyBytes(n int64) Option           { return func(s *Server) { s.maxBody = n } }
func WithTimeout(d time.Duration) Option        { return func(s *Server) { s.timeout = d } }

// New creates a server backed by runner.
func New(runner *pipeline.Runner, opts ...Option) *Server {
	s := &Server{
		runner:  runner,
		logger:  runner.Logger,
		maxBody: pipeline.MaxInputSize,
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	if s.timeout > 0 {
		r.Use(middleware.Timeout(s.timeout))
	}

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/resolve", s.handleResolve)
		r.Post("/render", s.handleRender)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
