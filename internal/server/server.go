// Package server exposes a live layout over HTTP.
//
// The server never runs the solver on a request goroutine. A scheduler
// driven by its own Run loop publishes frames, and handlers only read the
// latest one, so a slow client can't stall the layout and a long batch
// can't stall a request.
//
// Routes:
//
//	GET  /healthz              liveness and session ids
//	GET  /api/v1/snapshot      latest frame as JSON
//	GET  /api/v1/snapshot.svg  latest frame rendered as SVG
//	POST /api/v1/reseed        restart from random positions
//	GET  /metrics              Prometheus metrics
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/forcegraph/internal/metrics"
	"github.com/matzehuels/forcegraph/pkg/render"
	"github.com/matzehuels/forcegraph/pkg/scheduler"
)

// Server limits.
const (
	DefaultAddr       = ":8080"
	maxBodySize       = 1 << 20
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Options configures a Server.
type Options struct {
	// Addr is the listen address (default DefaultAddr).
	Addr string
	// Render styles the SVG endpoint.
	Render render.Options
	// Logger receives request logs. Nil uses log.Default().
	Logger *log.Logger
}

// Server serves the frames published by a scheduler.
type Server struct {
	id     string
	sched  *scheduler.Scheduler
	opts   Options
	logger *log.Logger
	router chi.Router
}

// New creates a server for sched. The caller keeps driving sched (usually
// with sched.Run) and closes it after the server stops.
func New(sched *scheduler.Scheduler, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Render == (render.Options{}) {
		opts.Render = render.DefaultOptions()
	}
	s := &Server{
		id:     uuid.NewString(),
		sched:  sched,
		opts:   opts,
		logger: opts.Logger,
	}
	s.router = s.routes()
	return s
}

// ID returns the server's session id.
func (s *Server) ID() string { return s.id }

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)
	r.Use(maxBytes(maxBodySize))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/snapshot", s.handleSnapshot)
		r.Get("/snapshot.svg", s.handleSnapshotSVG)
		r.Post("/reseed", s.handleReseed)
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	return r
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving layout", "addr", s.opts.Addr, "session", s.id)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped", "session", s.id)
	return nil
}
