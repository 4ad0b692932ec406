// Package server exposes the pipeline over HTTP.
//
// # Routes
//
//	POST /v1/render   BOX document in, drawing out (?format=svg|json|png|pdf|dot)
//	POST /v1/layout   BOX document in, solved layout as JSON
//	GET  /healthz     liveness
//	GET  /version     build information
//
// Render and layout accept these query parameters: viz (tower, nodelink),
// style, seed, jitter, height_policy and transitive. Failures are JSON
// objects with an error code from [github.com/matzehuels/boxtower/pkg/errors].
//
// Every response carries an X-Request-ID header. A client-supplied id is
// kept, otherwise a UUID is generated.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/boxtower/pkg/pipeline"
)

// DefaultRequestTimeout bounds a single request, solving included.
const DefaultRequestTimeout = 2 * time.Minute

// Option configures a [Server].
type Option func(*Server)

// WithRequestTimeout bounds every request. The solver's own time limit is
// lowered to fit inside it.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.requestTimeout = d
		}
	}
}

// WithDefaults sets the pipeline options that query parameters start from,
// typically built from the configuration file.
func WithDefaults(opts pipeline.Options) Option {
	return func(s *Server) { s.defaults = opts }
}

// Server routes HTTP requests to a [pipeline.Runner].
type Server struct {
	runner         *pipeline.Runner
	logger         *log.Logger
	defaults       pipeline.Options
	requestTimeout time.Duration
	router         chi.Router
}

// New creates a Server. A nil logger discards output.
func New(runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	s := &Server{
		runner:         runner,
		logger:         logger,
		requestTimeout: DefaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.buildRouter()
	return s
}

// ServeHTTP delegates to the chi router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)

	r.Route("/v1", func(r chi.Router) {
		r.Use(s.timeout)
		r.Post("/render", s.handleRender)
		r.Post("/layout", s.handleLayout)
	})
	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      s.requestTimeout + 30*time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
