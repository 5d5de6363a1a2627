// Package server exposes the conversion pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz           liveness check
//	POST /v1/icon           JSON options with "markup"; returns the buffer
//	POST /v1/image          raw image body, options as query parameters
//	GET  /v1/stream/{id}    WebSocket that animates a converted buffer
//
// Every successful conversion is kept for a while as a stream session; its
// id is returned in the Location header. A stream first sends the buffer
// document as a text message, then one binary message per tick holding the
// live positions as little-endian float32 triples. Clients steer the field
// with JSON text messages, see Control.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/glyphdust/pkg/cache"
	"github.com/matzehuels/glyphdust/pkg/observability"
	"github.com/matzehuels/glyphdust/pkg/pipeline"
)

const (
	// DefaultFPS is the tick rate of streams.
	DefaultFPS = 30

	// DefaultSessionTTL is how long a conversion stays streamable.
	DefaultSessionTTL = 10 * time.Minute

	// DefaultMaxStream bounds the lifetime of one stream.
	DefaultMaxStream = 10 * time.Minute

	// shutdownTimeout bounds graceful shutdown.
	shutdownTimeout = 5 * time.Second

	// sweepInterval is how often expired in-process sessions are dropped.
	sweepInterval = time.Minute
)

// Config configures a Server. Zero values select the defaults.
type Config struct {
	// Sessions stores converted buffers for streaming. Defaults to an
	// in-process MemoryCache; a shared cache lets several instances serve
	// each other's sessions.
	Sessions cache.Cache

	FPS        int
	SessionTTL time.Duration
	MaxStream  time.Duration

	// CheckOrigin overrides the WebSocket origin check. By default
	// browsers must be same-origin.
	CheckOrigin func(r *http.Request) bool
}

// Server serves conversions and streams.
type Server struct {
	runner   *pipeline.Runner
	sessions cache.Cache
	logger   *log.Logger
	upgrader websocket.Upgrader

	fps        int
	sessionTTL time.Duration
	maxStream  time.Duration
}

// New creates a server around runner.
func New(runner *pipeline.Runner, cfg Config, logger *log.Logger) *Server {
	if cfg.Sessions == nil {
		cfg.Sessions = cache.NewMemoryCache()
	}
	if cfg.FPS <= 0 {
		cfg.FPS = DefaultFPS
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	if cfg.MaxStream <= 0 {
		cfg.MaxStream = DefaultMaxStream
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		runner:     runner,
		sessions:   cfg.Sessions,
		logger:     logger,
		upgrader:   websocket.Upgrader{CheckOrigin: cfg.CheckOrigin},
		fps:        cfg.FPS,
		sessionTTL: cfg.SessionTTL,
		maxStream:  cfg.MaxStream,
	}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/icon", s.handleIcon)
		r.Post("/image", s.handleImage)
		r.Get("/stream/{id}", s.handleStream)
	})
	return r
}

// observe logs each request and reports it to the server hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		dur := time.Since(start)
		observability.Server().OnRequest(r.Context(), r.Method, r.URL.Path, status, dur)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", dur,
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	if sw, ok := s.sessions.(sweeper); ok {
		go s.sweep(ctx, sw)
	}
	s.logger.Info("listening", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}

type sweeper interface{ Sweep() int }

// sweep drops expired sessions from an in-process store until ctx is done.
func (s *Server) sweep(ctx context.Context, sw sweeper) {
	t := time.NewTicker(sweepInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := sw.Sweep(); n > 0 {
				s.logger.Debug("swept sessions", "count", n)
			}
		}
	}
}
