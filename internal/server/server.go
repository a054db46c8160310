// Package server is the HTTP surface of flickergrid: layout generation and
// previews, the session store, and run submission for the stimulus display.
//
// Routes mirror the browser front end's requests:
//
//	GET  /                       build info and route list
//	POST /generate               display options -> design text
//	POST /preview.svg            display options + designText -> SVG
//	POST /preview.png            display options + designText -> PNG
//	GET  /cues                   cue options for ?designText=
//	GET  /getAll                 saved session names
//	GET  /getByName, /getName    {"content": text} for ?name=
//	POST /commit                 save name + designText
//	POST /go                     submit a run
//	GET  /checkoutDisplayStatus  display status, polled once a second
package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/klauspost/compress/gzhttp"

	"github.com/flickergrid/flickergrid/pkg/display"
	"github.com/flickergrid/flickergrid/pkg/pipeline"
	"github.com/flickergrid/flickergrid/pkg/run"
	"github.com/flickergrid/flickergrid/pkg/session"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = "127.0.0.1:23333"

const shutdownTimeout = 5 * time.Second

// Server serves the HTTP routes. It holds no request state; the runner,
// store and queue it wraps are safe for concurrent use.
type Server struct {
	runner   *pipeline.Runner
	sessions session.Store
	queue    *run.Queue
	base     pipeline.Options
	logger   *log.Logger
	gzip     bool
}

// Option configures a [Server].
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithBaseOptions sets the pipeline options that form values are applied
// over: display defaults, seed, preview height.
func WithBaseOptions(o pipeline.Options) Option {
	return func(s *Server) { s.base = o }
}

// WithGzip compresses responses for clients that accept it.
func WithGzip(enabled bool) Option {
	return func(s *Server) { s.gzip = enabled }
}

// New creates a server. A nil runner gets an uncached one.
func New(runner *pipeline.Runner, sessions session.Store, queue *run.Queue, opts ...Option) *Server {
	s := &Server{
		runner:   runner,
		sessions: sessions,
		queue:    queue,
		base:     pipeline.Options{Display: display.Defaults()},
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, o := range opts {
		o(s)
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	s.base.SetRenderDefaults()
	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)

	r.Post("/generate", s.handleGenerate)
	r.Post("/preview.svg", s.handlePreview(pipeline.FormatSVG, "image/svg+xml"))
	r.Post("/preview.png", s.handlePreview(pipeline.FormatPNG, "image/png"))
	r.Get("/cues", s.handleCues)

	r.Get("/getAll", s.handleListSessions)
	r.Get("/getByName", s.handleGetSession)
	r.Get("/getName", s.handleGetSession)
	r.Post("/commit", s.handleCommit)

	r.Post(run.SubmitPath, s.handleSubmit)
	r.Get(run.StatusPath, s.handleStatus)

	if s.gzip {
		return gzhttp.GzipHandler(r)
	}
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
