// Package server exposes the catalog over HTTP: the HTML page, the JSON API,
// the comparison gateway, health and metrics.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dbmrq/techcat/internal/catalog"
	"github.com/dbmrq/techcat/internal/compare"
	"github.com/dbmrq/techcat/internal/config"
	"github.com/dbmrq/techcat/internal/logging"
	"github.com/dbmrq/techcat/internal/metrics"
	"github.com/dbmrq/techcat/internal/web"
)

// Options holds the dependencies of a Server.
type Options struct {
	Config config.ServerConfig

	// Catalog may be nil when the dataset failed to load. CatalogErr then
	// says why, and the page renders it as a banner.
	Catalog    *catalog.Catalog
	CatalogErr error
	Reference  *catalog.Reference

	// Comparator answers both POST /api/compare and the HTML form.
	Comparator compare.Comparator
	Metrics    *metrics.Metrics
	Logger     *logging.Logger
}

// Server serves the catalog. Handlers share only read-only state, so one
// Server handles requests concurrently.
type Server struct {
	cfg        config.ServerConfig
	catalog    *catalog.Catalog
	catalogErr error
	reference  *catalog.Reference
	comparator compare.Comparator
	metrics    *metrics.Metrics
	logger     *logging.Logger
	renderer   *web.Renderer

	handler http.Handler
}

// New validates opts and builds the routing table.
func New(opts Options) (*Server, error) {
	if opts.Comparator == nil {
		return nil, errors.New("server: comparator is required")
	}
	if opts.Catalog == nil && opts.CatalogErr == nil {
		return nil, errors.New("server: catalog or catalog error is required")
	}

	ref := opts.Reference
	if ref == nil {
		var err error
		if ref, err = catalog.DefaultReference(); err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("server: parse templates: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Global()
	}

	s := &Server{
		cfg:        opts.Config,
		catalog:    opts.Catalog,
		catalogErr: opts.CatalogErr,
		reference:  ref,
		comparator: opts.Comparator,
		metrics:    opts.Metrics,
		logger:     logger,
		renderer:   renderer,
	}
	if s.catalog != nil {
		s.metrics.SetCatalogSize(s.catalog.Len())
	}

	s.handler = s.withRequestID(s.withCORS(s.withAccessLog(s.routes())))
	return s, nil
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /compare", s.handleCompareForm)
	mux.Handle("GET /static/", http.StripPrefix("/static/", web.Static()))
	mux.HandleFunc("GET /data.json", s.handleRawData)

	mux.HandleFunc("GET /api/technologies", s.handleTechnologies)
	mux.HandleFunc("GET /api/technologies/{name}", s.handleTechnology)
	mux.HandleFunc("GET /api/technologies/{name}/curve", s.handleCurve)
	mux.HandleFunc("GET /api/suggestions", s.handleSuggestions)
	mux.HandleFunc("GET /api/timeline", s.handleTimeline)
	mux.HandleFunc("GET /api/execution-types", s.handleExecutionTypes)
	mux.HandleFunc("GET /api/levels", s.handleLevels)
	mux.HandleFunc("POST /api/compare", s.handleCompare)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler())

	return mux
}

// Handler returns the fully wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe listens on the configured address and serves until ctx
// is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled, then shuts down
// gracefully within the configured shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
		IdleTimeout:       s.cfg.IdleTimeout,
		ErrorLog:          s.logger.StdLogger(logging.LevelWarn),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		timeout := s.cfg.ShutdownTimeout
		if timeout <= 0 {
			timeout = config.DefaultShutdownTimeout
		}
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()

		s.logger.Info("server shutting down", "timeout", timeout)
		start := time.Now()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		s.logger.Info("server stopped", "took", time.Since(start))
		return nil
	})
	return g.Wait()
}
