// Package httpserver wires the preview server: static output, health,
// metrics and the JSON API behind one middleware chain.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	derrors "github.com/mmonline245-max/unitstool/internal/foundation/errors"
	"github.com/mmonline245-max/unitstool/internal/logfields"
	"github.com/mmonline245-max/unitstool/internal/metrics"
	handlers "github.com/mmonline245-max/unitstool/internal/server/handlers"
	smw "github.com/mmonline245-max/unitstool/internal/server/middleware"
)

// Options configures the preview server.
type Options struct {
	// Addr is the listen address, e.g. ":8080". ":0" picks a free port.
	Addr      string
	OutputDir string
	Site      handlers.SiteSource
	// History is optional; /api/builds answers 404 without it.
	History handlers.HistorySource
	// Registry is optional; /metrics is not mounted without it.
	Registry *prom.Registry
	Logger   *slog.Logger
}

// Server serves the generated site and the preview API.
type Server struct {
	opts    Options
	handler http.Handler
	srv     *http.Server
	addr    net.Addr
	logger  *slog.Logger
}

// New constructs the server and its routes. It does not listen yet.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{opts: opts, logger: logger}

	adapter := derrors.NewHTTPErrorAdapter(logger)
	monitoring := handlers.NewMonitoringHandlers(opts.Site, time.Now())
	api := handlers.NewAPIHandlers(opts.Site, opts.History)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", monitoring.HandleHealthCheck)
	mux.HandleFunc("/api/tools", api.HandleTools)
	mux.HandleFunc("/api/calculate", api.HandleCalculate)
	mux.HandleFunc("/api/builds", api.HandleBuilds)
	if opts.Registry != nil {
		mux.Handle("/metrics", metrics.HTTPHandler(opts.Registry))
	}
	mux.Handle("/", smw.NoCache(http.FileServer(http.Dir(opts.OutputDir))))

	s.handler = smw.Chain(logger, adapter)(mux)
	return s
}

// Handler returns the fully wrapped handler.
func (s *Server) Handler() http.Handler { return s.handler }

// Start binds the listener and serves in the background. Bind errors are
// returned synchronously.
func (s *Server) Start(ctx context.Context) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.opts.Addr)
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryRuntime, "failed to bind preview server").
			WithContext("addr", s.opts.Addr).
			Build()
	}
	s.addr = ln.Addr()
	s.srv = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("preview server error", logfields.Error(err))
		}
	}()
	s.logger.InfoContext(ctx, "Preview server listening", slog.String("url", s.URL()))
	return nil
}

// Addr is the bound address, or nil before Start.
func (s *Server) Addr() net.Addr { return s.addr }

// URL is the browsable base URL of a started server.
func (s *Server) URL() string {
	if s.addr == nil {
		return ""
	}
	if tcp, ok := s.addr.(*net.TCPAddr); ok && (tcp.IP == nil || tcp.IP.IsUnspecified()) {
		return fmt.Sprintf("http://localhost:%d", tcp.Port)
	}
	return "http://" + s.addr.String()
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("preview server shutdown: %w", err)
	}
	s.logger.Info("Preview server stopped")
	return nil
}
