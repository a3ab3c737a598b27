// Package server exposes the chart renderer over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vitormousinho/trabalho-cont/chart"
)

const (
	chartEndpoint          = "/api/chart-to-image"
	previewEndpoint        = "/api/chart-preview"
	healthEndpoint         = "/healthz"
	metricsEndpoint        = "/metrics"
	defaultMaxBodyBytes    = 1 << 20
	defaultShutdownTimeout = 10 * time.Second
)

// Options configures a Server.
type Options struct {
	// MaxBodyBytes caps request bodies. Zero means 1 MiB.
	MaxBodyBytes int64
	// Rasterizer enables png/jpg output. Nil serves SVG only.
	Rasterizer chart.Rasterizer
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// ShutdownTimeout bounds graceful shutdown. Zero means 10s.
	ShutdownTimeout time.Duration
}

// Server serves the chart endpoints.
type Server struct {
	opts     Options
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *metrics
	handler  http.Handler
}

func New(opts Options) *Server {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &Server{
		opts:     opts,
		logger:   logger,
		registry: registry,
		metrics:  newMetrics(registry),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST "+chartEndpoint, s.handleChartToImage)
	mux.HandleFunc("POST "+previewEndpoint, s.handleChartPreview)
	mux.HandleFunc("GET "+healthEndpoint, handleHealth)
	mux.Handle("GET "+metricsEndpoint, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	s.handler = loggingMiddleware(logger, s.metrics, mux)
	return s
}

// Handler returns the HTTP handler with logging and metrics applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Serve listens on listenAddr until ctx is cancelled or a termination
// signal arrives, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, listenAddr string) error {
	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener is Serve on an existing listener.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGHUP, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	serverErr := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server starting", "listen_addr", ln.Addr().String(), "chart_endpoint", chartEndpoint,
			"rasterize", s.opts.Rasterizer != nil)
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-sigChan:
		s.logger.Warn("Received signal, initiating graceful shutdown", "signal", sig)
		cancel()
	case <-ctx.Done():
		s.logger.Warn("Context cancelled, initiating graceful shutdown")
	case err := <-serverErr:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer shutdownCancel()

	s.logger.Info("Shutting down HTTP server gracefully")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server shutdown complete")
	return nil
}
