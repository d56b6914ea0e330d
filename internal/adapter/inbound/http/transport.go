package http

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/s2t-dev/s2t-mcp/internal/domain/session"
)

// shutdownTimeout is the hard deadline for draining in-flight requests.
// Exceeding it is reported as an error so the process can exit non-zero.
const shutdownTimeout = 10 * time.Second

// EngineFactory builds a protocol engine for a new session. Engines are
// cheap; every session (streaming or legacy) gets its own.
type EngineFactory func() session.Handler

// Transport is the inbound HTTP adapter. It serves both the Streamable HTTP
// binding and the legacy SSE binding, plus /health and /metrics.
type Transport struct {
	engineFactory  EngineFactory
	server         *http.Server
	addr           string
	allowedOrigins []string
	certFile       string
	keyFile        string
	version        string
	logger         *slog.Logger

	store    *session.Store
	legacy   *session.LegacyStore
	streams  *streamRegistry
	registry *prometheus.Registry
	metrics  *Metrics
}

// Option is a functional option for configuring Transport.
type Option func(*Transport)

// WithAddr sets the listen address. Default "127.0.0.1:3001".
func WithAddr(addr string) Option {
	return func(t *Transport) {
		t.addr = addr
	}
}

// WithAllowedOrigins sets the Origin allow-list. Entries are exact origins
// or "*.domain" wildcards; an empty list admits everything.
func WithAllowedOrigins(origins []string) Option {
	return func(t *Transport) {
		t.allowedOrigins = origins
	}
}

// WithTLS enables TLS with the provided certificate and key files.
func WithTLS(certFile, keyFile string) Option {
	return func(t *Transport) {
		t.certFile = certFile
		t.keyFile = keyFile
	}
}

// WithLogger sets the transport logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Transport) {
		t.logger = logger
	}
}

// WithVersion sets the version string reported by /health.
func WithVersion(version string) Option {
	return func(t *Transport) {
		t.version = version
	}
}

// New creates an HTTP transport. Sessions are created lazily as clients
// connect; the factory is invoked once per session.
func New(engineFactory EngineFactory, opts ...Option) *Transport {
	reg := prometheus.NewRegistry()
	t := &Transport{
		engineFactory: engineFactory,
		addr:          "127.0.0.1:3001",
		logger:        slog.Default(),
		store:         session.NewStore(),
		legacy:        session.NewLegacyStore(),
		streams:       newStreamRegistry(),
		registry:      reg,
		metrics:       NewMetrics(reg),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Sessions exposes the streaming session store, primarily for tests and the
// health endpoint.
func (t *Transport) Sessions() *session.Store {
	return t.store
}

// Start begins serving and blocks until the context is cancelled or the
// listener fails. Cancellation triggers the graceful shutdown sweep; its
// error return distinguishes a clean drain from a missed deadline.
func (t *Transport) Start(ctx context.Context) error {
	t.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Origin enforcement runs before any session logic.
	chain := func(h http.Handler) http.Handler {
		h = OriginCheck(t.allowedOrigins)(h)
		h = RequestIDMiddleware(t.logger)(h)
		h = MetricsMiddleware(t.metrics)(h)
		return h
	}

	mux := http.NewServeMux()
	mux.Handle("/mcp", chain(t.mcpHandler()))
	mux.Handle("/sse", chain(t.sseHandler()))
	mux.Handle("/messages", chain(t.messagesHandler()))
	mux.Handle("/health", NewHealthChecker(t.store, t.legacy, t.version).Handler())
	mux.Handle("/metrics", promhttp.HandlerFor(t.registry, promhttp.HandlerOpts{Registry: t.registry}))
	mux.Handle("/favicon.ico", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	t.server = &http.Server{
		Addr:    t.addr,
		Handler: mux,
	}
	if t.certFile != "" && t.keyFile != "" {
		t.server.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	errCh := make(chan error, 1)
	go func() {
		var err error
		if t.certFile != "" && t.keyFile != "" {
			t.logger.Info("starting HTTPS server", "addr", t.addr)
			err = t.server.ListenAndServeTLS(t.certFile, t.keyFile)
		} else {
			t.logger.Info("starting HTTP server", "addr", t.addr)
			err = t.server.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		t.logger.Info("shutdown signal received")
		return t.shutdown()
	case err := <-errCh:
		return err
	}
}

// shutdown runs the graceful teardown sweep: close every streaming session
// (collecting errors without aborting), clear both stores, then drain the
// listener under the shutdown deadline.
func (t *Transport) shutdown() error {
	for _, err := range t.store.CloseAll() {
		t.logger.Warn("session close during shutdown", "error", err)
	}
	t.streams.closeAll()
	t.legacy.Clear()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := t.server.Shutdown(ctx); err != nil {
		t.logger.Error("shutdown deadline exceeded", "error", err)
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	t.logger.Info("HTTP server shutdown complete")
	return nil
}

// Close shuts the transport down outside of Start's lifecycle, for callers
// that manage the listener directly.
func (t *Transport) Close() error {
	if t.server == nil {
		return nil
	}
	return t.shutdown()
}
