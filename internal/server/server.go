package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
)

// Server wraps an *http.Server to provide start/shutdown lifecycle.
type Server struct {
	httpServer *http.Server
}

// Options tunes the HTTP server. Zero fields fall back to the defaults below.
type Options struct {
	Port              string
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
}

const (
	defaultPort              = "8080"
	maxHeaderBytes           = 1 << 20 // 1 MB
	defaultReadHeaderTimeout = 10 * time.Second
	// A manual refresh runs a whole poll cycle before responding.
	defaultWriteTimeout = 90 * time.Second
	defaultIdleTimeout  = 60 * time.Second
)

func (o Options) withDefaults() Options {
	if o.Port == "" {
		o.Port = defaultPort
	}
	if o.ReadHeaderTimeout <= 0 {
		o.ReadHeaderTimeout = defaultReadHeaderTimeout
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = defaultWriteTimeout
	}
	if o.IdleTimeout <= 0 {
		o.IdleTimeout = defaultIdleTimeout
	}
	return o
}

// newHTTPServer builds a configured *http.Server for the given options and handler.
func newHTTPServer(o Options, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              normalizeAddr(o.Port),
		Handler:           handler,
		MaxHeaderBytes:    maxHeaderBytes,
		ReadHeaderTimeout: o.ReadHeaderTimeout,
		WriteTimeout:      o.WriteTimeout,
		IdleTimeout:       o.IdleTimeout,
	}
}

// normalizeAddr accepts "8080", ":8080" or "127.0.0.1:8080".
func normalizeAddr(port string) string {
	if port == "" || strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}

// Run starts the HTTP server and blocks until it stops.
// A graceful Shutdown is not reported as an error.
func (s *Server) Run(o Options, handler http.Handler) error {
	s.httpServer = newHTTPServer(o.withDefaults(), handler)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server, allowing in-flight requests to complete.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
