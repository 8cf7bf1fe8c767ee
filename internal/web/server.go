// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sendlater Contributors

// Package web provides the sendlater HTTP API: sign-up, login, logout, and
// the session-gated email scheduling endpoints.
package web

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/samber/oops"

	"github.com/sendlater/sendlater/internal/auth"
	"github.com/sendlater/sendlater/internal/mail"
	"github.com/sendlater/sendlater/internal/observability"
)

// Server serves the sendlater HTTP API.
type Server struct {
	addr       string
	auth       *auth.Service
	mail       *mail.Service
	logger     *slog.Logger
	metrics    *observability.Metrics
	listener   net.Listener
	httpServer *http.Server
	running    atomic.Bool
}

// NewServer creates a new API server. metrics may be nil to disable
// instrumentation.
func NewServer(addr string, authSvc *auth.Service, mailSvc *mail.Service, logger *slog.Logger, metrics *observability.Metrics) (*Server, error) {
	if addr == "" {
		return nil, oops.Errorf("listen address is required")
	}
	if authSvc == nil {
		return nil, oops.Errorf("auth service is required")
	}
	if mailSvc == nil {
		return nil, oops.Errorf("mail service is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		addr:    addr,
		auth:    authSvc,
		mail:    mailSvc,
		logger:  logger,
		metrics: metrics,
	}, nil
}

// Handler builds the route table. Exposed for httptest-based tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Public endpoints
	mux.HandleFunc("POST /sign_up", s.handleSignUp)
	mux.HandleFunc("POST /login", s.handleLogin)

	// Logout needs only the raw cookie, not a valid session
	mux.HandleFunc("DELETE /logout", s.handleLogout)

	// Session-gated endpoints
	mux.Handle("GET /auto_login", s.requireSession(http.HandlerFunc(s.handleAutoLogin)))
	mux.Handle("GET /emails", s.requireSession(http.HandlerFunc(s.handleListEmails)))
	mux.Handle("POST /emails", s.requireSession(http.HandlerFunc(s.handleCreateEmail)))

	return s.instrument(mux)
}

// Start begins serving the API.
// It returns an error channel that will receive any errors from the HTTP
// server after it starts. The channel is closed when the server stops
// gracefully.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Errorf("api server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	httpSrv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)

	go func() {
		defer close(errCh)
		// Use local httpSrv to avoid race with subsequent Start() calls
		if serveErr := httpSrv.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			s.logger.Error("api server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	s.logger.Info("api server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop gracefully shuts down the API server.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			// Restore running state on failure so the server can be stopped again
			s.running.Store(true)
			return oops.With("operation", "shutdown_api_server").Wrap(err)
		}
	}

	s.logger.Info("api server stopped")
	return nil
}

// Addr returns the address the server is listening on.
// Returns empty string if not running.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}
