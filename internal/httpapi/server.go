// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ProjectTasks Contributors

// Package httpapi exposes the authentication and tracker services over HTTP.
//
// All /projects routes require a bearer token; the identity it resolves to is
// passed explicitly to every service call. Authentication failures are
// rejected before any resource lookup happens.
package httpapi

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gobwas/glob"
	"github.com/labstack/echo/v4"
	"github.com/samber/oops"

	"github.com/projecttasks/projecttasks/internal/auth"
	"github.com/projecttasks/projecttasks/internal/observability"
	"github.com/projecttasks/projecttasks/internal/tracker"
)

// Server serves the public HTTP API.
type Server struct {
	addr       string
	echo       *echo.Echo
	listener   net.Listener
	httpServer *http.Server
	running    atomic.Bool

	auth    *auth.Service
	tracker *tracker.Service
	metrics *observability.Metrics
	origins []glob.Glob
	logger  *slog.Logger
}

// NewServer creates the API server. metrics may be nil, in which case no
// metrics are recorded. allowedOrigins are glob patterns for CORS origin
// matching; an empty list disables cross-origin requests.
func NewServer(addr string, authSvc *auth.Service, trackerSvc *tracker.Service, metrics *observability.Metrics, allowedOrigins []string, logger *slog.Logger) (*Server, error) {
	if authSvc == nil {
		return nil, oops.Errorf("auth service is required")
	}
	if trackerSvc == nil {
		return nil, oops.Errorf("tracker service is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	origins := make([]glob.Glob, 0, len(allowedOrigins))
	for _, pattern := range allowedOrigins {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, oops.Code("CONFIG_INVALID").
				With("pattern", pattern).
				Wrap(err)
		}
		origins = append(origins, g)
	}

	s := &Server{
		addr:    addr,
		auth:    authSvc,
		tracker: trackerSvc,
		metrics: metrics,
		origins: origins,
		logger:  logger,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(s.observe)
	e.Use(s.cors)

	e.POST("/auth/register", s.handleRegister)
	e.POST("/auth/login", s.handleLogin)

	projects := e.Group("/projects", s.authenticate)
	projects.GET("", s.handleListProjects)
	projects.POST("", s.handleCreateProject)
	projects.GET("/:projectId", s.handleGetProject)
	projects.PUT("/:projectId", s.handleUpdateProject)
	projects.DELETE("/:projectId", s.handleDeleteProject)
	projects.GET("/:projectId/tasks", s.handleListTasks)
	projects.POST("/:projectId/tasks", s.handleCreateTask)
	projects.GET("/:projectId/tasks/:taskId", s.handleGetTask)
	projects.PUT("/:projectId/tasks/:taskId", s.handleUpdateTask)
	projects.DELETE("/:projectId/tasks/:taskId", s.handleDeleteTask)

	s.echo = e
	return s, nil
}

// Handler returns the underlying HTTP handler. Used by tests.
func (s *Server) Handler() http.Handler {
	return s.echo
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
		Handler:           s.echo,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)

	go func() {
		defer close(errCh)
		if serveErr := httpSrv.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			slog.Error("api server error", "error", serveErr)
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
