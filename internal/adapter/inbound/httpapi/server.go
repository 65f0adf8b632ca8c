package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mozilla/triage-bot/internal/adapter/inbound/httpapi/middleware"
)

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port              int
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	ShutdownTimeout   time.Duration
	RequestsPerMinute int
	// SigningSecret enables Slack request signature verification on the
	// /slack/* endpoints when non-empty.
	SigningSecret string
}

// routeKey identifies one dispatchable endpoint.
type routeKey struct {
	method string
	path   string
}

// Server dispatches requests through an explicit route table and wraps the
// whole surface in recovery, logging, and rate-limit middleware.
type Server struct {
	cfg     ServerConfig
	handler *Handler
	logger  *slog.Logger
	routes  map[routeKey]http.Handler
	srv     *http.Server
}

// NewServer creates a Server around the given handler.
func NewServer(cfg ServerConfig, handler *Handler, logger *slog.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		handler: handler,
		logger:  logger,
	}
	s.routes = s.buildRoutes()
	return s
}

// buildRoutes lays out the full HTTP surface. Slack-facing POST endpoints
// get signature verification when a signing secret is configured.
func (s *Server) buildRoutes() map[routeKey]http.Handler {
	h := s.handler

	verify := middleware.SlackSignature(s.cfg.SigningSecret)

	return map[routeKey]http.Handler{
		{http.MethodGet, "/test"}:          http.HandlerFunc(h.handleTest),
		{http.MethodGet, "/error"}:         http.HandlerFunc(h.handleError),
		{http.MethodGet, "/authorize"}:     http.HandlerFunc(h.handleAuthorize),
		{http.MethodGet, "/redirect_uri"}:  http.HandlerFunc(h.handleRedirectURI),
		{http.MethodPost, "/alert"}:        http.HandlerFunc(h.handleAlert),
		{http.MethodPost, "/slack/interactive-endpoint"}:  verify(http.HandlerFunc(h.handleInteractive)),
		{http.MethodPost, "/slack/options-load-endpoint"}: verify(http.HandlerFunc(h.handleOptionsLoad)),
	}
}

// ServeHTTP looks the request up in the route table; anything unrouted gets
// the fixed 404 body.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if handler, ok := s.routes[routeKey{r.Method, r.URL.Path}]; ok {
		handler.ServeHTTP(w, r)
		return
	}
	writeText(w, http.StatusNotFound, "That path wasn't found")
}

// SetupRoutes applies the middleware stack (outermost first: recovery,
// body buffering, logging, security headers, rate limit) around the route
// table.
func (s *Server) SetupRoutes() http.Handler {
	var h http.Handler = s

	if s.cfg.RequestsPerMinute > 0 {
		h = middleware.NewRateLimiter(s.cfg.RequestsPerMinute)(h)
	}
	h = middleware.SecurityHeaders(h)
	h = middleware.NewLoggingMiddleware(s.logger)(h)
	h = middleware.BodyReader(h)
	h = middleware.Recovery(s.logger)(h)

	return h
}

// Start runs the HTTP server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.SetupRoutes(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api server listening", "port", s.cfg.Port)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownTimeout := s.cfg.ShutdownTimeout
		if shutdownTimeout <= 0 {
			shutdownTimeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("api server shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		return err
	}
}
