// Package server exposes the queue over HTTP: the JSON API the desk UI and
// CLI drive, the session login flow, the token-gated TV view, and the two
// embedded pages.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"

	"barberq/internal/config"
	"barberq/internal/logging"
	"barberq/internal/queue"
	"barberq/internal/settings"
	"barberq/internal/storage"
	"barberq/internal/users"
)

// Server wires the stores to the HTTP surface.
type Server struct {
	cfg      *config.Config
	logger   *slog.Logger
	db       *storage.DB
	queue    *queue.Store
	settings *settings.Store
	users    *users.Store

	sessions *sessionManager
	logins   *ipRateLimiter

	listener net.Listener
	server   *http.Server
}

// New builds the server and its router.
func New(cfg *config.Config, db *storage.DB, logger *slog.Logger) (*Server, error) {
	if cfg == nil || db == nil {
		return nil, errors.New("server: config and database are required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.WithComponent(logger, "server")

	srv := &Server{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		queue:    queue.NewStore(db),
		settings: settings.NewStore(db),
		users:    users.NewStore(db),
		sessions: newSessionManager(cfg.Server.SessionSecret, time.Duration(cfg.Server.SessionTTLHours)*time.Hour),
		logins:   newIPRateLimiter(cfg.Server.LoginRatePerMin),
	}

	srv.server = &http.Server{
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

// Handler returns the full middleware-wrapped HTTP handler. Exposed for
// httptest-based tests.
func (s *Server) Handler() http.Handler {
	router := httprouter.New()

	router.HandlerFunc(http.MethodPost, "/api/login", s.handleLogin)
	router.HandlerFunc(http.MethodPost, "/api/logout", s.handleLogout)
	router.HandlerFunc(http.MethodGet, "/api/session", s.handleSession)

	router.HandlerFunc(http.MethodGet, "/api/barbers", s.handleQueueList)
	router.HandlerFunc(http.MethodPost, "/api/barbers/status", s.handleStatusChange)
	router.HandlerFunc(http.MethodPost, "/api/barbers/cycle", s.handleCycle)
	router.HandlerFunc(http.MethodPost, "/api/barbers/order", s.handleReorder)
	router.HandlerFunc(http.MethodPost, "/api/barbers", s.handleBarberCreate)
	router.PUT("/api/barbers/:id", s.handleBarberUpdate)
	router.DELETE("/api/barbers/:id", s.handleBarberDelete)

	router.HandlerFunc(http.MethodGet, "/api/settings", s.handleSettingsGet)
	router.HandlerFunc(http.MethodPut, "/api/settings", s.handleSettingsUpdate)
	router.HandlerFunc(http.MethodPost, "/api/settings/tv-token", s.handleTVTokenRotate)

	router.HandlerFunc(http.MethodGet, "/api/users", s.handleUserList)
	router.HandlerFunc(http.MethodPost, "/api/users", s.handleUserCreate)
	router.PUT("/api/users/:id", s.handleUserUpdate)
	router.DELETE("/api/users/:id", s.handleUserDelete)

	router.HandlerFunc(http.MethodGet, "/healthz", s.handleHealth)
	router.HandlerFunc(http.MethodGet, "/", s.handleQueuePage)
	router.HandlerFunc(http.MethodGet, "/tv", s.handleTVPage)

	return s.corsWrapper().Handler(router)
}

func (s *Server) corsWrapper() *cors.Cors {
	origins := s.cfg.Server.CORSOrigins
	if len(origins) == 0 {
		return cors.New(cors.Options{
			AllowOriginFunc:  func(origin string) bool { return false },
			AllowCredentials: true,
		})
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	bind := strings.TrimSpace(s.cfg.Server.Bind)
	listener, err := net.Listen("tcp", bind)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", bind, err)
	}
	s.listener = listener
	s.logger.Info("listening", logging.String("address", listener.Addr().String()))

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return <-errCh
	case err := <-errCh:
		return err
	}
}

// Addr reports the bound listener address once Run has started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}
