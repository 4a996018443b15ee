// Package server exposes studio sessions over HTTP: a JSON API for edits,
// history and export, a websocket per session that pushes model changes and
// carries preview messages, and an HTML console view.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/conneroisu/uistudio/internal/config"
	"github.com/conneroisu/uistudio/internal/logging"
	"github.com/conneroisu/uistudio/internal/studio"
)

// Server serves studio sessions.
type Server struct {
	config   *config.Config
	sessions *studio.Manager
	logger   logging.Logger
	started  time.Time

	httpServer  *http.Server
	serverMutex sync.RWMutex

	clients      map[*Client]struct{}
	clientsMutex sync.RWMutex

	shutdownOnce sync.Once
}

// New creates a server for sessions. A nil logger discards output.
func New(cfg *config.Config, sessions *studio.Manager, logger logging.Logger) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Server{
		config:   cfg,
		sessions: sessions,
		logger:   logger.WithComponent("server"),
		started:  time.Now(),
		clients:  make(map[*Client]struct{}),
	}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/templates", s.handleTemplates)
	mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /api/sessions/{id}", s.withSession(s.handleSnapshot))
	mux.HandleFunc("DELETE /api/sessions/{id}", s.handleCloseSession)
	mux.HandleFunc("POST /api/sessions/{id}/edits", s.withSession(s.handleEdit))
	mux.HandleFunc("PUT /api/sessions/{id}/text", s.withSession(s.handleText))
	mux.HandleFunc("POST /api/sessions/{id}/undo", s.withSession(s.handleUndo))
	mux.HandleFunc("POST /api/sessions/{id}/redo", s.withSession(s.handleRedo))
	mux.HandleFunc("POST /api/sessions/{id}/commit", s.withSession(s.handleCommit))
	mux.HandleFunc("POST /api/sessions/{id}/refresh", s.withSession(s.handleRefresh))
	mux.HandleFunc("POST /api/sessions/{id}/messages", s.withSession(s.handleMessage))
	mux.HandleFunc("GET /api/sessions/{id}/export", s.withSession(s.handleExport))
	mux.HandleFunc("GET /api/sessions/{id}/console", s.withSession(s.handleConsole))
	mux.HandleFunc("GET /sessions/{id}/console", s.withSession(s.handleConsoleView))
	mux.HandleFunc("GET /ws/{id}", s.withSession(s.handleWebSocket))

	return s.addMiddleware(mux)
}

// Start listens on the configured address until ctx is cancelled or the
// server fails.
func (s *Server) Start(ctx context.Context) error {
	s.serverMutex.Lock()
	s.httpServer = &http.Server{
		Addr:              s.config.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	server := s.httpServer
	s.serverMutex.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "studio server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("server error: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	}
}

// Shutdown closes every websocket client, every session and the HTTP
// server. It is safe to call more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.clientsMutex.Lock()
		clients := s.clients
		s.clients = make(map[*Client]struct{})
		s.clientsMutex.Unlock()
		for c := range clients {
			c.close()
		}

		if s.sessions != nil {
			s.sessions.CloseAll()
		}

		s.serverMutex.RLock()
		server := s.httpServer
		s.serverMutex.RUnlock()
		if server != nil {
			if err := server.Shutdown(ctx); err != nil {
				shutdownErr = fmt.Errorf("http server shutdown: %w", err)
			}
		}
		s.logger.Info(ctx, "studio server stopped")
	})
	return shutdownErr
}

// Clients returns the number of connected websocket clients.
func (s *Server) Clients() int {
	s.clientsMutex.RLock()
	defer s.clientsMutex.RUnlock()
	return len(s.clients)
}
