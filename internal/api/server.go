package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/amterp/kanboard/internal/board"
	"github.com/rs/zerolog"
)

// Server wraps the HTTP server for the board API.
type Server struct {
	httpServer  *http.Server
	watcher     *StorageWatcher
	wsHub       *WebSocketHub
	logger      zerolog.Logger
	unsubscribe func()
}

// NewServer creates a server for b. Board changes are pushed to WebSocket
// clients; if watchDir is set, changes to the value files in it are too.
func NewServer(handler *Handler, b *board.Board, port int, watchDir string, logger zerolog.Logger) *Server {
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	wsHub := NewWebSocketHub(logger)
	mux.HandleFunc("GET /api/v1/ws", wsHub.ServeWS)

	var watcher *StorageWatcher
	if watchDir != "" {
		var err error
		watcher, err = NewStorageWatcher(watchDir, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to create storage watcher")
		} else {
			watcher.Subscribe(wsHub)
		}
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      Logging(logger, Cors(mux)),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		watcher:     watcher,
		wsHub:       wsHub,
		logger:      logger,
		unsubscribe: b.Subscribe(wsHub.OnBoardChange),
	}
}

// Start begins listening for HTTP requests. Blocks until shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln. Blocks until shutdown.
func (s *Server) Serve(ln net.Listener) error {
	if s.watcher != nil {
		if err := s.watcher.Start(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to start storage watcher")
		}
	}

	s.logger.Info().Str("addr", ln.Addr().String()).Msg("listening")
	err := s.httpServer.Serve(ln)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.unsubscribe()
	if s.watcher != nil {
		if err := s.watcher.Stop(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to stop storage watcher")
		}
	}
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the address the server is configured to listen on.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Hub returns the server's WebSocket hub.
func (s *Server) Hub() *WebSocketHub {
	return s.wsHub
}
