// Package server exposes a blackjack table over WebSockets. Every client
// sees the same table; seated clients act for their own seat.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/lox/blackjack/internal/layout"
)

// Server represents the WebSocket server
type Server struct {
	addr        string
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	logger      *log.Logger
	mu          sync.RWMutex
	gameService *GameService
	router      chi.Router
}

// NewServer creates a new WebSocket server for a game service
func NewServer(addr string, gameService *GameService, logger *log.Logger) *Server {
	s := &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]bool),
		logger:      logger.WithPrefix("server"),
		gameService: gameService,
	}
	gameService.SetBroadcaster(s.Broadcast)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/ws", s.handleWebSocket)
	r.Get("/health", s.handleHealth)
	r.Get("/state", s.handleState)
	s.router = r
	return s
}

// Handler returns the HTTP handler, for mounting or tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting WebSocket server", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Stop()
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return err
}

// Stop closes every client connection
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.connections {
		_ = conn.Close()
	}
}

// Broadcast sends a message to every connected client
func (s *Server) Broadcast(msg *Message) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for conn := range s.connections {
		_ = conn.SendMessage(msg)
	}
}

// ConnectionCount returns the number of connected clients
func (s *Server) ConnectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.connections)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s.logger, s.gameService)
	s.mu.Lock()
	s.connections[client] = true
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client connected", "remote", r.RemoteAddr, "total", total)

	client.Start()

	go func() {
		<-client.Done()
		s.unregister(client)
	}()
}

func (s *Server) unregister(client *Connection) {
	if id := client.Player(); id != "" {
		s.logger.Info("Cleaning up disconnected player", "player", id)
		_ = s.gameService.Leave(id)
	}

	s.mu.Lock()
	delete(s.connections, client)
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client disconnected", "total", total)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleState returns the table as JSON, with card positions when the
// request names a viewport.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	snap := s.gameService.Snapshot()
	state := StateFromSnapshot(snap)

	if r.URL.Query().Has("width") || r.URL.Query().Has("height") {
		vp, err := parseViewport(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		l := layout.Positions(snap, vp)
		state.Layout = &l
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(state); err != nil {
		s.logger.Error("Failed to encode state", "error", err)
	}
}

func parseViewport(r *http.Request) (layout.Viewport, error) {
	vp := layout.DefaultViewport
	for name, dst := range map[string]*int{"width": &vp.Width, "height": &vp.Height} {
		raw := r.URL.Query().Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return vp, errors.New("invalid " + name + ": " + raw)
		}
		*dst = n
	}
	return vp, nil
}
