// Package api serves the WebSocket endpoint mobile clients connect to.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"mobilemouse/internal/protocol"

	"github.com/gorilla/websocket"
)

// Pointer is what the server needs from the pointer controller
type Pointer interface {
	FrameHandler
	Welcome() protocol.Welcome
}

// Server accepts mobile clients and feeds their frames to a Pointer
type Server struct {
	addr       string
	welcome    protocol.Welcome
	registry   *Registry
	dispatcher *Dispatcher
	logger     *slog.Logger
	upgrader   websocket.Upgrader
}

// NewServer creates a server that will listen on addr (host:port)
func NewServer(addr string, p Pointer, logger *slog.Logger) *Server {
	return &Server{
		addr:       addr,
		welcome:    p.Welcome(),
		registry:   NewRegistry(logger),
		dispatcher: NewDispatcher(p, logger),
		logger:     logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Local network tool, any origin may connect
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Registry returns the live session set
func (s *Server) Registry() *Registry {
	return s.registry
}

// Handler returns the HTTP handler serving the WebSocket and status endpoints
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/status", s.handleStatus)
	return s.recoverMiddleware(mux)
}

// ListenAndServe binds the listen address and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	network := "tcp"
	if host, _, err := net.SplitHostPort(s.addr); err == nil {
		// Bind IPv4 explicitly to avoid IPv6-only sockets on Windows
		if ip := net.ParseIP(host); ip != nil && ip.To4() != nil {
			network = "tcp4"
		}
	}

	ln, err := net.Listen(network, s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// and closes every live session.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("Server listening", "addr", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)

	// Hijacked WebSocket connections are not tracked by http.Server
	for _, sess := range s.registry.Sessions() {
		sess.Close()
	}

	<-errCh
	return err
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !websocket.IsWebSocketUpgrade(r) {
		http.NotFound(w, r)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Failed to upgrade connection", "addr", r.RemoteAddr, "error", err)
		return
	}

	sess := newSession(conn, r.RemoteAddr, s.logger)
	s.registry.Add(sess)
	defer func() {
		s.registry.Remove(sess)
		sess.Close()
	}()

	if err := sess.Send(s.welcome); err != nil {
		s.logger.Warn("Failed to send welcome", "addr", sess.Addr(), "error", err)
	}

	go sess.writePump()
	sess.readPump(s.dispatcher.Handle)
}

// recoverMiddleware prevents panics from crashing the whole server
func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				s.logger.Error("Recovered panic", "path", r.URL.Path, "error", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// handleHealth handles GET /health (for monitoring)
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleStatus handles GET /api/status
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"clients": s.registry.Len(),
		"config":  s.welcome,
	})
}
