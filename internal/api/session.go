package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// maxFrameSize bounds a single inbound frame. Exceeding it is fatal to
	// the connection, so it is sized for clients that pad frames with extra
	// fields, not for bare pointer frames.
	maxFrameSize = 1 << 20

	// pongWait is how long a peer may stay silent to pings before the
	// connection is considered dead
	pongWait = 60 * time.Second

	// pingPeriod must be shorter than pongWait
	pingPeriod = 50 * time.Second

	writeWait = 10 * time.Second

	sendBuffer = 16
)

var (
	// ErrSessionClosed is returned by Send after the session is closed
	ErrSessionClosed = errors.New("session closed")

	// ErrSendBufferFull is returned by Send when the peer is not draining frames
	ErrSendBufferFull = errors.New("send buffer full")
)

// State is the lifecycle state of a Session
type State int

const (
	StateConnected State = iota
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Session is one connected mobile client
type Session struct {
	conn   *websocket.Conn
	addr   string
	send   chan []byte
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
}

func newSession(conn *websocket.Conn, addr string, logger *slog.Logger) *Session {
	return &Session{
		conn:   conn,
		addr:   addr,
		send:   make(chan []byte, sendBuffer),
		logger: logger.With("addr", addr),
	}
}

// Addr returns the peer address
func (s *Session) Addr() string {
	if s == nil {
		return ""
	}
	return s.addr
}

// State reports whether the session still accepts frames
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return StateClosed
	}
	return StateConnected
}

// Send queues v as a JSON text frame
func (s *Session) Send(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	select {
	case s.send <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Close moves the session to StateClosed. The write pump then sends a close
// frame and tears down the connection. Safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.send)
}

// readPump feeds inbound frames to handle, in arrival order, until the
// connection fails or is closed.
func (s *Session) readPump(handle func(*Session, []byte)) {
	defer s.conn.Close()

	s.conn.SetReadLimit(maxFrameSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error { return s.conn.SetReadDeadline(time.Now().Add(pongWait)) })

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				s.logger.Warn("Read error", "error", err)
			}
			return
		}
		s.conn.SetReadDeadline(time.Now().Add(pongWait))

		handle(s, data)
	}
}

// writePump drains the send queue and keeps the connection alive with pings.
func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case message, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Session closed
				s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				s.logger.Debug("Write failed", "error", err)
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
