// Package client is a minimal relay client used for probing a running server
// and in end-to-end tests. It sends the same frames the mobile app does.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"mobilemouse/internal/protocol"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// Client is a connection to a relay server
type Client struct {
	conn    *websocket.Conn
	welcome protocol.Welcome

	mu sync.Mutex // serializes writes
}

// Dial connects to the relay at addr (host:port) and waits for the welcome
// message.
func Dial(ctx context.Context, addr string) (*Client, error) {
	u := url.URL{Scheme: "ws", Host: addr, Path: "/"}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", u.String(), err)
	}

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetReadDeadline(deadline)
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("read welcome: %w", err)
	}
	conn.SetReadDeadline(time.Time{})

	var welcome protocol.Welcome
	if err := json.Unmarshal(data, &welcome); err != nil {
		conn.Close()
		return nil, fmt.Errorf("decode welcome: %w", err)
	}
	if welcome.Type != protocol.TypeWelcome {
		conn.Close()
		return nil, fmt.Errorf("expected welcome, got %q", welcome.Type)
	}

	c := &Client{conn: conn, welcome: welcome}
	// Drain control frames so pings get answered and a server close is noticed
	go c.readLoop()
	return c, nil
}

// Welcome returns the welcome message received on connect
func (c *Client) Welcome() protocol.Welcome {
	return c.welcome
}

func (c *Client) readLoop() {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// SendRaw writes data as a single text frame
func (c *Client) SendRaw(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Send encodes and writes a frame
func (c *Client) Send(f protocol.Frame) error {
	data, err := protocol.Encode(f)
	if err != nil {
		return err
	}
	return c.SendRaw(data)
}

// SendMotion sends a normalized relative movement
func (c *Client) SendMotion(x, y float64) error {
	return c.Send(protocol.Motion{MovementX: x, MovementY: y})
}

// SendClick sends a click action for a button
func (c *Client) SendClick(button, action string) error {
	return c.Send(protocol.Click{Button: button, Action: action})
}

// SendScroll sends a scroll in direction ("up" or "down")
func (c *Client) SendScroll(direction string, amount int) error {
	return c.Send(protocol.Scroll{Direction: direction, Amount: amount})
}

// SendTest sends a diagnostic message
func (c *Client) SendTest(message string) error {
	return c.Send(protocol.Test{Message: message})
}

// Close sends a close frame and closes the connection
func (c *Client) Close() error {
	c.mu.Lock()
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	c.mu.Unlock()
	return c.conn.Close()
}
