package api

import (
	"context"
	"fmt"
	"log/slog"

	"mobilemouse/internal/log"
	"mobilemouse/internal/protocol"
)

// FrameHandler applies decoded pointer frames
type FrameHandler interface {
	Move(m protocol.Motion) error
	Click(c protocol.Click) error
	Scroll(s protocol.Scroll) error
}

// Dispatcher decodes raw frames and routes them to a FrameHandler. Nothing a
// client sends can make Handle fail: bad frames and handler errors are
// logged and dropped.
type Dispatcher struct {
	handler FrameHandler
	logger  *slog.Logger
}

// NewDispatcher creates a dispatcher for handler
func NewDispatcher(handler FrameHandler, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{handler: handler, logger: logger}
}

// Handle processes one raw frame received on s
func (d *Dispatcher) Handle(s *Session, raw []byte) {
	d.logger.Log(context.Background(), log.LevelTrace, "Frame", "addr", s.Addr(), "raw", string(raw))

	frame, err := protocol.Decode(raw)
	if err != nil {
		d.logger.Warn("Invalid JSON received", "addr", s.Addr(), "error", err)
		return
	}

	d.logger.Debug("Received", "type", frame.Type(), "addr", s.Addr())

	if err := d.route(frame); err != nil {
		d.logger.Warn("Failed to handle frame", "type", frame.Type(), "addr", s.Addr(), "error", err)
	}
}

func (d *Dispatcher) route(frame protocol.Frame) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	switch f := frame.(type) {
	case protocol.Motion:
		return d.handler.Move(f)
	case protocol.Click:
		return d.handler.Click(f)
	case protocol.Scroll:
		return d.handler.Scroll(f)
	case protocol.Test:
		msg := f.Message
		if msg == "" {
			msg = "No message"
		}
		d.logger.Info("Test message", "message", msg)
	case protocol.Unknown:
		d.logger.Warn("Unknown message type", "type", f.Kind)
	}
	return nil
}
