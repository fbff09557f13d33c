package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"mobilemouse/internal/client"
	"mobilemouse/internal/network"
	"mobilemouse/internal/protocol"
)

// Probe connects to a running relay the way the mobile app does
type Probe struct {
	Addr    string        `help:"Relay address (host:port)" default:"127.0.0.1:8081"`
	Timeout time.Duration `help:"Connect timeout" default:"5s"`
	Message string        `help:"Test message to send" default:"Hello from probe"`
	MoveX   float64       `help:"Normalized X movement to send"`
	MoveY   float64       `help:"Normalized Y movement to send"`
	Click   string        `help:"Click this button (left, right, middle)"`
	Scroll  int           `help:"Scroll amount; positive scrolls up, negative down"`
}

// Run is called by Kong when the probe command is executed.
func (p *Probe) Run(logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), p.Timeout)
	defer cancel()
	return p.run(ctx, os.Stdout, logger)
}

func (p *Probe) run(ctx context.Context, w io.Writer, logger *slog.Logger) error {
	c, err := client.Dial(ctx, p.Addr)
	if err != nil {
		return err
	}
	defer c.Close()

	welcome := c.Welcome()
	fmt.Fprintf(w, "Connected to %s\n", p.Addr)
	fmt.Fprintf(w, "  Message: %s\n", welcome.Message)
	fmt.Fprintf(w, "  Screen: %dx%d\n", welcome.ScreenSize.Width, welcome.ScreenSize.Height)
	fmt.Fprintf(w, "  Sensitivity: %g\n", welcome.Sensitivity)
	fmt.Fprintf(w, "  Deadzone: %g\n", welcome.Deadzone)
	fmt.Fprintf(w, "  Mouse enabled: %v\n", welcome.MouseEnabled)

	if status, err := network.FetchStatus(ctx, p.Addr); err == nil {
		fmt.Fprintf(w, "  Clients: %d\n", status.Clients)
	} else {
		logger.Debug("Status endpoint unavailable", "error", err)
	}

	var frames []protocol.Frame
	if p.Message != "" {
		frames = append(frames, protocol.Test{Message: p.Message})
	}
	if p.MoveX != 0 || p.MoveY != 0 {
		frames = append(frames, protocol.Motion{MovementX: p.MoveX, MovementY: p.MoveY})
	}
	if p.Click != "" {
		frames = append(frames, protocol.Click{Button: p.Click, Action: protocol.ActionClick})
	}
	switch {
	case p.Scroll > 0:
		frames = append(frames, protocol.Scroll{Direction: protocol.DirectionUp, Amount: p.Scroll})
	case p.Scroll < 0:
		frames = append(frames, protocol.Scroll{Direction: protocol.DirectionDown, Amount: -p.Scroll})
	}

	for _, f := range frames {
		if err := c.Send(f); err != nil {
			return fmt.Errorf("send %s: %w", f.Type(), err)
		}
		fmt.Fprintf(w, "Sent %s\n", f.Type())
	}
	return nil
}
