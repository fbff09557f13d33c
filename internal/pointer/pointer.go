// Package pointer turns decoded client frames into actuator calls.
package pointer

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"mobilemouse/internal/config"
	"mobilemouse/internal/input"
	"mobilemouse/internal/protocol"
)

// minMove is the smallest delta in pixels worth an actuator call
const minMove = 0.1

// ErrFailSafe is returned for every action while the fail-safe is tripped
var ErrFailSafe = errors.New("fail-safe: cursor at top-left corner, remote input refused")

// Settings are the immutable pointer parameters a Controller runs with
type Settings struct {
	Sensitivity  float64
	Deadzone     float64
	MouseEnabled bool
	FailSafe     bool
	ScreenWidth  int
	ScreenHeight int
}

// SettingsFrom resolves settings from the config, asking the actuator for
// the screen size when the config leaves it at zero.
func SettingsFrom(cfg config.Config, act input.Actuator) Settings {
	w, h := cfg.ScreenWidth, cfg.ScreenHeight
	if w <= 0 || h <= 0 {
		w, h = act.ScreenSize()
	}
	return Settings{
		Sensitivity:  cfg.Sensitivity,
		Deadzone:     cfg.Deadzone,
		MouseEnabled: cfg.MouseEnabled,
		FailSafe:     cfg.FailSafe,
		ScreenWidth:  w,
		ScreenHeight: h,
	}
}

// Controller applies motion, click and scroll frames to an actuator
type Controller struct {
	settings Settings
	act      input.Actuator
	logger   *slog.Logger
}

// New creates a Controller
func New(settings Settings, act input.Actuator, logger *slog.Logger) *Controller {
	return &Controller{settings: settings, act: act, logger: logger}
}

// Settings returns the settings the controller was built with
func (c *Controller) Settings() Settings {
	return c.settings
}

// Welcome builds the welcome message advertising these settings
func (c *Controller) Welcome() protocol.Welcome {
	s := c.settings
	return protocol.NewWelcome(
		protocol.ScreenSize{Width: s.ScreenWidth, Height: s.ScreenHeight},
		s.Sensitivity, s.Deadzone, s.MouseEnabled,
	)
}

// tripped returns ErrFailSafe when the fail-safe refuses input at cursor
// (x, y). The local user trips it by pushing the mouse into the top-left
// corner.
func (c *Controller) tripped(x, y int) error {
	if !c.settings.FailSafe || x != 0 || y != 0 {
		return nil
	}
	c.logger.Warn("Fail-safe triggered, ignoring remote input until the cursor leaves the top-left corner")
	return ErrFailSafe
}

// Deltas converts a normalized movement into pixel deltas. ok is false when
// both axes are inside the deadzone. An axis inside the deadzone contributes
// zero. The Y axis is inverted so that tilting up moves the cursor up.
func Deltas(mx, my, sensitivity, deadzone float64) (dx, dy float64, ok bool) {
	if math.Abs(mx) < deadzone && math.Abs(my) < deadzone {
		return 0, 0, false
	}
	if math.Abs(mx) >= deadzone {
		dx = mx * sensitivity
	}
	if math.Abs(my) >= deadzone {
		dy = -my * sensitivity
	}
	return dx, dy, true
}

// Clamp bounds v to [0, size-1]
func Clamp(v float64, size int) float64 {
	return math.Max(0, math.Min(float64(size-1), v))
}

// Move applies a motion frame. It is a no-op while the mouse is disabled,
// inside the deadzone, or when the delta is below a tenth of a pixel.
func (c *Controller) Move(m protocol.Motion) error {
	s := c.settings
	if !s.MouseEnabled {
		return nil
	}

	dx, dy, ok := Deltas(m.MovementX, m.MovementY, s.Sensitivity, s.Deadzone)
	if !ok {
		return nil
	}

	curX, curY := c.act.Position()
	if err := c.tripped(curX, curY); err != nil {
		return err
	}
	newX := Clamp(float64(curX)+dx, s.ScreenWidth)
	newY := Clamp(float64(curY)+dy, s.ScreenHeight)

	if math.Abs(dx) <= minMove && math.Abs(dy) <= minMove {
		return nil
	}

	x, y := int(math.Round(newX)), int(math.Round(newY))
	if err := c.act.MoveTo(x, y); err != nil {
		return fmt.Errorf("move to (%d, %d): %w", x, y, err)
	}
	c.logger.Debug("Pointer moved", "dx", dx, "dy", dy, "x", x, "y", y)
	return nil
}

// Click applies a click frame. Unknown actions are ignored; a bad button on a
// known action is an error. Not gated by MouseEnabled.
func (c *Controller) Click(cl protocol.Click) error {
	var op func(input.Button) error
	switch cl.Action {
	case protocol.ActionClick:
		op = c.act.Click
	case protocol.ActionDouble:
		op = c.act.DoubleClick
	case protocol.ActionDown:
		op = c.act.MouseDown
	case protocol.ActionUp:
		op = c.act.MouseUp
	default:
		c.logger.Debug("Ignoring click action", "action", cl.Action)
		return nil
	}

	if err := c.tripped(c.act.Position()); err != nil {
		return err
	}

	b, err := input.ParseButton(cl.Button)
	if err != nil {
		return fmt.Errorf("click %s: %w", cl.Action, err)
	}

	c.logger.Debug("Pointer click", "action", cl.Action, "button", b)
	if err := op(b); err != nil {
		return fmt.Errorf("click %s %s: %w", cl.Action, b, err)
	}
	return nil
}

// Scroll applies a scroll frame. Unknown directions are ignored. Not gated
// by MouseEnabled.
func (c *Controller) Scroll(s protocol.Scroll) error {
	var amount int
	switch s.Direction {
	case protocol.DirectionUp:
		amount = s.Amount
	case protocol.DirectionDown:
		amount = -s.Amount
	default:
		c.logger.Debug("Ignoring scroll direction", "direction", s.Direction)
		return nil
	}

	if err := c.tripped(c.act.Position()); err != nil {
		return err
	}

	c.logger.Debug("Pointer scroll", "direction", s.Direction, "amount", s.Amount)
	if err := c.act.Scroll(amount); err != nil {
		return fmt.Errorf("scroll %s by %d: %w", s.Direction, s.Amount, err)
	}
	return nil
}
