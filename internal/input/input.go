// Package input provides cross-platform pointer injection backends.
package input

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrUnsupportedPlatform is returned when a backend is not available on this OS or build
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// ErrInvalidButton is returned for button names other than left, right and middle
	ErrInvalidButton = errors.New("invalid mouse button")

	// ErrUnknownBackend is returned by Open for unrecognized backend names
	ErrUnknownBackend = errors.New("unknown input backend")
)

// Button is a mouse button
type Button string

const (
	ButtonLeft   Button = "left"
	ButtonRight  Button = "right"
	ButtonMiddle Button = "middle"
)

// ParseButton validates a button name coming off the wire
func ParseButton(name string) (Button, error) {
	switch b := Button(strings.ToLower(name)); b {
	case ButtonLeft, ButtonRight, ButtonMiddle:
		return b, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidButton, name)
}

// Actuator drives the host pointer. Implementations must be safe for
// concurrent use since every session calls into the same actuator.
type Actuator interface {
	MoveTo(x, y int) error
	Click(b Button) error
	DoubleClick(b Button) error
	MouseDown(b Button) error
	MouseUp(b Button) error
	// Scroll scrolls vertically; positive amounts scroll up.
	Scroll(amount int) error
	Position() (x, y int)
	ScreenSize() (w, h int)
}

// Backend names accepted by Open
const (
	BackendRobotgo = "robotgo"
	BackendUinput  = "uinput"
	BackendDryRun  = "dry-run"
)

// Backends lists every backend name
var Backends = []string{BackendRobotgo, BackendUinput, BackendDryRun}

// Options configures a backend. Zero screen dimensions mean "detect", which
// only robotgo can do; the other backends fall back to 1920x1080.
type Options struct {
	ScreenWidth  int
	ScreenHeight int
}

const (
	fallbackWidth  = 1920
	fallbackHeight = 1080
)

func (o Options) screen() (int, int) {
	w, h := o.ScreenWidth, o.ScreenHeight
	if w <= 0 {
		w = fallbackWidth
	}
	if h <= 0 {
		h = fallbackHeight
	}
	return w, h
}

// Open creates the named backend
func Open(backend string, opts Options) (Actuator, error) {
	switch backend {
	case BackendRobotgo:
		return newRobot(opts)
	case BackendUinput:
		return newUinput(opts)
	case BackendDryRun:
		w, h := opts.screen()
		return NewRecorder(w, h), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// Close releases backend resources if the actuator holds any
func Close(a Actuator) error {
	if c, ok := a.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
