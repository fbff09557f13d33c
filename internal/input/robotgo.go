//go:build cgo

package input

import (
	"sync"

	"github.com/go-vgo/robotgo"
)

// Robot injects pointer events through robotgo (X11, macOS Quartz, Win32).
type Robot struct {
	mu     sync.Mutex
	width  int
	height int
}

func newRobot(opts Options) (Actuator, error) {
	w, h := opts.ScreenWidth, opts.ScreenHeight
	if w <= 0 || h <= 0 {
		w, h = robotgo.GetScreenSize()
	}
	return &Robot{width: w, height: h}, nil
}

// MoveTo moves the cursor to absolute screen coordinates
func (r *Robot) MoveTo(x, y int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	robotgo.Move(x, y)
	return nil
}

func (r *Robot) Click(b Button) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	robotgo.Click(robotButton(b), false)
	return nil
}

func (r *Robot) DoubleClick(b Button) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	robotgo.Click(robotButton(b), true)
	return nil
}

func (r *Robot) MouseDown(b Button) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return robotgo.Toggle(robotButton(b))
}

func (r *Robot) MouseUp(b Button) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return robotgo.Toggle(robotButton(b), "up")
}

func (r *Robot) Scroll(amount int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	robotgo.Scroll(0, amount)
	return nil
}

// Position returns the current cursor position
func (r *Robot) Position() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return robotgo.Location()
}

func (r *Robot) ScreenSize() (int, int) {
	return r.width, r.height
}
