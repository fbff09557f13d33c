package input

import (
	"fmt"
	"sync"
)

// Op names an actuator call captured by Recorder
type Op string

const (
	OpMoveTo      Op = "move_to"
	OpClick       Op = "click"
	OpDoubleClick Op = "double_click"
	OpMouseDown   Op = "mouse_down"
	OpMouseUp     Op = "mouse_up"
	OpScroll      Op = "scroll"
)

// Call is one recorded actuator invocation
type Call struct {
	Op     Op
	X, Y   int
	Button Button
	Amount int
}

func (c Call) String() string {
	switch c.Op {
	case OpMoveTo:
		return fmt.Sprintf("%s(%d, %d)", c.Op, c.X, c.Y)
	case OpScroll:
		return fmt.Sprintf("%s(%d)", c.Op, c.Amount)
	default:
		return fmt.Sprintf("%s(%s)", c.Op, c.Button)
	}
}

// maxRecorded bounds the call history; older calls are dropped first
const maxRecorded = 4096

// Recorder is a virtual cursor that never touches the host. It backs the
// dry-run backend and the tests.
type Recorder struct {
	mu     sync.Mutex
	width  int
	height int
	x, y   int
	calls  []Call
	fail   error
}

// NewRecorder creates a Recorder with the cursor at the screen center
func NewRecorder(width, height int) *Recorder {
	return &Recorder{width: width, height: height, x: width / 2, y: height / 2}
}

// SetPosition places the virtual cursor without recording a call
func (r *Recorder) SetPosition(x, y int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.x, r.y = x, y
}

// FailWith makes every subsequent action return err. Pass nil to clear.
func (r *Recorder) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail = err
}

// Calls returns a copy of the recorded calls
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Reset forgets the recorded calls
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

func (r *Recorder) record(c Call) error {
	if r.fail != nil {
		return r.fail
	}
	if c.Button != "" {
		if _, err := ParseButton(string(c.Button)); err != nil {
			return err
		}
	}
	if len(r.calls) == maxRecorded {
		r.calls = append(r.calls[:0], r.calls[1:]...)
	}
	r.calls = append(r.calls, c)
	return nil
}

func (r *Recorder) MoveTo(x, y int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record(Call{Op: OpMoveTo, X: x, Y: y}); err != nil {
		return err
	}
	r.x, r.y = x, y
	return nil
}

func (r *Recorder) button(op Op, b Button) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.record(Call{Op: op, Button: b})
}

func (r *Recorder) Click(b Button) error       { return r.button(OpClick, b) }
func (r *Recorder) DoubleClick(b Button) error { return r.button(OpDoubleClick, b) }
func (r *Recorder) MouseDown(b Button) error   { return r.button(OpMouseDown, b) }
func (r *Recorder) MouseUp(b Button) error     { return r.button(OpMouseUp, b) }

func (r *Recorder) Scroll(amount int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.record(Call{Op: OpScroll, Amount: amount})
}

func (r *Recorder) Position() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.x, r.y
}

func (r *Recorder) ScreenSize() (int, int) {
	return r.width, r.height
}
