package pointer

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mobilemouse/internal/config"
	"mobilemouse/internal/input"
	"mobilemouse/internal/protocol"
)

const (
	screenW = 1920
	screenH = 1080
)

func newTestController(mutate func(*Settings)) (*Controller, *input.Recorder) {
	rec := input.NewRecorder(screenW, screenH)
	s := Settings{
		Sensitivity:  12,
		Deadzone:     0.08,
		MouseEnabled: true,
		ScreenWidth:  screenW,
		ScreenHeight: screenH,
	}
	if mutate != nil {
		mutate(&s)
	}
	return New(s, rec, slog.New(slog.DiscardHandler)), rec
}

func TestDeltas(t *testing.T) {
	tests := []struct {
		name   string
		mx, my float64
		dx, dy float64
		ok     bool
	}{
		{"both inside deadzone", 0.05, -0.07, 0, 0, false},
		{"zero", 0, 0, 0, 0, false},
		{"x only", 0.5, 0, 6, 0, true},
		{"x at deadzone", 0.08, 0, 0.96, 0, true},
		{"y inverted", 0, 0.5, 0, -6, true},
		{"negative y moves down", 0, -0.25, 0, 3, true},
		{"y inside deadzone while x moves", -1, 0.01, -12, 0, true},
		{"both axes", 1, 1, 12, -12, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dx, dy, ok := Deltas(tt.mx, tt.my, 12, 0.08)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.dx, dx, 1e-9)
			assert.InDelta(t, tt.dy, dy, 1e-9)
		})
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-5, 100))
	assert.Equal(t, 99.0, Clamp(150, 100))
	assert.Equal(t, 99.0, Clamp(99, 100))
	assert.Equal(t, 42.5, Clamp(42.5, 100))
	assert.Equal(t, 0.0, Clamp(0, 100))
}

func TestMoveInsideDeadzone(t *testing.T) {
	c, rec := newTestController(nil)
	rec.SetPosition(100, 100)

	for _, m := range []protocol.Motion{{}, {MovementX: 0.079}, {MovementX: -0.05, MovementY: 0.07}} {
		require.NoError(t, c.Move(m))
	}

	assert.Empty(t, rec.Calls())
	x, y := rec.Position()
	assert.Equal(t, 100, x)
	assert.Equal(t, 100, y)
}

func TestMoveScalesBySensitivity(t *testing.T) {
	c, rec := newTestController(nil)
	rec.SetPosition(500, 400)

	require.NoError(t, c.Move(protocol.Motion{MovementX: 0.5, MovementY: 0}))
	assert.Equal(t, []input.Call{{Op: input.OpMoveTo, X: 506, Y: 400}}, rec.Calls())
}

func TestMoveInvertsY(t *testing.T) {
	c, rec := newTestController(nil)
	rec.SetPosition(500, 400)

	require.NoError(t, c.Move(protocol.Motion{MovementY: 1}))
	assert.Equal(t, []input.Call{{Op: input.OpMoveTo, X: 500, Y: 388}}, rec.Calls())
}

func TestMoveClampsToScreen(t *testing.T) {
	tests := []struct {
		name        string
		startX      int
		startY      int
		motion      protocol.Motion
		expectedX   int
		expectedY   int
		sensitivity float64
	}{
		{"left edge", 3, 500, protocol.Motion{MovementX: -1}, 0, 500, 12},
		{"right edge", screenW - 2, 500, protocol.Motion{MovementX: 1}, screenW - 1, 500, 12},
		{"top edge", 800, 5, protocol.Motion{MovementY: 1}, 800, 0, 12},
		{"bottom edge", 800, screenH - 1, protocol.Motion{MovementY: -1}, 800, screenH - 1, 12},
		{"far outside", 10, 10, protocol.Motion{MovementX: 1, MovementY: -1}, screenW - 1, screenH - 1, 100000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestController(func(s *Settings) { s.Sensitivity = tt.sensitivity })
			rec.SetPosition(tt.startX, tt.startY)

			require.NoError(t, c.Move(tt.motion))
			x, y := rec.Position()
			assert.Equal(t, tt.expectedX, x)
			assert.Equal(t, tt.expectedY, y)
			assert.GreaterOrEqual(t, x, 0)
			assert.Less(t, x, screenW)
			assert.GreaterOrEqual(t, y, 0)
			assert.Less(t, y, screenH)
		})
	}
}

func TestMoveDisabled(t *testing.T) {
	c, rec := newTestController(func(s *Settings) { s.MouseEnabled = false })

	require.NoError(t, c.Move(protocol.Motion{MovementX: 1, MovementY: 1}))
	assert.Empty(t, rec.Calls())

	// clicks and scrolls still go through
	require.NoError(t, c.Click(protocol.Click{Button: "left", Action: protocol.ActionClick}))
	require.NoError(t, c.Scroll(protocol.Scroll{Direction: protocol.DirectionUp, Amount: 1}))
	assert.Len(t, rec.Calls(), 2)
}

func TestMoveSubPixelSuppressed(t *testing.T) {
	c, rec := newTestController(func(s *Settings) { s.Sensitivity = 1 })

	// 0.09 * 1 = 0.09 px, past the deadzone but not worth a move
	require.NoError(t, c.Move(protocol.Motion{MovementX: 0.09}))
	assert.Empty(t, rec.Calls())
}

func TestMoveActuatorError(t *testing.T) {
	c, rec := newTestController(nil)
	boom := errors.New("boom")
	rec.FailWith(boom)

	assert.ErrorIs(t, c.Move(protocol.Motion{MovementX: 1}), boom)
}

func TestClick(t *testing.T) {
	tests := []struct {
		action   string
		button   string
		expected []input.Call
	}{
		{protocol.ActionClick, "left", []input.Call{{Op: input.OpClick, Button: input.ButtonLeft}}},
		{protocol.ActionDouble, "right", []input.Call{{Op: input.OpDoubleClick, Button: input.ButtonRight}}},
		{protocol.ActionDown, "middle", []input.Call{{Op: input.OpMouseDown, Button: input.ButtonMiddle}}},
		{protocol.ActionUp, "left", []input.Call{{Op: input.OpMouseUp, Button: input.ButtonLeft}}},
		{"triple", "left", []input.Call{}},
		{"triple", "nonsense", []input.Call{}},
	}

	for _, tt := range tests {
		t.Run(tt.action+"_"+tt.button, func(t *testing.T) {
			c, rec := newTestController(nil)
			require.NoError(t, c.Click(protocol.Click{Button: tt.button, Action: tt.action}))
			assert.Equal(t, tt.expected, rec.Calls())
		})
	}
}

func TestClickInvalidButton(t *testing.T) {
	c, rec := newTestController(nil)
	err := c.Click(protocol.Click{Button: "thumb", Action: protocol.ActionClick})
	assert.ErrorIs(t, err, input.ErrInvalidButton)
	assert.Empty(t, rec.Calls())
}

func TestScroll(t *testing.T) {
	tests := []struct {
		direction string
		amount    int
		expected  []input.Call
	}{
		{protocol.DirectionUp, 3, []input.Call{{Op: input.OpScroll, Amount: 3}}},
		{protocol.DirectionDown, 5, []input.Call{{Op: input.OpScroll, Amount: -5}}},
		{"left", 5, []input.Call{}},
	}

	for _, tt := range tests {
		t.Run(tt.direction, func(t *testing.T) {
			c, rec := newTestController(nil)
			require.NoError(t, c.Scroll(protocol.Scroll{Direction: tt.direction, Amount: tt.amount}))
			assert.Equal(t, tt.expected, rec.Calls())
		})
	}
}

func TestSettingsFrom(t *testing.T) {
	rec := input.NewRecorder(1280, 720)

	cfg := config.DefaultConfig()
	s := SettingsFrom(cfg, rec)
	assert.Equal(t, 1280, s.ScreenWidth)
	assert.Equal(t, 720, s.ScreenHeight)
	assert.Equal(t, 12.0, s.Sensitivity)
	assert.Equal(t, 0.08, s.Deadzone)
	assert.True(t, s.MouseEnabled)
	assert.True(t, s.FailSafe)

	cfg.ScreenWidth, cfg.ScreenHeight = 800, 600
	s = SettingsFrom(cfg, rec)
	assert.Equal(t, 800, s.ScreenWidth)
	assert.Equal(t, 600, s.ScreenHeight)

	w := New(s, rec, slog.New(slog.DiscardHandler)).Welcome()
	assert.Equal(t, protocol.ScreenSize{Width: 800, Height: 600}, w.ScreenSize)
	assert.Equal(t, protocol.TypeWelcome, w.Type)
}

func TestFailSafe(t *testing.T) {
	c, rec := newTestController(func(s *Settings) { s.FailSafe = true })
	rec.SetPosition(0, 0)

	assert.ErrorIs(t, c.Move(protocol.Motion{MovementX: 1, MovementY: -1}), ErrFailSafe)
	assert.ErrorIs(t, c.Click(protocol.Click{Button: "left", Action: protocol.ActionClick}), ErrFailSafe)
	assert.ErrorIs(t, c.Scroll(protocol.Scroll{Direction: protocol.DirectionUp, Amount: 3}), ErrFailSafe)
	assert.Empty(t, rec.Calls())

	// unknown actions and the deadzone stay silent no-ops
	assert.NoError(t, c.Click(protocol.Click{Button: "left", Action: "triple"}))
	assert.NoError(t, c.Move(protocol.Motion{MovementX: 0.01}))

	// leaving the corner resumes input
	rec.SetPosition(0, 1)
	require.NoError(t, c.Click(protocol.Click{Button: "left", Action: protocol.ActionClick}))
	assert.Len(t, rec.Calls(), 1)
}

func TestFailSafeDisabled(t *testing.T) {
	c, rec := newTestController(nil)
	rec.SetPosition(0, 0)

	require.NoError(t, c.Move(protocol.Motion{MovementX: 1, MovementY: -1}))
	assert.Equal(t, []input.Call{{Op: input.OpMoveTo, X: 12, Y: 12}}, rec.Calls())
}
