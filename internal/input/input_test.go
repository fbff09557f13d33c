package input

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseButton(t *testing.T) {
	tests := []struct {
		name     string
		expected Button
		wantErr  bool
	}{
		{"left", ButtonLeft, false},
		{"right", ButtonRight, false},
		{"middle", ButtonMiddle, false},
		{"LEFT", ButtonLeft, false},
		{"side", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		b, err := ParseButton(tt.name)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidButton, tt.name)
			continue
		}
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.expected, b)
	}
}

func TestRecorder(t *testing.T) {
	r := NewRecorder(800, 600)

	x, y := r.Position()
	assert.Equal(t, 400, x)
	assert.Equal(t, 300, y)

	w, h := r.ScreenSize()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)

	require.NoError(t, r.MoveTo(10, 20))
	require.NoError(t, r.DoubleClick(ButtonRight))
	require.NoError(t, r.Scroll(-5))

	x, y = r.Position()
	assert.Equal(t, 10, x)
	assert.Equal(t, 20, y)

	assert.Equal(t, []Call{
		{Op: OpMoveTo, X: 10, Y: 20},
		{Op: OpDoubleClick, Button: ButtonRight},
		{Op: OpScroll, Amount: -5},
	}, r.Calls())

	r.Reset()
	assert.Empty(t, r.Calls())
}

func TestRecorderRejectsInvalidButton(t *testing.T) {
	r := NewRecorder(800, 600)
	assert.ErrorIs(t, r.Click(Button("side")), ErrInvalidButton)
	assert.Empty(t, r.Calls())
}

func TestRecorderFailWith(t *testing.T) {
	r := NewRecorder(800, 600)
	boom := errors.New("boom")
	r.FailWith(boom)
	assert.ErrorIs(t, r.MoveTo(1, 1), boom)

	x, y := r.Position()
	assert.Equal(t, 400, x)
	assert.Equal(t, 300, y)

	r.FailWith(nil)
	assert.NoError(t, r.MoveTo(1, 1))
}

func TestOpen(t *testing.T) {
	a, err := Open(BackendDryRun, Options{ScreenWidth: 1280, ScreenHeight: 720})
	require.NoError(t, err)
	w, h := a.ScreenSize()
	assert.Equal(t, 1280, w)
	assert.Equal(t, 720, h)
	assert.NoError(t, Close(a))

	a, err = Open(BackendDryRun, Options{})
	require.NoError(t, err)
	w, h = a.ScreenSize()
	assert.Equal(t, fallbackWidth, w)
	assert.Equal(t, fallbackHeight, h)

	_, err = Open("joystick", Options{})
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestRecorderHistoryIsBounded(t *testing.T) {
	r := NewRecorder(100, 100)
	for i := range maxRecorded + 10 {
		require.NoError(t, r.Scroll(i))
	}

	calls := r.Calls()
	require.Len(t, calls, maxRecorded)
	assert.Equal(t, 10, calls[0].Amount)
	assert.Equal(t, maxRecorded+9, calls[len(calls)-1].Amount)
}

func TestRobotButton(t *testing.T) {
	tests := []struct {
		button   Button
		expected string
	}{
		{ButtonLeft, "left"},
		{ButtonRight, "right"},
		{ButtonMiddle, "center"},
	}
	for _, tt := range tests {
		t.Run(string(tt.button), func(t *testing.T) {
			assert.Equal(t, tt.expected, robotButton(tt.button))
		})
	}
}
