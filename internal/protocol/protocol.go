// Package protocol defines the JSON frames exchanged with mobile clients.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// TypeWelcome is sent by the server once, right after a client connects
	TypeWelcome MessageType = "welcome"

	// TypeMotion carries normalized relative movement from the device sensors
	TypeMotion MessageType = "motion"

	// TypeClick presses, releases or clicks a mouse button
	TypeClick MessageType = "click"

	// TypeScroll scrolls the wheel up or down
	TypeScroll MessageType = "scroll"

	// TypeTest is a connectivity check, only logged by the server
	TypeTest MessageType = "test"
)

// Click actions
const (
	ActionClick  = "click"
	ActionDouble = "double"
	ActionDown   = "down"
	ActionUp     = "up"
)

// Scroll directions
const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

// DefaultScrollAmount is used when a scroll frame carries no amount.
const DefaultScrollAmount = 3

// ErrMalformedFrame is returned when a frame is not a valid JSON object or a
// field has the wrong type.
var ErrMalformedFrame = errors.New("malformed frame")

// Frame is one decoded inbound message. The set of implementations is closed:
// Motion, Click, Scroll, Test and Unknown.
type Frame interface {
	Type() MessageType
	isFrame()
}

// Motion is a relative movement. Both axes are normalized, typically in [-1, 1].
type Motion struct {
	MovementX float64 `json:"movementX"`
	MovementY float64 `json:"movementY"`
}

// Click is a mouse button action
type Click struct {
	Button string `json:"button"` // "left", "right", "middle"
	Action string `json:"action"` // "click", "double", "down", "up"
}

// Scroll is a vertical wheel action
type Scroll struct {
	Direction string `json:"direction"` // "up" or "down"
	Amount    int    `json:"amount"`
}

// Test is a diagnostic message
type Test struct {
	Message string `json:"message,omitempty"`
}

// Unknown is any frame whose type is missing or not recognized.
type Unknown struct {
	Kind MessageType `json:"-"`
}

func (Motion) Type() MessageType    { return TypeMotion }
func (Click) Type() MessageType     { return TypeClick }
func (Scroll) Type() MessageType    { return TypeScroll }
func (Test) Type() MessageType      { return TypeTest }
func (u Unknown) Type() MessageType { return u.Kind }

func (Motion) isFrame()  {}
func (Click) isFrame()   {}
func (Scroll) isFrame()  {}
func (Test) isFrame()    {}
func (Unknown) isFrame() {}

type envelope struct {
	Type MessageType `json:"type"`
}

// Decode parses a raw text frame. Absent fields take their defaults.
func Decode(data []byte) (Frame, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}

	var frame Frame
	var err error
	switch env.Type {
	case TypeMotion:
		var m Motion
		err = json.Unmarshal(data, &m)
		frame = m
	case TypeClick:
		c := Click{Button: "left", Action: ActionClick}
		err = json.Unmarshal(data, &c)
		frame = c
	case TypeScroll:
		s := Scroll{Direction: DirectionUp, Amount: DefaultScrollAmount}
		err = json.Unmarshal(data, &s)
		frame = s
	case TypeTest:
		var t Test
		err = json.Unmarshal(data, &t)
		frame = t
	default:
		return Unknown{Kind: env.Type}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedFrame, env.Type, err)
	}
	return frame, nil
}

// Encode serializes a frame with its type tag. Unknown frames cannot be encoded.
func Encode(f Frame) ([]byte, error) {
	switch v := f.(type) {
	case Motion:
		return json.Marshal(struct {
			Type MessageType `json:"type"`
			Motion
		}{TypeMotion, v})
	case Click:
		return json.Marshal(struct {
			Type MessageType `json:"type"`
			Click
		}{TypeClick, v})
	case Scroll:
		return json.Marshal(struct {
			Type MessageType `json:"type"`
			Scroll
		}{TypeScroll, v})
	case Test:
		return json.Marshal(struct {
			Type MessageType `json:"type"`
			Test
		}{TypeTest, v})
	default:
		return nil, fmt.Errorf("cannot encode frame of type %q", f.Type())
	}
}

// ScreenSize is the host screen in pixels
type ScreenSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Welcome is sent once per connection and advertises the pointer settings.
type Welcome struct {
	Type         MessageType `json:"type"`
	Message      string      `json:"message"`
	ScreenSize   ScreenSize  `json:"screenSize"`
	Sensitivity  float64     `json:"sensitivity"`
	Deadzone     float64     `json:"deadzone"`
	MouseEnabled bool        `json:"mouseEnabled"`
}

// WelcomeText is the greeting carried by every welcome message.
const WelcomeText = "Connected to Go Mobile Mouse Server"

// NewWelcome builds the welcome message for the given settings
func NewWelcome(screen ScreenSize, sensitivity, deadzone float64, mouseEnabled bool) Welcome {
	return Welcome{
		Type:         TypeWelcome,
		Message:      WelcomeText,
		ScreenSize:   screen,
		Sensitivity:  sensitivity,
		Deadzone:     deadzone,
		MouseEnabled: mouseEnabled,
	}
}
