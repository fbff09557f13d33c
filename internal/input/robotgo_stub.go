//go:build !cgo

package input

import "fmt"

// Stub for builds without cgo, where robotgo cannot be linked

func newRobot(opts Options) (Actuator, error) {
	return nil, fmt.Errorf("robotgo backend requires cgo: %w", ErrUnsupportedPlatform)
}
