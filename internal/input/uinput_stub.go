//go:build !linux

package input

import "fmt"

func newUinput(opts Options) (Actuator, error) {
	return nil, fmt.Errorf("uinput backend is Linux only: %w", ErrUnsupportedPlatform)
}
