//go:build !windows

package autostart

func enableWindows(string) error { return ErrUnsupportedPlatform }
func disableWindows() error      { return ErrUnsupportedPlatform }
func isEnabledWindows() bool     { return false }
