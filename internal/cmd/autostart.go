package cmd

import (
	"fmt"
	"log/slog"

	"mobilemouse/internal/autostart"
)

// AutostartCommand manages the login item
type AutostartCommand struct {
	Enable  AutostartEnable  `cmd:"" help:"Start the relay when you log in"`
	Disable AutostartDisable `cmd:"" help:"Stop starting the relay on login"`
	Status  AutostartStatus  `cmd:"" help:"Show whether the relay starts on login"`
}

// AutostartEnable registers the login item
type AutostartEnable struct {
	Tray bool     `help:"Start with the tray icon" default:"true" negatable:""`
	Args []string `arg:"" optional:"" help:"Extra serve flags for the login item"`
}

// loginArgs are the command line arguments the login item runs with
func (a *AutostartEnable) loginArgs() []string {
	args := []string{"serve"}
	if a.Tray {
		args = append(args, "--tray")
	}
	return append(args, a.Args...)
}

func (a *AutostartEnable) Run(logger *slog.Logger) error {
	args := a.loginArgs()
	if err := autostart.Enable(args...); err != nil {
		return fmt.Errorf("failed to enable autostart: %w", err)
	}
	logger.Info("Autostart enabled", "args", args)
	return nil
}

// AutostartDisable removes the login item
type AutostartDisable struct{}

func (a *AutostartDisable) Run(logger *slog.Logger) error {
	if err := autostart.Disable(); err != nil {
		return fmt.Errorf("failed to disable autostart: %w", err)
	}
	logger.Info("Autostart disabled")
	return nil
}

// AutostartStatus prints whether the login item is installed
type AutostartStatus struct{}

func (a *AutostartStatus) Run() error {
	if autostart.IsEnabled() {
		fmt.Println("Autostart: enabled")
	} else {
		fmt.Println("Autostart: disabled")
	}
	return nil
}
