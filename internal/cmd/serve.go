package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"mobilemouse/internal/api"
	"mobilemouse/internal/config"
	"mobilemouse/internal/input"
	"mobilemouse/internal/network"
	"mobilemouse/internal/osutils"
	"mobilemouse/internal/pointer"
	"mobilemouse/internal/tray"
)

// Serve runs the relay until interrupted
type Serve struct {
	Config config.Config `embed:""`

	Tray     bool `help:"Show a system tray icon with the connect URL and client count" env:"MOBILEMOUSE_TRAY" group:"Desktop"`
	Firewall bool `help:"Create a Windows firewall rule for the port" default:"true" negatable:"" env:"MOBILEMOUSE_FIREWALL" group:"Desktop"`
}

// Run is called by Kong when the serve command is executed.
func (s *Serve) Run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.StartServer(ctx, logger)
}

// StartServer opens the actuator and serves until ctx is cancelled
func (s *Serve) StartServer(ctx context.Context, logger *slog.Logger) error {
	cfg := s.Config
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	act, err := input.Open(cfg.Backend, input.Options{
		ScreenWidth:  cfg.ScreenWidth,
		ScreenHeight: cfg.ScreenHeight,
	})
	if err != nil {
		return fmt.Errorf("failed to open %s backend: %w", cfg.Backend, err)
	}
	defer func() {
		if err := input.Close(act); err != nil {
			logger.Warn("Failed to close input backend", "backend", cfg.Backend, "error", err)
		}
	}()

	settings := pointer.SettingsFrom(cfg, act)
	ctrl := pointer.New(settings, act, logger)
	srv := api.NewServer(cfg.Addr(), ctrl, logger)

	logger.Info("Mobile Mouse relay starting",
		"addr", cfg.Addr(),
		"backend", cfg.Backend,
		"screen", fmt.Sprintf("%dx%d", settings.ScreenWidth, settings.ScreenHeight),
		"sensitivity", settings.Sensitivity,
		"deadzone", settings.Deadzone,
		"mouseEnabled", settings.MouseEnabled,
	)
	if settings.FailSafe {
		logger.Info("Move the mouse to the top-left corner to emergency stop remote input")
	}
	urls := network.ConnectURLs(cfg.Host, cfg.Port)
	for _, u := range urls {
		logger.Info("Connect your mobile app to", "url", u)
	}

	if s.Firewall && runtime.GOOS == "windows" {
		go func() {
			if err := osutils.EnsureFirewallRule(cfg.Port, logger); err != nil {
				logger.Warn("Firewall warning", "error", err)
			}
		}()
	}

	if !s.Tray {
		return srv.ListenAndServe(ctx)
	}
	return runWithTray(ctx, srv, urls)
}

// runWithTray keeps the tray on the calling goroutine, which must be the main
// one on macOS, and the server on another.
func runWithTray(ctx context.Context, srv *api.Server, urls []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	t := tray.New("Mobile Mouse - " + urls[0])
	for _, u := range urls {
		t.AddInfoItem(u)
	}
	t.AddSeparator()
	clients := t.AddInfoItem(tray.ClientsTitle(srv.Registry().Len()))
	srv.Registry().OnChange(func(n int) {
		t.SetItemTitle(clients, tray.ClientsTitle(n))
	})
	t.AddSeparator()
	t.AddMenuItem("Quit", cancel)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe(ctx)
		// Quit is only honoured once the tray loop is up
		select {
		case <-t.Ready():
			t.Stop()
		case <-t.Done():
		}
	}()

	t.Run()
	cancel()
	return <-errCh
}
