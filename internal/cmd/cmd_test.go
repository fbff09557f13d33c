package cmd

import (
	"bytes"
	"context"
	"log/slog"
	"net"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mobilemouse/internal/api"
	"mobilemouse/internal/client"
	"mobilemouse/internal/config"
	"mobilemouse/internal/input"
	"mobilemouse/internal/pointer"
	"mobilemouse/internal/protocol"
)

func discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func parse(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"version": "test"}, kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	return &cli, ctx
}

func TestServeIsDefaultCommand(t *testing.T) {
	cli, ctx := parse(t)
	assert.Equal(t, "serve", ctx.Command())
	assert.Equal(t, config.DefaultConfig(), cli.Serve.Config)
	assert.True(t, cli.Serve.Firewall)
	assert.False(t, cli.Serve.Tray)
	assert.Equal(t, "info", cli.Log.Level)

	cli, ctx = parse(t, "--port=9100", "--backend=dry-run", "--log.level=debug")
	assert.Equal(t, "serve", ctx.Command())
	assert.Equal(t, 9100, cli.Serve.Config.Port)
	assert.Equal(t, input.BackendDryRun, cli.Serve.Config.Backend)
	assert.Equal(t, "debug", cli.Log.Level)
}

func TestParseSubcommands(t *testing.T) {
	cli, ctx := parse(t, "probe", "--addr=10.0.0.2:8081", "--click=right", "--scroll=-2")
	assert.Equal(t, "probe", ctx.Command())
	assert.Equal(t, "10.0.0.2:8081", cli.Probe.Addr)
	assert.Equal(t, -2, cli.Probe.Scroll)

	cli, ctx = parse(t, "config", "init", "--format=toml")
	assert.Equal(t, "config init", ctx.Command())
	assert.Equal(t, "toml", cli.Config.Init.Format)
}

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "nested", "relay.yaml")

	ci := &ConfigInit{Format: "yaml", Output: dest}
	require.NoError(t, ci.Run(discard()))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "port: 8081")
	assert.Contains(t, string(data), "mouse-enabled: true")

	assert.ErrorContains(t, ci.Run(discard()), "destination exists")

	ci.Force = true
	assert.NoError(t, ci.Run(discard()))

	bad := &ConfigInit{Format: "ini", Output: filepath.Join(dir, "x.ini")}
	assert.Error(t, bad.Run(discard()))
}

func TestStartServerInvalidConfig(t *testing.T) {
	s := &Serve{Config: config.DefaultConfig()}
	s.Config.Sensitivity = 0
	assert.ErrorContains(t, s.StartServer(context.Background(), discard()), "invalid configuration")
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func TestStartServerDryRun(t *testing.T) {
	port := freePort(t)
	s := &Serve{Config: config.DefaultConfig()}
	s.Config.Host = "127.0.0.1"
	s.Config.Port = port
	s.Config.Backend = input.BackendDryRun
	s.Config.ScreenWidth, s.Config.ScreenHeight = 1024, 768

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.StartServer(ctx, discard()) }()

	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(port))
	var c *client.Client
	require.Eventually(t, func() bool {
		dctx, dcancel := context.WithTimeout(context.Background(), time.Second)
		defer dcancel()
		var err error
		c, err = client.Dial(dctx, addr)
		return err == nil
	}, 3*time.Second, 20*time.Millisecond)

	assert.Equal(t, protocol.ScreenSize{Width: 1024, Height: 768}, c.Welcome().ScreenSize)
	assert.NoError(t, c.SendMotion(0.5, 0.5))
	c.Close()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("StartServer did not return after cancel")
	}
}

func TestProbe(t *testing.T) {
	logger := discard()
	rec := input.NewRecorder(800, 600)
	ctrl := pointer.New(pointer.Settings{Sensitivity: 12, Deadzone: 0.08, MouseEnabled: true, ScreenWidth: 800, ScreenHeight: 600}, rec, logger)
	srv := api.NewServer("127.0.0.1:0", ctrl, logger)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	p := &Probe{
		Addr:    strings.TrimPrefix(ts.URL, "http://"),
		Message: "hello",
		MoveX:   1,
		Click:   "left",
		Scroll:  -4,
	}
	var out bytes.Buffer
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, p.run(ctx, &out, logger))

	assert.Contains(t, out.String(), "Screen: 800x600")
	assert.Contains(t, out.String(), "Clients: 1")
	assert.Contains(t, out.String(), "Sent scroll")

	assert.Eventually(t, func() bool { return len(rec.Calls()) == 3 }, 2*time.Second, 10*time.Millisecond)
	calls := rec.Calls()
	assert.Equal(t, input.Call{Op: input.OpMoveTo, X: 412, Y: 300}, calls[0])
	assert.Equal(t, input.Call{Op: input.OpClick, Button: input.ButtonLeft}, calls[1])
	assert.Equal(t, input.Call{Op: input.OpScroll, Amount: -4}, calls[2])
}

func TestAutostartArgs(t *testing.T) {
	cli, _ := parse(t, "autostart", "enable", "--", "--port=9000")
	assert.Equal(t, []string{"serve", "--tray", "--port=9000"}, cli.Autostart.Enable.loginArgs())

	cli, _ = parse(t, "autostart", "enable", "--no-tray")
	assert.Equal(t, []string{"serve"}, cli.Autostart.Enable.loginArgs())
}
