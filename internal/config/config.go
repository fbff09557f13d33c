// Package config provides configuration for the mobile mouse relay.
//
// Values are resolved once at startup from flags, environment variables and
// an optional JSON, YAML or TOML file, and never change afterwards.
package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"mobilemouse/internal/input"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"
)

// AppName is used for the config directory and file names
const AppName = "mobilemouse"

// Config represents the relay configuration.
//
// JSON keys use underscores and YAML/TOML keys use dashes, matching how the
// kong configuration loaders map flag names.
type Config struct {
	// Host is the interface to bind (default: all interfaces)
	Host string `help:"Interface to listen on" default:"0.0.0.0" env:"MOBILEMOUSE_HOST" group:"Server" json:"host" yaml:"host" toml:"host"`

	// Port is the WebSocket port
	Port int `help:"WebSocket port" default:"8081" env:"MOBILEMOUSE_PORT" group:"Server" json:"port" yaml:"port" toml:"port"`

	// Sensitivity converts a normalized movement into pixels
	Sensitivity float64 `help:"Pixels per unit of normalized movement" default:"12" env:"MOBILEMOUSE_SENSITIVITY" group:"Pointer" json:"sensitivity" yaml:"sensitivity" toml:"sensitivity"`

	// Deadzone is the minimum normalized magnitude acted upon
	Deadzone float64 `help:"Ignore movement below this normalized magnitude" default:"0.08" env:"MOBILEMOUSE_DEADZONE" group:"Pointer" json:"deadzone" yaml:"deadzone" toml:"deadzone"`

	// MouseEnabled gates motion frames. Clicks and scrolls are not gated.
	MouseEnabled bool `help:"Apply motion frames to the cursor" default:"true" negatable:"" env:"MOBILEMOUSE_MOUSE_ENABLED" group:"Pointer" json:"mouse_enabled" yaml:"mouse-enabled" toml:"mouse-enabled"`

	// FailSafe stops injection while the local cursor sits in the top-left corner
	FailSafe bool `help:"Refuse remote input while the cursor is at the top-left corner" default:"true" negatable:"" env:"MOBILEMOUSE_FAIL_SAFE" group:"Pointer" json:"fail_safe" yaml:"fail-safe" toml:"fail-safe"`

	// ScreenWidth and ScreenHeight bound the cursor. Zero means detect.
	ScreenWidth  int `help:"Screen width in pixels (0 = detect)" default:"0" env:"MOBILEMOUSE_SCREEN_WIDTH" group:"Pointer" json:"screen_width" yaml:"screen-width" toml:"screen-width"`
	ScreenHeight int `help:"Screen height in pixels (0 = detect)" default:"0" env:"MOBILEMOUSE_SCREEN_HEIGHT" group:"Pointer" json:"screen_height" yaml:"screen-height" toml:"screen-height"`

	// Backend selects the pointer injection backend
	Backend string `help:"Pointer injection backend" enum:"robotgo,uinput,dry-run" default:"robotgo" env:"MOBILEMOUSE_BACKEND" group:"Input" json:"backend" yaml:"backend" toml:"backend"`
}

// DefaultConfig returns a new Config with the stock relay settings
func DefaultConfig() Config {
	return Config{
		Host:         "0.0.0.0",
		Port:         8081,
		Sensitivity:  12,
		Deadzone:     0.08,
		MouseEnabled: true,
		FailSafe:     true,
		Backend:      input.BackendRobotgo,
	}
}

// Addr returns host:port
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Validate checks the configuration for values the relay cannot run with
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.Sensitivity <= 0 {
		return fmt.Errorf("sensitivity must be positive, got %v", c.Sensitivity)
	}
	if c.Deadzone < 0 || c.Deadzone >= 1 {
		return fmt.Errorf("deadzone must be in [0, 1), got %v", c.Deadzone)
	}
	if c.ScreenWidth < 0 || c.ScreenHeight < 0 {
		return fmt.Errorf("screen size %dx%d is negative", c.ScreenWidth, c.ScreenHeight)
	}
	if !slices.Contains(input.Backends, c.Backend) {
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	return nil
}

// Formats accepted by Template
var Formats = []string{"json", "yaml", "toml"}

// NormalizeFormat maps a format name or file extension to one of Formats,
// or "" if unsupported.
func NormalizeFormat(f string) string {
	switch strings.TrimPrefix(strings.ToLower(f), ".") {
	case "json":
		return "json"
	case "yaml", "yml":
		return "yaml"
	case "toml":
		return "toml"
	default:
		return ""
	}
}

// Template renders the default configuration in the given format
func Template(format string) ([]byte, error) {
	cfg := DefaultConfig()
	switch NormalizeFormat(format) {
	case "json":
		return json.MarshalIndent(cfg, "", "  ")
	case "yaml":
		return yaml.Marshal(cfg)
	case "toml":
		return toml.Marshal(cfg)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// Dir returns the platform-specific configuration directory
func Dir() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support", AppName), nil
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		return filepath.Join(appData, AppName), nil
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, AppName), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", AppName), nil
	}
}

// CandidatePaths lists config files to try per format, highest priority
// first. A user supplied path is routed by its extension (JSON if unknown),
// then the working directory and the user config directory are searched.
func CandidatePaths(userPath string) (jsonPaths, yamlPaths, tomlPaths []string) {
	if userPath != "" {
		switch NormalizeFormat(filepath.Ext(userPath)) {
		case "yaml":
			yamlPaths = append(yamlPaths, userPath)
		case "toml":
			tomlPaths = append(tomlPaths, userPath)
		default:
			jsonPaths = append(jsonPaths, userPath)
		}
	}

	var dirs []string
	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs, wd)
	}
	if dir, err := Dir(); err == nil {
		dirs = append(dirs, dir)
	}
	for _, dir := range dirs {
		base := filepath.Join(dir, AppName)
		jsonPaths = append(jsonPaths, base+".json")
		yamlPaths = append(yamlPaths, base+".yaml", base+".yml")
		tomlPaths = append(tomlPaths, base+".toml")
	}
	return jsonPaths, yamlPaths, tomlPaths
}
