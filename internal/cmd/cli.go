// Package cmd holds the kong command tree of the mobilemouse binary.
package cmd

import (
	"github.com/alecthomas/kong"
)

// CLI is the root of the command tree. Flags here apply to every command.
type CLI struct {
	ConfigFile string           `name:"config" help:"Path to a JSON, YAML or TOML config file" env:"MOBILEMOUSE_CONFIG" type:"path"`
	Log        LogConfig        `embed:"" prefix:"log."`
	Version    kong.VersionFlag `help:"Print version and exit"`

	Serve     Serve            `cmd:"" default:"withargs" help:"Run the relay server (default)"`
	Probe     Probe            `cmd:"" help:"Connect to a running relay and send test frames"`
	Config    ConfigCommand    `cmd:"" help:"Configuration helpers"`
	Autostart AutostartCommand `cmd:"" help:"Start the relay on login"`
}

// LogConfig configures the process logger
type LogConfig struct {
	Level string `help:"Log level" enum:"trace,debug,info,warn,error" default:"info" env:"MOBILEMOUSE_LOG_LEVEL"`
	File  string `help:"Also write logs to this file" type:"path" env:"MOBILEMOUSE_LOG_FILE"`
}
