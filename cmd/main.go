// Mobile Mouse - relays pointer control from a phone to this computer
package main

import (
	"os"
	"strings"

	"mobilemouse/internal/cmd"
	"mobilemouse/internal/config"
	"mobilemouse/internal/log"

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"
)

var version = "0.1.0"

func main() {
	userCfg := findUserConfig(os.Args[1:])
	jsonPaths, yamlPaths, tomlPaths := config.CandidatePaths(userCfg)

	var cli cmd.CLI
	ctx := kong.Parse(&cli,
		kong.Name(config.AppName),
		kong.Description("Relay pointer control from a mobile device over WebSocket"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
		// Flags and env override config values
		kong.Configuration(kong.JSON, jsonPaths...),
		kong.Configuration(kongyaml.Loader, yamlPaths...),
		kong.Configuration(kongtoml.Loader, tomlPaths...),
	)

	logger, closeFiles, err := log.SetupLogger(cli.Log.Level, cli.Log.File)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to setup logger: " + err.Error() + "\n")
		os.Exit(2)
	}
	defer func() {
		for _, c := range closeFiles {
			_ = c.Close()
		}
	}()

	ctx.Bind(logger)

	if err := ctx.Run(); err != nil {
		logger.Error("Exiting", "command", ctx.Command(), "error", err)
		for _, c := range closeFiles {
			_ = c.Close()
		}
		os.Exit(1)
	}
}

// findUserConfig pulls --config out of the raw args before kong runs, since
// the config file feeds kong's own resolvers.
func findUserConfig(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if strings.HasPrefix(a, "--config=") {
			return a[len("--config="):]
		}
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	if v := os.Getenv("MOBILEMOUSE_CONFIG"); v != "" {
		return v
	}
	return ""
}
