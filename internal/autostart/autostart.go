// Package autostart starts the relay when the user logs in.
//
// macOS gets a LaunchAgent plist, Linux an XDG autostart desktop entry and
// Windows a value under the per-user Run registry key.
package autostart

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"text/template"
)

const label = "com.mobilemouse.relay"

// ErrUnsupportedPlatform is returned on systems without a login item mechanism
var ErrUnsupportedPlatform = errors.New("autostart not supported on this platform")

const macLaunchAgentPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
    <key>Label</key>
    <string>{{.Label}}</string>
    <key>ProgramArguments</key>
    <array>
        <string>{{.ExecutablePath}}</string>
{{- range .Args}}
        <string>{{.}}</string>
{{- end}}
    </array>
    <key>RunAtLoad</key>
    <true/>
    <key>KeepAlive</key>
    <false/>
</dict>
</plist>
`

const linuxDesktopEntry = `[Desktop Entry]
Type=Application
Name=Mobile Mouse
Comment=Relay pointer control from a mobile device
Exec={{execLine .ExecutablePath .Args}}
Terminal=false
X-GNOME-Autostart-enabled=true
`

type entry struct {
	Label          string
	ExecutablePath string
	Args           []string
}

// Enable registers the current executable, run with args, as a login item
func Enable(args ...string) error {
	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}
	if runtime.GOOS == "windows" {
		return enableWindows(commandLine(execPath, args))
	}

	path, err := entryPath(runtime.GOOS)
	if err != nil {
		return err
	}
	data, err := render(runtime.GOOS, entry{Label: label, ExecutablePath: execPath, Args: args})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Disable removes the login item. Removing a missing item is not an error.
func Disable() error {
	if runtime.GOOS == "windows" {
		return disableWindows()
	}
	path, err := entryPath(runtime.GOOS)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// IsEnabled checks if auto-start is enabled
func IsEnabled() bool {
	if runtime.GOOS == "windows" {
		return isEnabledWindows()
	}
	path, err := entryPath(runtime.GOOS)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// entryPath is where the login item file lives for goos
func entryPath(goos string) (string, error) {
	switch goos {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "LaunchAgents", label+".plist"), nil
	case "linux", "freebsd", "openbsd", "netbsd":
		dir := os.Getenv("XDG_CONFIG_HOME")
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			dir = filepath.Join(home, ".config")
		}
		return filepath.Join(dir, "autostart", "mobilemouse.desktop"), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedPlatform, goos)
	}
}

func render(goos string, e entry) ([]byte, error) {
	text := linuxDesktopEntry
	if goos == "darwin" {
		text = macLaunchAgentPlist
	}
	tmpl, err := template.New(goos).Funcs(template.FuncMap{"execLine": execLine}).Parse(text)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, e); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// execReserved are the characters that force quoting in a desktop entry
// Exec key
const execReserved = " \t\n\"'\\><~|&;$*?#()`"

// execArg quotes one Exec argument. Inside quotes ", `, $ and \ are
// backslash escaped, and % is doubled since it starts a field code.
func execArg(a string) string {
	if a != "" && !strings.ContainsAny(a, execReserved) {
		return strings.ReplaceAll(a, "%", "%%")
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range a {
		switch r {
		case '"', '`', '$', '\\':
			b.WriteByte('\\')
		case '%':
			b.WriteByte('%')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}

// execLine builds the Exec value. The whole value is a desktop entry string,
// so every backslash left by execArg is escaped once more.
func execLine(execPath string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, execArg(execPath))
	for _, a := range args {
		parts = append(parts, execArg(a))
	}
	return strings.ReplaceAll(strings.Join(parts, " "), `\`, `\\`)
}

// commandLine quotes the executable path for the Windows Run key
func commandLine(execPath string, args []string) string {
	var buf bytes.Buffer
	buf.WriteString(`"` + execPath + `"`)
	for _, a := range args {
		buf.WriteByte(' ')
		buf.WriteString(a)
	}
	return buf.String()
}
