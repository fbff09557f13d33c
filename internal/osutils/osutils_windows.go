//go:build windows

package osutils

import (
	"fmt"
	"log/slog"
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

// IsAdmin checks if the current process has administrative privileges
func IsAdmin() bool {
	var token windows.Token
	h, _ := windows.GetCurrentProcess()
	err := windows.OpenProcessToken(h, windows.TOKEN_QUERY, &token)
	if err != nil {
		return false
	}
	defer token.Close()

	var sid *windows.SID
	err = windows.AllocateAndInitializeSid(
		&windows.SECURITY_NT_AUTHORITY,
		2,
		windows.SECURITY_BUILTIN_DOMAIN_RID,
		windows.DOMAIN_ALIAS_RID_ADMINS,
		0, 0, 0, 0, 0, 0,
		&sid,
	)
	if err != nil {
		return false
	}
	defer windows.FreeSid(sid)

	member, err := token.IsMember(sid)
	if err != nil {
		return false
	}

	return member
}

// EnsureFirewallRule makes sure phones on the LAN can reach the relay port,
// creating the inbound rule with UAC elevation if needed.
func EnsureFirewallRule(port int, logger *slog.Logger) error {
	logger = logger.With("rule", FirewallRuleName, "port", port)
	logger.Debug("Firewall: Checking rule")

	output, err := exec.Command("netsh", "advfirewall", "firewall", "show", "rule", "name="+FirewallRuleName).CombinedOutput()
	if err == nil && ruleMatches(string(output), FirewallRuleName, port) {
		logger.Info("Firewall: Rule already exists")
		return nil
	}
	logger.Info("Firewall: Rule missing or stale, creating")

	psCommand := firewallScript(FirewallRuleName, port)

	if !IsAdmin() {
		logger.Info("Firewall: Process is not elevated, requesting UAC elevation")

		verbPtr, _ := syscall.UTF16PtrFromString("runas")
		exePtr, _ := syscall.UTF16PtrFromString("powershell.exe")
		argPtr, _ := syscall.UTF16PtrFromString(fmt.Sprintf("-NoProfile -WindowStyle Hidden -Command \"%s\"", psCommand))

		var showCmd int32 = 0 // SW_HIDE

		if err := windows.ShellExecute(0, verbPtr, exePtr, argPtr, nil, showCmd); err != nil {
			return fmt.Errorf("failed to launch elevated powershell via ShellExecute: %w", err)
		}
		logger.Info("Firewall: UAC prompt requested, check your screen or taskbar")
		return nil
	}

	cmd := exec.Command("powershell", "-NoProfile", "-Command", psCommand)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to create firewall rule: %w (Output: %s)", err, string(output))
	}
	logger.Info("Firewall: Rule created")
	return nil
}
