// Package osutils holds the OS integration the relay needs outside of input
// injection: opening the listen port in the host firewall.
package osutils

import (
	"fmt"
	"strconv"
	"strings"
)

// FirewallRuleName is the display name of the inbound rule the relay manages
const FirewallRuleName = "Mobile Mouse Relay"

// firewallScript is the PowerShell that replaces the relay rule with one
// allowing inbound TCP on port.
func firewallScript(ruleName string, port int) string {
	return fmt.Sprintf(
		"Remove-NetFirewallRule -DisplayName '%s' -ErrorAction SilentlyContinue; New-NetFirewallRule -DisplayName '%s' -Direction Inbound -LocalPort %d -Protocol TCP -Action Allow -Profile Any",
		ruleName, ruleName, port,
	)
}

// ruleMatches reports whether netsh output describes an allow rule named
// ruleName for port.
func ruleMatches(output, ruleName string, port int) bool {
	if !strings.Contains(output, ruleName) || !strings.Contains(output, "Allow") {
		return false
	}
	for _, line := range strings.Split(output, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok || strings.TrimSpace(key) != "LocalPort" {
			continue
		}
		for _, p := range strings.Split(value, ",") {
			if strings.TrimSpace(p) == strconv.Itoa(port) {
				return true
			}
		}
	}
	return false
}
