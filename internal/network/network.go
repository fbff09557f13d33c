// Package network provides local address discovery and relay status lookups.
package network

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"mobilemouse/internal/protocol"
)

// Status is what a running relay reports on /api/status
type Status struct {
	Clients int              `json:"clients"`
	Config  protocol.Welcome `json:"config"`
}

// GetLocalIP returns the primary local IP address
func GetLocalIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "", err
	}
	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)
	return localAddr.IP.String(), nil
}

// GetLocalIPs returns all available local IPv4 addresses
func GetLocalIPs() ([]string, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	var ips []string
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 {
			continue // interface down
		}
		if iface.Flags&net.FlagLoopback != 0 {
			continue // loopback interface
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			if ip := ipv4(addr); ip != "" {
				ips = append(ips, ip)
			}
		}
	}
	return ips, nil
}

func ipv4(addr net.Addr) string {
	var ip net.IP
	switch v := addr.(type) {
	case *net.IPNet:
		ip = v.IP
	case *net.IPAddr:
		ip = v.IP
	}
	if ip == nil || ip.IsLoopback() {
		return ""
	}
	ip = ip.To4()
	if ip == nil {
		return "" // not an ipv4 address
	}
	return ip.String()
}

// ConnectURLs lists the ws:// URLs a phone on the LAN can use to reach a
// relay bound to host:port. A wildcard host expands to every local IPv4
// address, falling back to the primary one.
func ConnectURLs(host string, port int) []string {
	hosts := []string{host}
	if host == "" || host == "0.0.0.0" || host == "::" {
		hosts = nil
		if ips, err := GetLocalIPs(); err == nil {
			hosts = ips
		}
		if len(hosts) == 0 {
			if ip, err := GetLocalIP(); err == nil {
				hosts = []string{ip}
			}
		}
		if len(hosts) == 0 {
			hosts = []string{"localhost"}
		}
	}

	urls := make([]string, 0, len(hosts))
	for _, h := range hosts {
		urls = append(urls, "ws://"+net.JoinHostPort(h, strconv.Itoa(port)))
	}
	return urls
}

// FetchStatus checks the relay at addr (host:port) for health and returns its
// reported status.
func FetchStatus(ctx context.Context, addr string) (Status, error) {
	client := &http.Client{
		Timeout: 2 * time.Second,
	}

	// First check health endpoint
	if err := getJSON(ctx, client, fmt.Sprintf("http://%s/health", addr), nil); err != nil {
		return Status{}, fmt.Errorf("health check: %w", err)
	}

	var status Status
	if err := getJSON(ctx, client, fmt.Sprintf("http://%s/api/status", addr), &status); err != nil {
		return Status{}, fmt.Errorf("status: %w", err)
	}
	return status, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
