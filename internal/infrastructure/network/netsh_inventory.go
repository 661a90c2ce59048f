package network

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"netprofile-agent/internal/domain/entities"
	"netprofile-agent/internal/domain/interfaces"

	"github.com/sirupsen/logrus"
)

const inventoryTimeout = 15 * time.Second

var (
	ipv4Pattern = regexp.MustCompile(`(\d{1,3}(?:\.\d{1,3}){3})`)
	maskPattern = regexp.MustCompile(`mask\s+(\d{1,3}(?:\.\d{1,3}){3})`)
)

// NetshInventory reads live adapter state on Windows by parsing netsh output.
// Never cached: adapters appear and disappear out-of-band.
type NetshInventory struct {
	executor interfaces.CommandExecutor
	logger   *logrus.Logger
}

// NewNetshInventory creates a new NetshInventory
func NewNetshInventory(executor interfaces.CommandExecutor, logger *logrus.Logger) *NetshInventory {
	return &NetshInventory{executor: executor, logger: logger}
}

// List enumerates adapters in the order netsh reports them, excluding
// loopback and tunnel pseudo-adapters
func (inv *NetshInventory) List(ctx context.Context) ([]entities.InterfaceInfo, error) {
	result, err := inv.executor.ExecuteWithTimeout(ctx, inventoryTimeout, "netsh", "interface", "show", "interface")
	if err != nil {
		return nil, err
	}
	if result.ExitCode != 0 {
		return nil, fmt.Errorf("netsh interface listing exited %d: %s", result.ExitCode, result.Output)
	}

	var infos []entities.InterfaceInfo
	lines := strings.Split(string(result.Output), "\n")
	for i, line := range lines {
		// The first three lines are header and separator
		if i < 3 {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) < 4 {
			continue
		}
		name := strings.Join(parts[3:], " ")
		if isPseudoAdapter(name) {
			continue
		}
		infos = append(infos, entities.InterfaceInfo{
			Name:   name,
			Status: netshStatus(parts[0], parts[1]),
		})
	}
	return infos, nil
}

// Status reports the operational state of one adapter; unknown if the OS
// no longer lists it
func (inv *NetshInventory) Status(ctx context.Context, name string) (entities.InterfaceStatus, error) {
	infos, err := inv.List(ctx)
	if err != nil {
		return entities.StatusUnknown, err
	}
	for _, info := range infos {
		if info.Name == name {
			return info.Status, nil
		}
	}
	return entities.StatusUnknown, nil
}

// Snapshot reads the live IPv4 configuration of one adapter from
// "netsh interface ip show config" and "show dns"
func (inv *NetshInventory) Snapshot(ctx context.Context, name string) (*entities.NetworkConfig, error) {
	result, err := inv.executor.ExecuteWithTimeout(ctx, inventoryTimeout, "netsh",
		"interface", "ip", "show", "config", "name="+name)
	if err != nil {
		return nil, err
	}
	if result.ExitCode != 0 {
		return nil, fmt.Errorf("netsh config read for %q exited %d: %s", name, result.ExitCode, result.Output)
	}

	cfg := entities.NetworkConfig{}
	dhcp := false
	for _, line := range strings.Split(string(result.Output), "\n") {
		l := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(l, "DHCP enabled") && strings.Contains(l, "Yes"):
			dhcp = true
		case strings.HasPrefix(l, "IP Address"):
			if m := ipv4Pattern.FindString(l); m != "" {
				cfg.Address = m
			}
		case strings.HasPrefix(l, "Subnet Prefix"):
			if m := maskPattern.FindStringSubmatch(l); m != nil {
				cfg.SubnetMask = m[1]
			}
		case strings.HasPrefix(l, "Default Gateway"):
			if m := ipv4Pattern.FindString(l); m != "" {
				cfg.Gateway = m
			}
		}
	}

	if dhcp {
		return &entities.NetworkConfig{Mode: entities.ModeDHCP}, nil
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("no IPv4 configuration visible for %q", name)
	}
	cfg.Mode = entities.ModeStatic

	dnsResult, err := inv.executor.ExecuteWithTimeout(ctx, inventoryTimeout, "netsh",
		"interface", "ip", "show", "dns", "name="+name)
	if err == nil && dnsResult.ExitCode == 0 {
		for _, line := range strings.Split(string(dnsResult.Output), "\n") {
			if m := ipv4Pattern.FindString(line); m != "" {
				cfg.DNSServers = append(cfg.DNSServers, m)
			}
		}
	} else {
		inv.logger.WithField("interface", name).Warn("DNS servers could not be read; snapshot omits them")
	}

	return &cfg, nil
}

func netshStatus(adminState, connectState string) entities.InterfaceStatus {
	if adminState == "Disabled" {
		return entities.StatusDisabled
	}
	switch connectState {
	case "Connected":
		return entities.StatusConnected
	case "Disconnected":
		return entities.StatusDisconnected
	}
	return entities.StatusUnknown
}

func isPseudoAdapter(name string) bool {
	lower := strings.ToLower(name)
	for _, marker := range []string{"loopback", "isatap", "teredo"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
