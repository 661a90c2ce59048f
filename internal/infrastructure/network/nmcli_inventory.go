package network

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"netprofile-agent/internal/domain/entities"
	"netprofile-agent/internal/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// NmcliInventory reads live adapter state on Linux by parsing nmcli
// terse output. Never cached.
type NmcliInventory struct {
	executor interfaces.CommandExecutor
	logger   *logrus.Logger
}

// NewNmcliInventory creates a new NmcliInventory
func NewNmcliInventory(executor interfaces.CommandExecutor, logger *logrus.Logger) *NmcliInventory {
	return &NmcliInventory{executor: executor, logger: logger}
}

// List enumerates adapters in nmcli's order, excluding loopback devices
func (inv *NmcliInventory) List(ctx context.Context) ([]entities.InterfaceInfo, error) {
	result, err := inv.executor.ExecuteWithTimeout(ctx, inventoryTimeout, "nmcli",
		"-t", "-f", "DEVICE,TYPE,STATE", "device", "status")
	if err != nil {
		return nil, err
	}
	if result.ExitCode != 0 {
		return nil, fmt.Errorf("nmcli device status exited %d: %s", result.ExitCode, result.Output)
	}

	var infos []entities.InterfaceInfo
	for _, line := range strings.Split(strings.TrimSpace(string(result.Output)), "\n") {
		parts := strings.SplitN(line, ":", 3)
		if len(parts) != 3 || parts[0] == "" || parts[1] == "loopback" {
			continue
		}
		infos = append(infos, entities.InterfaceInfo{
			Name:   parts[0],
			Status: nmcliStatus(parts[2]),
		})
	}
	return infos, nil
}

// Status reports the operational state of one adapter; unknown if nmcli
// no longer lists it
func (inv *NmcliInventory) Status(ctx context.Context, name string) (entities.InterfaceStatus, error) {
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

// Snapshot reads the live IPv4 configuration of one adapter. Addresses come
// from the device, the addressing mode from its connection profile.
func (inv *NmcliInventory) Snapshot(ctx context.Context, name string) (*entities.NetworkConfig, error) {
	result, err := inv.executor.ExecuteWithTimeout(ctx, inventoryTimeout, "nmcli",
		"-t", "-f", "IP4.ADDRESS,IP4.GATEWAY,IP4.DNS", "device", "show", name)
	if err != nil {
		return nil, err
	}
	if result.ExitCode != 0 {
		return nil, fmt.Errorf("nmcli device show %q exited %d: %s", name, result.ExitCode, result.Output)
	}

	cfg := entities.NetworkConfig{}
	for _, line := range strings.Split(string(result.Output), "\n") {
		parts := strings.SplitN(strings.TrimSpace(line), ":", 2)
		if len(parts) != 2 || parts[1] == "" {
			continue
		}
		field, value := parts[0], parts[1]
		switch {
		case strings.HasPrefix(field, "IP4.ADDRESS") && cfg.Address == "":
			addr, mask, err := splitCIDR(value)
			if err != nil {
				return nil, fmt.Errorf("unparseable address %q for %q: %w", value, name, err)
			}
			cfg.Address, cfg.SubnetMask = addr, mask
		case field == "IP4.GATEWAY":
			cfg.Gateway = value
		case strings.HasPrefix(field, "IP4.DNS"):
			cfg.DNSServers = append(cfg.DNSServers, value)
		}
	}

	cfg.Mode = inv.addressingMode(ctx, name, cfg.Address != "")
	if cfg.Mode == entities.ModeDHCP {
		return &entities.NetworkConfig{Mode: entities.ModeDHCP}, nil
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("no IPv4 configuration visible for %q", name)
	}
	return &cfg, nil
}

// addressingMode asks the connection profile whether the device leases its
// address. Without a readable profile it falls back on whether an address
// is present.
func (inv *NmcliInventory) addressingMode(ctx context.Context, name string, hasAddress bool) entities.Mode {
	result, err := inv.executor.ExecuteWithTimeout(ctx, inventoryTimeout, "nmcli",
		"-t", "-f", "ipv4.method", "connection", "show", name)
	if err == nil && result.ExitCode == 0 {
		for _, line := range strings.Split(string(result.Output), "\n") {
			parts := strings.SplitN(strings.TrimSpace(line), ":", 2)
			if len(parts) == 2 && parts[0] == "ipv4.method" {
				if parts[1] == "auto" {
					return entities.ModeDHCP
				}
				return entities.ModeStatic
			}
		}
	}
	inv.logger.WithField("interface", name).Debug("no readable connection profile; inferring mode from live address")
	if hasAddress {
		return entities.ModeStatic
	}
	return entities.ModeDHCP
}

func nmcliStatus(state string) entities.InterfaceStatus {
	switch {
	case strings.HasPrefix(state, "connected"):
		return entities.StatusConnected
	case strings.HasPrefix(state, "disconnected"):
		return entities.StatusDisconnected
	case strings.HasPrefix(state, "unavailable"), strings.HasPrefix(state, "unmanaged"):
		return entities.StatusDisabled
	}
	return entities.StatusUnknown
}

// splitCIDR turns "10.0.0.5/24" into the address and the dotted mask
func splitCIDR(value string) (string, string, error) {
	parts := strings.SplitN(value, "/", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("missing prefix length")
	}
	prefix, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", "", err
	}
	mask, err := entities.MaskFromPrefix(prefix)
	if err != nil {
		return "", "", err
	}
	return parts[0], mask, nil
}
