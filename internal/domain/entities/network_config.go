package entities

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

// Mode is the IPv4 addressing mode of an interface
type Mode string

const (
	ModeStatic Mode = "static"
	ModeDHCP   Mode = "dhcp"
)

// NetworkConfig is an immutable value object describing the desired (or
// observed) IPv4 configuration of a single interface. For ModeDHCP the
// address-bearing fields are ignored; Normalized clears them.
type NetworkConfig struct {
	Mode       Mode     `yaml:"mode" json:"mode"`
	Address    string   `yaml:"address,omitempty" json:"address,omitempty"`
	SubnetMask string   `yaml:"subnet_mask,omitempty" json:"subnet_mask,omitempty"`
	Gateway    string   `yaml:"gateway,omitempty" json:"gateway,omitempty"`
	DNSServers []string `yaml:"dns_servers,omitempty" json:"dns_servers,omitempty"`
}

// Validation sentinels. Callers map these to diagnostic keys with errors.Is.
var (
	ErrInvalidMode          = errors.New("unknown addressing mode")
	ErrInvalidAddress       = errors.New("invalid IPv4 address")
	ErrInvalidSubnetMask    = errors.New("invalid subnet mask")
	ErrInvalidGateway       = errors.New("invalid IPv4 gateway")
	ErrGatewayOutsideSubnet = errors.New("gateway outside the address's network")
	ErrInvalidDNSServer     = errors.New("invalid IPv4 DNS server")
)

// Validate checks the value-object invariants. It performs no OS interaction.
func (c NetworkConfig) Validate() error {
	switch c.Mode {
	case ModeDHCP:
		return nil
	case ModeStatic:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMode, c.Mode)
	}

	addr := net.ParseIP(c.Address)
	if addr == nil || addr.To4() == nil {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, c.Address)
	}

	mask, err := parseSubnetMask(c.SubnetMask)
	if err != nil {
		return err
	}

	gw := net.ParseIP(c.Gateway)
	if gw == nil || gw.To4() == nil {
		return fmt.Errorf("%w: %q", ErrInvalidGateway, c.Gateway)
	}

	network := addr.To4().Mask(mask)
	if !network.Equal(gw.To4().Mask(mask)) {
		return fmt.Errorf("%w: %s not in %s/%s", ErrGatewayOutsideSubnet, c.Gateway, network, c.SubnetMask)
	}

	for _, dns := range c.DNSServers {
		ip := net.ParseIP(dns)
		if ip == nil || ip.To4() == nil {
			return fmt.Errorf("%w: %q", ErrInvalidDNSServer, dns)
		}
	}

	return nil
}

// Normalized returns a copy with the address-bearing fields cleared for DHCP
// mode, so that snapshots and stored profiles compare by meaning.
func (c NetworkConfig) Normalized() NetworkConfig {
	if c.Mode == ModeDHCP {
		return NetworkConfig{Mode: ModeDHCP}
	}
	out := c
	out.DNSServers = append([]string(nil), c.DNSServers...)
	return out
}

// Equal compares two configs by meaning. DNS order is significant
// (primary/secondary).
func (c NetworkConfig) Equal(other NetworkConfig) bool {
	a, b := c.Normalized(), other.Normalized()
	if a.Mode != b.Mode || a.Address != b.Address || a.SubnetMask != b.SubnetMask || a.Gateway != b.Gateway {
		return false
	}
	if len(a.DNSServers) != len(b.DNSServers) {
		return false
	}
	for i := range a.DNSServers {
		if a.DNSServers[i] != b.DNSServers[i] {
			return false
		}
	}
	return true
}

// PrefixLength converts the dotted subnet mask to a prefix length.
// Only meaningful for a validated static config.
func (c NetworkConfig) PrefixLength() (int, error) {
	mask, err := parseSubnetMask(c.SubnetMask)
	if err != nil {
		return 0, err
	}
	ones, _ := mask.Size()
	return ones, nil
}

// String renders a compact operator-facing summary.
func (c NetworkConfig) String() string {
	if c.Mode == ModeDHCP {
		return "dhcp"
	}
	s := fmt.Sprintf("static %s/%s gw %s", c.Address, c.SubnetMask, c.Gateway)
	if len(c.DNSServers) > 0 {
		s += " dns " + strings.Join(c.DNSServers, ",")
	}
	return s
}

// parseSubnetMask parses a dotted IPv4 netmask and rejects non-contiguous masks.
func parseSubnetMask(s string) (net.IPMask, error) {
	ip := net.ParseIP(s)
	if ip == nil || ip.To4() == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSubnetMask, s)
	}
	mask := net.IPMask(ip.To4())
	ones, bits := mask.Size()
	if bits != 32 || (ones == 0 && s != "0.0.0.0") {
		return nil, fmt.Errorf("%w: non-contiguous %q", ErrInvalidSubnetMask, s)
	}
	return mask, nil
}

// PrefixFromMask converts a dotted IPv4 netmask to a prefix length.
func PrefixFromMask(mask string) (int, error) {
	m, err := parseSubnetMask(mask)
	if err != nil {
		return 0, err
	}
	ones, _ := m.Size()
	return ones, nil
}

// MaskFromPrefix converts a prefix length to a dotted IPv4 netmask.
func MaskFromPrefix(prefix int) (string, error) {
	if prefix < 0 || prefix > 32 {
		return "", fmt.Errorf("invalid prefix length %d", prefix)
	}
	mask := net.CIDRMask(prefix, 32)
	return net.IP(mask).String(), nil
}

// Snapshot is the pre-change configuration of an interface, captured
// immediately before every apply and consumed only by undo.
type Snapshot struct {
	Interface  string        `json:"interface"`
	Config     NetworkConfig `json:"config"`
	CapturedAt time.Time     `json:"captured_at"`
}

// Profile is a named, reusable NetworkConfig. Names are case-sensitive.
type Profile struct {
	Name   string        `yaml:"name" json:"name"`
	Config NetworkConfig `yaml:"config" json:"config"`
}
