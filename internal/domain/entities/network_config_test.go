package entities

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetworkConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  NetworkConfig
		wantErr error
	}{
		{
			name:   "dhcp always valid",
			config: NetworkConfig{Mode: ModeDHCP},
		},
		{
			name: "dhcp with stale static fields still valid",
			config: NetworkConfig{
				Mode:    ModeDHCP,
				Address: "definitely not an ip",
			},
		},
		{
			name: "valid static",
			config: NetworkConfig{
				Mode:       ModeStatic,
				Address:    "192.168.1.10",
				SubnetMask: "255.255.255.0",
				Gateway:    "192.168.1.1",
				DNSServers: []string{"8.8.8.8", "1.1.1.1"},
			},
		},
		{
			name: "valid static without dns",
			config: NetworkConfig{
				Mode:       ModeStatic,
				Address:    "10.1.2.3",
				SubnetMask: "255.255.0.0",
				Gateway:    "10.1.0.1",
			},
		},
		{
			name:    "unknown mode",
			config:  NetworkConfig{Mode: "bootp"},
			wantErr: ErrInvalidMode,
		},
		{
			name:    "empty mode",
			config:  NetworkConfig{},
			wantErr: ErrInvalidMode,
		},
		{
			name: "octet out of range",
			config: NetworkConfig{
				Mode:       ModeStatic,
				Address:    "192.168.1.256",
				SubnetMask: "255.255.255.0",
				Gateway:    "192.168.1.1",
			},
			wantErr: ErrInvalidAddress,
		},
		{
			name: "ipv6 address rejected",
			config: NetworkConfig{
				Mode:       ModeStatic,
				Address:    "fe80::1",
				SubnetMask: "255.255.255.0",
				Gateway:    "192.168.1.1",
			},
			wantErr: ErrInvalidAddress,
		},
		{
			name: "non-contiguous mask",
			config: NetworkConfig{
				Mode:       ModeStatic,
				Address:    "192.168.1.10",
				SubnetMask: "255.0.255.0",
				Gateway:    "192.168.1.1",
			},
			wantErr: ErrInvalidSubnetMask,
		},
		{
			name: "mask is not an ip",
			config: NetworkConfig{
				Mode:       ModeStatic,
				Address:    "192.168.1.10",
				SubnetMask: "24",
				Gateway:    "192.168.1.1",
			},
			wantErr: ErrInvalidSubnetMask,
		},
		{
			name: "gateway malformed",
			config: NetworkConfig{
				Mode:       ModeStatic,
				Address:    "192.168.1.10",
				SubnetMask: "255.255.255.0",
				Gateway:    "gateway",
			},
			wantErr: ErrInvalidGateway,
		},
		{
			name: "gateway outside subnet",
			config: NetworkConfig{
				Mode:       ModeStatic,
				Address:    "192.168.1.10",
				SubnetMask: "255.255.255.0",
				Gateway:    "192.168.2.1",
			},
			wantErr: ErrGatewayOutsideSubnet,
		},
		{
			name: "gateway inside wider subnet",
			config: NetworkConfig{
				Mode:       ModeStatic,
				Address:    "192.168.1.10",
				SubnetMask: "255.255.0.0",
				Gateway:    "192.168.2.1",
			},
		},
		{
			name: "dns entry malformed",
			config: NetworkConfig{
				Mode:       ModeStatic,
				Address:    "192.168.1.10",
				SubnetMask: "255.255.255.0",
				Gateway:    "192.168.1.1",
				DNSServers: []string{"8.8.8.8", "dns.example.com"},
			},
			wantErr: ErrInvalidDNSServer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNetworkConfig_Normalized(t *testing.T) {
	dhcp := NetworkConfig{
		Mode:       ModeDHCP,
		Address:    "192.168.1.10",
		SubnetMask: "255.255.255.0",
		Gateway:    "192.168.1.1",
		DNSServers: []string{"8.8.8.8"},
	}
	normalized := dhcp.Normalized()
	assert.Equal(t, NetworkConfig{Mode: ModeDHCP}, normalized)

	static := NetworkConfig{
		Mode:       ModeStatic,
		Address:    "192.168.1.10",
		SubnetMask: "255.255.255.0",
		Gateway:    "192.168.1.1",
		DNSServers: []string{"8.8.8.8"},
	}
	copied := static.Normalized()
	copied.DNSServers[0] = "9.9.9.9"
	assert.Equal(t, "8.8.8.8", static.DNSServers[0], "Normalized must not alias the DNS slice")
}

func TestNetworkConfig_Equal(t *testing.T) {
	base := NetworkConfig{
		Mode:       ModeStatic,
		Address:    "192.168.1.10",
		SubnetMask: "255.255.255.0",
		Gateway:    "192.168.1.1",
		DNSServers: []string{"8.8.8.8", "1.1.1.1"},
	}

	same := base
	same.DNSServers = []string{"8.8.8.8", "1.1.1.1"}
	assert.True(t, base.Equal(same))

	// primary/secondary order matters
	reordered := base
	reordered.DNSServers = []string{"1.1.1.1", "8.8.8.8"}
	assert.False(t, base.Equal(reordered))

	otherAddr := base
	otherAddr.Address = "192.168.1.11"
	assert.False(t, base.Equal(otherAddr))

	// dhcp configs compare equal regardless of leftover fields
	a := NetworkConfig{Mode: ModeDHCP}
	b := NetworkConfig{Mode: ModeDHCP, Address: "192.168.1.10", DNSServers: []string{"8.8.8.8"}}
	assert.True(t, a.Equal(b))
}

func TestMaskPrefixConversion(t *testing.T) {
	tests := []struct {
		mask   string
		prefix int
	}{
		{"255.255.255.0", 24},
		{"255.255.0.0", 16},
		{"255.255.255.255", 32},
		{"0.0.0.0", 0},
		{"255.255.255.252", 30},
	}

	for _, tt := range tests {
		prefix, err := PrefixFromMask(tt.mask)
		require.NoError(t, err, tt.mask)
		assert.Equal(t, tt.prefix, prefix)

		mask, err := MaskFromPrefix(tt.prefix)
		require.NoError(t, err)
		assert.Equal(t, tt.mask, mask)
	}

	_, err := PrefixFromMask("255.0.255.0")
	assert.Error(t, err)

	_, err = MaskFromPrefix(33)
	assert.Error(t, err)
	_, err = MaskFromPrefix(-1)
	assert.Error(t, err)
}

func TestNetworkConfig_String(t *testing.T) {
	assert.Equal(t, "dhcp", NetworkConfig{Mode: ModeDHCP}.String())
	assert.Equal(t,
		"static 192.168.1.10/255.255.255.0 gw 192.168.1.1 dns 8.8.8.8,1.1.1.1",
		NetworkConfig{
			Mode:       ModeStatic,
			Address:    "192.168.1.10",
			SubnetMask: "255.255.255.0",
			Gateway:    "192.168.1.1",
			DNSServers: []string{"8.8.8.8", "1.1.1.1"},
		}.String())
}

func TestIntentsFor(t *testing.T) {
	t.Run("static expands to address, gateway, dns in order", func(t *testing.T) {
		intents := IntentsFor("eth0", NetworkConfig{
			Mode:       ModeStatic,
			Address:    "192.168.1.10",
			SubnetMask: "255.255.255.0",
			Gateway:    "192.168.1.1",
			DNSServers: []string{"8.8.8.8"},
		})

		require.Len(t, intents, 3)
		assert.Equal(t, IntentSetStaticAddress, intents[0].Kind)
		assert.Equal(t, IntentSetGateway, intents[1].Kind)
		assert.Equal(t, IntentSetDNSList, intents[2].Kind)

		// the gateway intent restates address and mask for utilities that
		// only accept them together
		assert.Equal(t, "192.168.1.10", intents[1].Address)
		assert.Equal(t, "255.255.255.0", intents[1].SubnetMask)
		assert.Equal(t, []string{"8.8.8.8"}, intents[2].DNSServers)
	})

	t.Run("dhcp expands to mode switch plus dns reset", func(t *testing.T) {
		intents := IntentsFor("eth0", NetworkConfig{Mode: ModeDHCP})

		require.Len(t, intents, 2)
		assert.Equal(t, IntentSetDHCP, intents[0].Kind)
		assert.Equal(t, IntentSetDNSList, intents[1].Kind)
		assert.Empty(t, intents[1].DNSServers)
	})
}

func TestNewInterfaceName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain", input: "eth0", want: "eth0"},
		{name: "windows display name with spaces", input: "Local Area Connection 2", want: "Local Area Connection 2"},
		{name: "surrounding whitespace trimmed", input: "  eth0  ", want: "eth0"},
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace only", input: "   ", wantErr: true},
		{name: "embedded newline", input: "eth0\nup", wantErr: true},
		{name: "nul byte", input: "eth0\x00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewInterfaceName(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidInterfaceName))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}
