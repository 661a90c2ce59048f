package network

import (
	"testing"

	"netprofile-agent/internal/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetshTranslator_Translate(t *testing.T) {
	translator := NewNetshTranslator()

	tests := []struct {
		name     string
		intent   entities.Intent
		expected [][]string
	}{
		{
			name: "static address",
			intent: entities.Intent{
				Kind:       entities.IntentSetStaticAddress,
				Interface:  "Ethernet",
				Address:    "192.168.1.10",
				SubnetMask: "255.255.255.0",
			},
			expected: [][]string{
				{"interface", "ip", "set", "address", "name=Ethernet", "source=static", "addr=192.168.1.10", "mask=255.255.255.0"},
			},
		},
		{
			name: "gateway restates address and mask",
			intent: entities.Intent{
				Kind:       entities.IntentSetGateway,
				Interface:  "Ethernet",
				Address:    "192.168.1.10",
				SubnetMask: "255.255.255.0",
				Gateway:    "192.168.1.1",
			},
			expected: [][]string{
				{"interface", "ip", "set", "address", "name=Ethernet", "source=static", "addr=192.168.1.10", "mask=255.255.255.0", "gateway=192.168.1.1", "gwmetric=1"},
			},
		},
		{
			name: "dns list sets primary then adds the rest by index",
			intent: entities.Intent{
				Kind:       entities.IntentSetDNSList,
				Interface:  "Ethernet",
				DNSServers: []string{"8.8.8.8", "1.1.1.1", "9.9.9.9"},
			},
			expected: [][]string{
				{"interface", "ip", "set", "dns", "name=Ethernet", "static", "8.8.8.8"},
				{"interface", "ip", "add", "dns", "name=Ethernet", "1.1.1.1", "index=2"},
				{"interface", "ip", "add", "dns", "name=Ethernet", "9.9.9.9", "index=3"},
			},
		},
		{
			name: "empty dns list returns resolution to dhcp",
			intent: entities.Intent{
				Kind:      entities.IntentSetDNSList,
				Interface: "Ethernet",
			},
			expected: [][]string{
				{"interface", "ip", "set", "dns", "name=Ethernet", "dhcp"},
			},
		},
		{
			name: "dhcp",
			intent: entities.Intent{
				Kind:      entities.IntentSetDHCP,
				Interface: "Ethernet",
			},
			expected: [][]string{
				{"interface", "ip", "set", "address", "name=Ethernet", "dhcp"},
			},
		},
		{
			name: "display name with spaces stays a single argument",
			intent: entities.Intent{
				Kind:      entities.IntentSetDHCP,
				Interface: "Local Area Connection 2",
			},
			expected: [][]string{
				{"interface", "ip", "set", "address", "name=Local Area Connection 2", "dhcp"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			commands, err := translator.Translate(tt.intent)
			require.NoError(t, err)
			require.Len(t, commands, len(tt.expected))
			for i, cmd := range commands {
				assert.Equal(t, "netsh", cmd.Name)
				assert.Equal(t, tt.expected[i], cmd.Args)
			}
		})
	}
}

func TestNetshTranslator_UnknownIntent(t *testing.T) {
	_, err := NewNetshTranslator().Translate(entities.Intent{Kind: "set-mtu"})
	assert.Error(t, err)
}

func TestNetshTranslator_PermissionDenied(t *testing.T) {
	translator := NewNetshTranslator()

	tests := []struct {
		name   string
		result *entities.CommandResult
		want   bool
	}{
		{
			name:   "elevation wording",
			result: &entities.CommandResult{ExitCode: 1, Output: []byte("The requested operation requires elevation (Run as administrator).")},
			want:   true,
		},
		{
			name:   "access denied wording",
			result: &entities.CommandResult{ExitCode: 1, Output: []byte("Access is denied.")},
			want:   true,
		},
		{
			name:   "ordinary failure",
			result: &entities.CommandResult{ExitCode: 1, Output: []byte("The filename, directory name, or volume label syntax is incorrect.")},
			want:   false,
		},
		{
			name:   "zero exit never reads as denial",
			result: &entities.CommandResult{ExitCode: 0, Output: []byte("administrator")},
			want:   false,
		},
		{
			name:   "nil result",
			result: nil,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, translator.PermissionDenied(tt.result))
		})
	}
}
