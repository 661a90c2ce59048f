package network

import (
	"fmt"
	"strings"

	"netprofile-agent/internal/domain/entities"
)

// NetshTranslator renders intents as netsh invocations for Windows hosts.
// The gateway can only be stated together with address and mask, so the
// set-gateway intent re-issues the full static address statement.
type NetshTranslator struct{}

// NewNetshTranslator creates a new NetshTranslator
func NewNetshTranslator() *NetshTranslator {
	return &NetshTranslator{}
}

// Translate expands one intent into netsh commands
func (t *NetshTranslator) Translate(intent entities.Intent) ([]entities.Command, error) {
	name := "name=" + intent.Interface

	switch intent.Kind {
	case entities.IntentSetStaticAddress:
		return []entities.Command{{
			Name: "netsh",
			Args: []string{
				"interface", "ip", "set", "address", name,
				"source=static",
				"addr=" + intent.Address,
				"mask=" + intent.SubnetMask,
			},
		}}, nil

	case entities.IntentSetGateway:
		return []entities.Command{{
			Name: "netsh",
			Args: []string{
				"interface", "ip", "set", "address", name,
				"source=static",
				"addr=" + intent.Address,
				"mask=" + intent.SubnetMask,
				"gateway=" + intent.Gateway,
				"gwmetric=1",
			},
		}}, nil

	case entities.IntentSetDNSList:
		if len(intent.DNSServers) == 0 {
			return []entities.Command{{
				Name: "netsh",
				Args: []string{"interface", "ip", "set", "dns", name, "dhcp"},
			}}, nil
		}
		// Full ordered replace: "set dns static <primary>" drops every
		// existing server, then the rest are added at explicit indexes so
		// primary/secondary order is deterministic.
		commands := []entities.Command{{
			Name: "netsh",
			Args: []string{"interface", "ip", "set", "dns", name, "static", intent.DNSServers[0]},
		}}
		for i, server := range intent.DNSServers[1:] {
			commands = append(commands, entities.Command{
				Name: "netsh",
				Args: []string{
					"interface", "ip", "add", "dns", name, server,
					fmt.Sprintf("index=%d", i+2),
				},
			})
		}
		return commands, nil

	case entities.IntentSetDHCP:
		return []entities.Command{{
			Name: "netsh",
			Args: []string{"interface", "ip", "set", "address", name, "dhcp"},
		}}, nil
	}

	return nil, fmt.Errorf("unknown intent kind %q", intent.Kind)
}

// PermissionDenied recognizes the elevation-required wording netsh emits
// when run without administrator rights
func (t *NetshTranslator) PermissionDenied(result *entities.CommandResult) bool {
	if result == nil || result.ExitCode == 0 {
		return false
	}
	output := strings.ToLower(string(result.Output))
	return strings.Contains(output, "elevation") ||
		strings.Contains(output, "administrator") ||
		strings.Contains(output, "access is denied")
}
