package network

import (
	"fmt"
	"strings"

	"netprofile-agent/internal/domain/entities"
)

// nmcli exits 4 when the caller lacks the polkit privilege for the operation
const nmcliExitPermission = 4

// NmcliTranslator renders intents as nmcli invocations for Linux hosts.
// Every intent ends with a device reapply so the change reaches the live
// adapter, not just the stored connection profile.
type NmcliTranslator struct{}

// NewNmcliTranslator creates a new NmcliTranslator
func NewNmcliTranslator() *NmcliTranslator {
	return &NmcliTranslator{}
}

// Translate expands one intent into nmcli commands
func (t *NmcliTranslator) Translate(intent entities.Intent) ([]entities.Command, error) {
	reapply := entities.Command{
		Name: "nmcli",
		Args: []string{"device", "reapply", intent.Interface},
	}

	switch intent.Kind {
	case entities.IntentSetStaticAddress:
		prefix, err := entities.PrefixFromMask(intent.SubnetMask)
		if err != nil {
			return nil, err
		}
		return []entities.Command{
			{
				Name: "nmcli",
				Args: []string{
					"connection", "modify", intent.Interface,
					"ipv4.method", "manual",
					"ipv4.addresses", fmt.Sprintf("%s/%d", intent.Address, prefix),
				},
			},
			reapply,
		}, nil

	case entities.IntentSetGateway:
		return []entities.Command{
			{
				Name: "nmcli",
				Args: []string{
					"connection", "modify", intent.Interface,
					"ipv4.gateway", intent.Gateway,
				},
			},
			reapply,
		}, nil

	case entities.IntentSetDNSList:
		// Whole-list replace, order preserved; an empty list hands name
		// resolution back to the lease.
		dns := strings.Join(intent.DNSServers, " ")
		ignoreAuto := "yes"
		if len(intent.DNSServers) == 0 {
			ignoreAuto = "no"
		}
		return []entities.Command{
			{
				Name: "nmcli",
				Args: []string{
					"connection", "modify", intent.Interface,
					"ipv4.dns", dns,
					"ipv4.ignore-auto-dns", ignoreAuto,
				},
			},
			reapply,
		}, nil

	case entities.IntentSetDHCP:
		return []entities.Command{
			{
				Name: "nmcli",
				Args: []string{
					"connection", "modify", intent.Interface,
					"ipv4.method", "auto",
					"ipv4.addresses", "",
					"ipv4.gateway", "",
				},
			},
			reapply,
		}, nil
	}

	return nil, fmt.Errorf("unknown intent kind %q", intent.Kind)
}

// PermissionDenied recognizes nmcli's insufficient-privileges exit
func (t *NmcliTranslator) PermissionDenied(result *entities.CommandResult) bool {
	if result == nil || result.ExitCode == 0 {
		return false
	}
	if result.ExitCode == nmcliExitPermission {
		return true
	}
	output := strings.ToLower(string(result.Output))
	return strings.Contains(output, "insufficient privileges") ||
		strings.Contains(output, "not authorized")
}
