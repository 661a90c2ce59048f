package entities

// IntentKind identifies one discrete configuration change handed to the
// command layer.
type IntentKind string

const (
	IntentSetStaticAddress IntentKind = "set-static-address"
	IntentSetGateway       IntentKind = "set-gateway"
	IntentSetDNSList       IntentKind = "set-dns-list"
	IntentSetDHCP          IntentKind = "set-dhcp"
)

// Intent is a structured description of one configuration change. Translators
// turn it into platform commands; it carries the full target config so a
// translator may re-state fields its utility requires together (netsh sets
// the gateway only alongside address and mask).
type Intent struct {
	Kind       IntentKind
	Interface  string
	Address    string
	SubnetMask string
	Gateway    string
	DNSServers []string
}

// Command is a single OS utility invocation produced by a translator
type Command struct {
	Name string
	Args []string
}

// CommandResult is what the executor captured from one invocation
type CommandResult struct {
	ExitCode int
	Output   []byte
}

// IntentsFor expands a desired config into the ordered intent sequence for an
// interface. DNS is always a full ordered replace, never incremental adds, so
// no stale servers survive an apply. For DHCP the empty DNS list returns name
// resolution to the lease.
func IntentsFor(iface string, cfg NetworkConfig) []Intent {
	cfg = cfg.Normalized()
	if cfg.Mode == ModeDHCP {
		return []Intent{
			{Kind: IntentSetDHCP, Interface: iface},
			{Kind: IntentSetDNSList, Interface: iface},
		}
	}
	return []Intent{
		{Kind: IntentSetStaticAddress, Interface: iface, Address: cfg.Address, SubnetMask: cfg.SubnetMask},
		{Kind: IntentSetGateway, Interface: iface, Address: cfg.Address, SubnetMask: cfg.SubnetMask, Gateway: cfg.Gateway},
		{Kind: IntentSetDNSList, Interface: iface, DNSServers: cfg.DNSServers},
	}
}
