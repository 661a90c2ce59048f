package entities

import (
	"errors"
	"strings"
)

// InterfaceStatus is the operational state the OS reports for an adapter
type InterfaceStatus string

const (
	StatusConnected    InterfaceStatus = "connected"
	StatusDisconnected InterfaceStatus = "disconnected"
	StatusDisabled     InterfaceStatus = "disabled"
	StatusUnknown      InterfaceStatus = "unknown"
)

// InterfaceInfo pairs an OS-reported adapter name with its operational state.
// The OS owns the name; it is looked up fresh on every operation.
type InterfaceInfo struct {
	Name   string          `json:"name"`
	Status InterfaceStatus `json:"status"`
}

// InterfaceName is a value object wrapping an OS adapter handle
type InterfaceName struct {
	value string
}

var ErrInvalidInterfaceName = errors.New("invalid interface name")

// NewInterfaceName validates and wraps an adapter name. The name is opaque to
// this system, but an empty or control-character name can never address an
// adapter and would corrupt command lines.
func NewInterfaceName(name string) (InterfaceName, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || len(trimmed) > 256 {
		return InterfaceName{}, ErrInvalidInterfaceName
	}
	if strings.ContainsAny(trimmed, "\x00\n\r") {
		return InterfaceName{}, ErrInvalidInterfaceName
	}
	return InterfaceName{value: trimmed}, nil
}

// String returns the adapter name as the OS reported it
func (n InterfaceName) String() string {
	return n.value
}
