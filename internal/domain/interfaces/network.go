package interfaces

import (
	"context"

	"netprofile-agent/internal/domain/entities"
)

// IntentTranslator turns structured intents into platform utility commands.
// Pure translation: no execution, no state.
type IntentTranslator interface {
	// Translate expands one intent into the ordered commands that realize it
	Translate(intent entities.Intent) ([]entities.Command, error)

	// PermissionDenied inspects a failed invocation for the platform's
	// privilege-denied signature, so callers can prompt for elevation
	// instead of retrying blindly.
	PermissionDenied(result *entities.CommandResult) bool
}

// InterfaceInventory is the read side against the OS. No caching: adapters
// and their state change out-of-band at any time, so every call re-queries.
type InterfaceInventory interface {
	// List enumerates adapters in OS-reported order
	List(ctx context.Context) ([]entities.InterfaceInfo, error)

	// Snapshot reads the live IPv4 configuration of one adapter
	Snapshot(ctx context.Context, name string) (*entities.NetworkConfig, error)

	// Status reports the operational state of one adapter
	Status(ctx context.Context, name string) (entities.InterfaceStatus, error)
}

// UndoLedger is the durable single-slot pre-change record per interface.
// Record must be durable before the mutating command is issued.
type UndoLedger interface {
	// Record stores the snapshot for an interface, overwriting any prior entry
	Record(ctx context.Context, snapshot entities.Snapshot) error

	// Get returns the retained snapshot, or nil if none exists
	Get(ctx context.Context, iface string) (*entities.Snapshot, error)

	// Clear removes the retained snapshot after a successful undo
	Clear(ctx context.Context, iface string) error
}

// ProfileStore owns the named, reusable configurations
type ProfileStore interface {
	// Save creates or replaces a profile
	Save(ctx context.Context, profile entities.Profile) error

	// Get returns a profile by its case-sensitive name
	Get(ctx context.Context, name string) (*entities.Profile, error)

	// List returns all profiles sorted by name
	List(ctx context.Context) ([]entities.Profile, error)

	// Delete removes a profile
	Delete(ctx context.Context, name string) error

	// Import merges profiles from an exported document, returning the count
	Import(ctx context.Context, doc []byte) (int, error)

	// Export renders all profiles as a document that Import round-trips
	Export(ctx context.Context) ([]byte, error)
}

// Translator resolves diagnostic message keys to operator-facing text.
// The engine itself never embeds user-facing strings.
type Translator interface {
	// Translate resolves a key; unknown keys pass through unchanged
	Translate(key string) string
}
