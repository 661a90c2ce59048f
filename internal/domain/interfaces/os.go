package interfaces

import (
	"context"
	"time"

	"netprofile-agent/internal/domain/entities"
)

// CommandExecutor runs OS utilities. It performs no retries and no
// interpretation of output: a non-zero exit comes back in the CommandResult,
// not as an error. The returned error is reserved for spawn failures and
// timeouts. Invocations must never surface a console window to the operator.
type CommandExecutor interface {
	// Execute runs a command and returns its exit status and combined output
	Execute(ctx context.Context, command string, args ...string) (*entities.CommandResult, error)

	// ExecuteWithTimeout runs a command under a bounded deadline. A hung
	// utility returns a timeout error rather than hanging the caller.
	ExecuteWithTimeout(ctx context.Context, timeout time.Duration, command string, args ...string) (*entities.CommandResult, error)
}

// FileSystem abstracts the read-only file access the platform detector
// needs. This system mutates interfaces through OS utilities, never by
// writing files, so no write surface is exposed here.
type FileSystem interface {
	// ReadFile reads a file
	ReadFile(path string) ([]byte, error)
}

// Clock abstracts time for testing
type Clock interface {
	// Now returns the current time
	Now() time.Time
}

// Platform identifies which command vocabulary the host speaks
type Platform string

const (
	PlatformWindows Platform = "windows"
	PlatformLinux   Platform = "linux"
)

// PlatformDetector detects the host platform
type PlatformDetector interface {
	// Detect returns the current platform
	Detect() (Platform, error)

	// DistroID reports the OS distribution identifier, best-effort;
	// empty where the host has none (Windows) or it cannot be read
	DistroID() string
}
