package adapters

import (
	"bufio"
	"fmt"
	"runtime"
	"strings"

	"netprofile-agent/internal/domain/errors"
	"netprofile-agent/internal/domain/interfaces"
)

// RealPlatformDetector decides which command vocabulary the host speaks.
// Windows hosts get netsh; Linux hosts get nmcli regardless of distribution
// (the distro id is only read for logging-grade detail).
type RealPlatformDetector struct {
	fileSystem interfaces.FileSystem
	goos       string
}

// NewRealPlatformDetector creates a new RealPlatformDetector
func NewRealPlatformDetector(fs interfaces.FileSystem) interfaces.PlatformDetector {
	return &RealPlatformDetector{fileSystem: fs, goos: runtime.GOOS}
}

// Detect returns the current platform
func (d *RealPlatformDetector) Detect() (interfaces.Platform, error) {
	switch d.goos {
	case "windows":
		return interfaces.PlatformWindows, nil
	case "linux":
		return interfaces.PlatformLinux, nil
	}
	return "", errors.NewSystemError(fmt.Sprintf("unsupported platform %q", d.goos), nil)
}

// DistroID reports the /etc/os-release ID on Linux, best-effort
func (d *RealPlatformDetector) DistroID() string {
	content, err := d.fileSystem.ReadFile("/etc/os-release")
	if err != nil {
		return ""
	}

	scanner := bufio.NewScanner(strings.NewReader(string(content)))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "ID=") {
			return strings.Trim(strings.TrimPrefix(line, "ID="), "\"")
		}
	}
	return ""
}
