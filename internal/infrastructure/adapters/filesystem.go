package adapters

import (
	"os"

	"netprofile-agent/internal/domain/interfaces"
)

// RealFileSystem is a FileSystem implementation backed by the OS
type RealFileSystem struct{}

// NewRealFileSystem creates a new RealFileSystem
func NewRealFileSystem() interfaces.FileSystem {
	return &RealFileSystem{}
}

// ReadFile reads a file
func (fs *RealFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
