package network

import (
	"fmt"

	"netprofile-agent/internal/domain/errors"
	"netprofile-agent/internal/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// PlatformFactory creates the translator and inventory matching the host's
// command vocabulary
type PlatformFactory struct {
	detector interfaces.PlatformDetector
	executor interfaces.CommandExecutor
	logger   *logrus.Logger
}

// NewPlatformFactory creates a new PlatformFactory
func NewPlatformFactory(
	detector interfaces.PlatformDetector,
	executor interfaces.CommandExecutor,
	logger *logrus.Logger,
) *PlatformFactory {
	return &PlatformFactory{
		detector: detector,
		executor: executor,
		logger:   logger,
	}
}

// CreateTranslator returns the IntentTranslator for the detected platform
func (f *PlatformFactory) CreateTranslator() (interfaces.IntentTranslator, error) {
	platform, err := f.detector.Detect()
	if err != nil {
		return nil, err
	}

	switch platform {
	case interfaces.PlatformWindows:
		return NewNetshTranslator(), nil
	case interfaces.PlatformLinux:
		return NewNmcliTranslator(), nil
	}
	return nil, errors.NewSystemError(fmt.Sprintf("no translator for platform %q", platform), nil)
}

// CreateInventory returns the InterfaceInventory for the detected platform
func (f *PlatformFactory) CreateInventory() (interfaces.InterfaceInventory, error) {
	platform, err := f.detector.Detect()
	if err != nil {
		return nil, err
	}

	switch platform {
	case interfaces.PlatformWindows:
		return NewNetshInventory(f.executor, f.logger), nil
	case interfaces.PlatformLinux:
		return NewNmcliInventory(f.executor, f.logger), nil
	}
	return nil, errors.NewSystemError(fmt.Sprintf("no inventory for platform %q", platform), nil)
}
