package network

import (
	"errors"
	"testing"

	"netprofile-agent/internal/domain/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPlatformDetector struct {
	mock.Mock
}

func (m *MockPlatformDetector) Detect() (interfaces.Platform, error) {
	args := m.Called()
	return args.Get(0).(interfaces.Platform), args.Error(1)
}

func (m *MockPlatformDetector) DistroID() string {
	args := m.Called()
	return args.String(0)
}

func TestPlatformFactory(t *testing.T) {
	tests := []struct {
		name               string
		platform           interfaces.Platform
		detectErr          error
		wantTranslatorType interface{}
		wantInventoryType  interface{}
		wantErr            bool
	}{
		{
			name:               "windows",
			platform:           interfaces.PlatformWindows,
			wantTranslatorType: &NetshTranslator{},
			wantInventoryType:  &NetshInventory{},
		},
		{
			name:               "linux",
			platform:           interfaces.PlatformLinux,
			wantTranslatorType: &NmcliTranslator{},
			wantInventoryType:  &NmcliInventory{},
		},
		{
			name:      "unknown platform",
			platform:  interfaces.Platform("plan9"),
			wantErr:   true,
		},
		{
			name:      "detection failure",
			platform:  interfaces.Platform(""),
			detectErr: errors.New("cannot detect"),
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detector := new(MockPlatformDetector)
			detector.On("Detect").Return(tt.platform, tt.detectErr)

			factory := NewPlatformFactory(detector, new(MockCommandExecutor), quietLogger())

			translator, err := factory.CreateTranslator()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.IsType(t, tt.wantTranslatorType, translator)
			}

			inventory, err := factory.CreateInventory()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.IsType(t, tt.wantInventoryType, inventory)
			}
		})
	}
}
