package adapters

import (
	"errors"
	"testing"

	"netprofile-agent/internal/domain/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubFileSystem struct {
	mock.Mock
}

func (m *stubFileSystem) ReadFile(path string) ([]byte, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func TestRealPlatformDetector_Detect(t *testing.T) {
	tests := []struct {
		goos    string
		want    interfaces.Platform
		wantErr bool
	}{
		{goos: "windows", want: interfaces.PlatformWindows},
		{goos: "linux", want: interfaces.PlatformLinux},
		{goos: "darwin", wantErr: true},
		{goos: "plan9", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			detector := &RealPlatformDetector{goos: tt.goos}
			platform, err := detector.Detect()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, platform)
		})
	}
}

func TestRealPlatformDetector_DistroID(t *testing.T) {
	fs := new(stubFileSystem)
	fs.On("ReadFile", "/etc/os-release").Return([]byte(`NAME="Ubuntu"
ID=ubuntu
ID_LIKE=debian
VERSION_ID="24.04"
`), nil)

	detector := &RealPlatformDetector{fileSystem: fs, goos: "linux"}
	assert.Equal(t, "ubuntu", detector.DistroID())
}

func TestRealPlatformDetector_DistroIDQuoted(t *testing.T) {
	fs := new(stubFileSystem)
	fs.On("ReadFile", "/etc/os-release").Return([]byte(`ID="rocky"`), nil)

	detector := &RealPlatformDetector{fileSystem: fs, goos: "linux"}
	assert.Equal(t, "rocky", detector.DistroID())
}

func TestRealPlatformDetector_DistroIDUnreadable(t *testing.T) {
	fs := new(stubFileSystem)
	fs.On("ReadFile", "/etc/os-release").Return(nil, errors.New("no such file"))

	detector := &RealPlatformDetector{fileSystem: fs, goos: "linux"}
	assert.Equal(t, "", detector.DistroID())
}
