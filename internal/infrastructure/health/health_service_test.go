package health

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockClock struct {
	mock.Mock
}

func (m *MockClock) Now() time.Time {
	args := m.Called()
	return args.Get(0).(time.Time)
}

func newTestHealthService() *HealthService {
	clock := new(MockClock)
	clock.On("Now").Return(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewHealthService(clock, logger)
}

func getHealth(t *testing.T, service *HealthService) (int, HealthResponse) {
	t.Helper()
	recorder := httptest.NewRecorder()
	service.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var response HealthResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	return recorder.Code, response
}

func TestHealthService_UnhealthyWithoutLedger(t *testing.T) {
	service := newTestHealthService()

	// the undo guarantee depends on the ledger, so it starts unhealthy
	code, response := getHealth(t, service)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, StatusUnhealthy, response.Status)

	service.UpdateLedgerHealth(true, nil)
	code, response = getHealth(t, service)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, StatusHealthy, response.Status)

	service.UpdateLedgerHealth(false, errors.New("database is locked"))
	code, response = getHealth(t, service)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	ledger := response.Components["undo_ledger"].(map[string]interface{})
	assert.Equal(t, false, ledger["healthy"])
	assert.Equal(t, "database is locked", ledger["error"])
}

func TestHealthService_DegradedOnHighFailureRate(t *testing.T) {
	service := newTestHealthService()
	service.UpdateLedgerHealth(true, nil)

	service.IncrementCompletedTransactions()
	service.IncrementFailedTransactions()

	code, response := getHealth(t, service)
	assert.Equal(t, http.StatusOK, code, "degraded still answers 200")
	assert.Equal(t, StatusDegraded, response.Status)
}

func TestHealthService_Statistics(t *testing.T) {
	service := newTestHealthService()
	service.UpdateLedgerHealth(true, nil)
	service.SetPlatform("linux", "ubuntu")

	for i := 0; i < 3; i++ {
		service.IncrementCompletedTransactions()
	}
	service.IncrementPartialApplications()

	_, response := getHealth(t, service)
	assert.Equal(t, float64(3), response.Statistics["completed_transactions"])
	assert.Equal(t, float64(1), response.Statistics["partial_applications"])
	platform := response.Components["platform"].(map[string]interface{})
	assert.Equal(t, "linux", platform["toolchain"])
	assert.Equal(t, "ubuntu", platform["distro"])
}

func TestHealthService_RejectsNonGet(t *testing.T) {
	service := newTestHealthService()

	recorder := httptest.NewRecorder()
	service.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/healthz", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, recorder.Code)
}
