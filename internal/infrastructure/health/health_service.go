package health

import (
	"encoding/json"
	"fmt"
	"net/http"
	"netprofile-agent/internal/domain/interfaces"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// HealthService provides health check functionality
type HealthService struct {
	mu                  sync.RWMutex
	clock               interfaces.Clock
	logger              *logrus.Logger
	startTime           time.Time
	ledgerHealthy       bool
	ledgerError         error
	completedTxns       int64
	failedTxns          int64
	partialApplications int64
	platform            string
	distro              string
}

// HealthStatus represents health check status
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusDegraded  HealthStatus = "degraded"
	StatusUnhealthy HealthStatus = "unhealthy"
)

// HealthResponse is the health check response struct
type HealthResponse struct {
	Status     HealthStatus           `json:"status"`
	Timestamp  string                 `json:"timestamp"`
	LastCheck  string                 `json:"last_check"`
	Components map[string]interface{} `json:"components"`
	Statistics map[string]interface{} `json:"statistics"`
}

// NewHealthService creates a new HealthService
func NewHealthService(clock interfaces.Clock, logger *logrus.Logger) *HealthService {
	return &HealthService{
		clock:         clock,
		logger:        logger,
		startTime:     clock.Now(),
		ledgerHealthy: false,
	}
}

// UpdateLedgerHealth updates the undo ledger health status
func (h *HealthService) UpdateLedgerHealth(healthy bool, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.ledgerHealthy = healthy
	h.ledgerError = err
}

// IncrementCompletedTransactions increments the completed transaction count
func (h *HealthService) IncrementCompletedTransactions() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.completedTxns++
}

// IncrementFailedTransactions increments the failed transaction count
func (h *HealthService) IncrementFailedTransactions() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.failedTxns++
}

// IncrementPartialApplications increments the partial application count
func (h *HealthService) IncrementPartialApplications() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.partialApplications++
}

// SetPlatform sets the platform toolchain in use and the host distro (empty
// where the host has none)
func (h *HealthService) SetPlatform(platform, distro string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.platform = platform
	h.distro = distro
}

// ServeHTTP handles the HTTP health check endpoint
func (h *HealthService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := h.buildHealthResponse()

	statusCode := http.StatusOK
	if response.Status == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.WithError(err).Error("failed to encode health check response")
	}
}

// buildHealthResponse constructs the health check response
func (h *HealthService) buildHealthResponse() HealthResponse {
	h.mu.RLock()
	defer h.mu.RUnlock()

	now := h.clock.Now()

	status := h.determineOverallStatus()

	components := map[string]interface{}{
		"undo_ledger": map[string]interface{}{
			"healthy": h.ledgerHealthy,
			"error":   h.formatError(h.ledgerError),
		},
		"platform": map[string]interface{}{
			"toolchain": h.platform,
			"distro":    h.distro,
		},
	}

	statistics := map[string]interface{}{
		"completed_transactions": h.completedTxns,
		"failed_transactions":    h.failedTxns,
		"partial_applications":   h.partialApplications,
		"uptime":                 h.formatUptime(now.Sub(h.startTime)),
	}

	return HealthResponse{
		Status:     status,
		Timestamp:  now.Format(time.RFC3339),
		LastCheck:  now.Format(time.RFC3339),
		Components: components,
		Statistics: statistics,
	}
}

// determineOverallStatus determines the overall health status
func (h *HealthService) determineOverallStatus() HealthStatus {
	// Without a working ledger the undo guarantee is gone, so no
	// transaction can be accepted.
	if !h.ledgerHealthy {
		return StatusUnhealthy
	}

	// If half or more of recent transactions failed, status is degraded
	if h.completedTxns > 0 && h.failedTxns > 0 {
		failureRate := float64(h.failedTxns) / float64(h.completedTxns+h.failedTxns)
		if failureRate >= 0.5 {
			return StatusDegraded
		}
	}

	return StatusHealthy
}

// formatError formats an error to string
func (h *HealthService) formatError(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// formatUptime formats uptime duration to human-readable format
func (h *HealthService) formatUptime(duration time.Duration) string {
	days := int(duration.Hours()) / 24
	hours := int(duration.Hours()) % 24
	minutes := int(duration.Minutes()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd%dh%dm", days, hours, minutes)
	} else if hours > 0 {
		return fmt.Sprintf("%dh%dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
