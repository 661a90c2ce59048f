package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Transaction metrics
	TransactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netprofile_transactions_total",
			Help: "Total number of apply/undo transactions",
		},
		[]string{"operation", "status"}, // apply|undo, success|failed
	)

	TransactionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "netprofile_transaction_duration_seconds",
			Help:    "Time spent per apply/undo transaction",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "status"},
	)

	// Intent metrics
	IntentsExecuted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netprofile_intents_executed_total",
			Help: "Total number of configuration intents issued to the OS",
		},
		[]string{"kind", "status"}, // set-static-address etc.
	)

	PartialApplications = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "netprofile_partial_applications_total",
			Help: "Transactions that left an interface in a mixed state",
		},
	)

	// Error metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netprofile_errors_total",
			Help: "Total number of errors encountered",
		},
		[]string{"error_type"}, // VALIDATION, SNAPSHOT, APPLY, ...
	)

	// System info
	AgentInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "netprofile_agent_info",
			Help: "Agent information",
		},
		[]string{"version", "platform", "node_name"},
	)
)

// RecordTransaction records one finished transaction
func RecordTransaction(operation, status string, duration float64) {
	TransactionsTotal.WithLabelValues(operation, status).Inc()
	TransactionDuration.WithLabelValues(operation, status).Observe(duration)
}

// RecordIntent records one issued intent
func RecordIntent(kind, status string) {
	IntentsExecuted.WithLabelValues(kind, status).Inc()
}

// RecordPartialApplication records a transaction that stopped mid-sequence
func RecordPartialApplication() {
	PartialApplications.Inc()
}

// RecordError records an error occurrence by taxonomy type
func RecordError(errorType string) {
	ErrorsTotal.WithLabelValues(errorType).Inc()
}

// SetAgentInfo publishes static agent information
func SetAgentInfo(version, platform, nodeName string) {
	AgentInfo.WithLabelValues(version, platform, nodeName).Set(1)
}
