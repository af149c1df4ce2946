// Package metrics provides Prometheus metrics for the precision
// verification service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Verification metrics
	clicksRecorded     *prometheus.CounterVec
	accuracyMismatches prometheus.Counter
	malformedReports   prometheus.Counter
	ledgerResets       prometheus.Counter

	// State gauges
	ledgerSize  prometheus.Gauge
	targetCount prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "precision",
		subsystem:        "verify",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.clicksRecorded = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "clicks_recorded_total",
			Help:      "Total number of click reports appended to the ledger by result",
		},
		[]string{"result"},
	)

	m.accuracyMismatches = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "accuracy_mismatches_total",
		Help:      "Reports whose client-claimed success disagrees with the server recomputation",
	})

	m.malformedReports = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "malformed_reports_total",
		Help:      "Payloads rejected for missing or mistyped fields",
	})

	m.ledgerResets = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ledger_resets_total",
		Help:      "Times the click ledger was explicitly cleared",
	})

	m.ledgerSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ledger_size",
		Help:      "Current number of click reports in the ledger",
	})

	m.targetCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "target_count",
		Help:      "Number of targets in the currently registered batch",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// GetRegistry returns the custom registry used by the global manager, for
// serving via promhttp.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers operating on the global manager.

// RecordClick counts one appended click report by pass/fail result.
func RecordClick(success bool) {
	if !globalManager.enabled {
		return
	}
	result := "fail"
	if success {
		result = "pass"
	}
	globalManager.clicksRecorded.WithLabelValues(result).Inc()
}

// RecordAccuracyMismatch counts a client/server success disagreement.
func RecordAccuracyMismatch() {
	if !globalManager.enabled {
		return
	}
	globalManager.accuracyMismatches.Inc()
}

// RecordMalformedReport counts a rejected payload.
func RecordMalformedReport() {
	if !globalManager.enabled {
		return
	}
	globalManager.malformedReports.Inc()
}

// RecordLedgerReset counts an explicit clear.
func RecordLedgerReset() {
	if !globalManager.enabled {
		return
	}
	globalManager.ledgerResets.Inc()
}

// UpdateLedgerSize sets the current ledger size gauge.
func UpdateLedgerSize(n int) {
	if !globalManager.enabled {
		return
	}
	globalManager.ledgerSize.Set(float64(n))
}

// UpdateTargetCount sets the current target batch size gauge.
func UpdateTargetCount(n int) {
	if !globalManager.enabled {
		return
	}
	globalManager.targetCount.Set(float64(n))
}

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes one HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}
