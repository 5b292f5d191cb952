// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Capture metrics
	RefreshesTotal    *prometheus.CounterVec
	RefreshDuration   prometheus.Histogram
	StaleDiscards     prometheus.Counter
	SnapshotsStored   prometheus.Counter
	HistoryRowsStored prometheus.Counter

	// Journal API metrics
	APICallLatency *prometheus.HistogramVec
	APICallErrors  *prometheus.CounterVec

	// Preference metrics
	PreferenceUpdates prometheus.Counter
	PreferenceFlushes *prometheus.CounterVec

	// Dashboard metrics
	WSClientsConnected prometheus.Gauge
	BroadcastsTotal    prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "trade_journal_lab"
	}

	return &Metrics{
		// Capture metrics
		RefreshesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "capture",
			Name:      "refreshes_total",
			Help:      "Total number of refresh cycles by status",
		}, []string{"status"}),
		RefreshDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "capture",
			Name:      "refresh_duration_seconds",
			Help:      "Duration of full fetch+compute refresh cycles",
			Buckets:   prometheus.DefBuckets,
		}),
		StaleDiscards: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "capture",
			Name:      "stale_discards_total",
			Help:      "Total number of refresh responses discarded as stale",
		}),
		SnapshotsStored: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "capture",
			Name:      "snapshots_stored_total",
			Help:      "Total number of snapshots persisted",
		}),
		HistoryRowsStored: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "capture",
			Name:      "history_rows_stored_total",
			Help:      "Total number of combination history rows persisted",
		}),

		// Journal API metrics
		APICallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "journal_api",
			Name:      "call_duration_seconds",
			Help:      "Duration of journal backend calls by endpoint",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		APICallErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "journal_api",
			Name:      "call_errors_total",
			Help:      "Total number of failed journal backend calls by endpoint",
		}, []string{"endpoint"}),

		// Preference metrics
		PreferenceUpdates: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "prefs",
			Name:      "updates_total",
			Help:      "Total number of preference updates accepted",
		}),
		PreferenceFlushes: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "prefs",
			Name:      "flushes_total",
			Help:      "Total number of debounced preference flushes by status",
		}, []string{"status"}),

		// Dashboard metrics
		WSClientsConnected: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "dashboard",
			Name:      "ws_clients_connected",
			Help:      "Number of currently connected WebSocket clients",
		}),
		BroadcastsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dashboard",
			Name:      "broadcasts_total",
			Help:      "Total number of refresh events broadcast to clients",
		}),
	}
}

// Handler returns the HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the process-wide metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordRefresh records one refresh cycle.
func RecordRefresh(status string, durationSeconds float64) {
	DefaultMetrics.RefreshesTotal.WithLabelValues(status).Inc()
	DefaultMetrics.RefreshDuration.Observe(durationSeconds)
}

// RecordStaleDiscard increments the stale discard counter.
func RecordStaleDiscard() {
	DefaultMetrics.StaleDiscards.Inc()
}

// RecordSnapshot records a persisted snapshot and its history rows.
func RecordSnapshot(historyRows int) {
	DefaultMetrics.SnapshotsStored.Inc()
	DefaultMetrics.HistoryRowsStored.Add(float64(historyRows))
}

// RecordAPICall records a journal backend call.
func RecordAPICall(endpoint string, seconds float64, err error) {
	DefaultMetrics.APICallLatency.WithLabelValues(endpoint).Observe(seconds)
	if err != nil {
		DefaultMetrics.APICallErrors.WithLabelValues(endpoint).Inc()
	}
}

// RecordPreferenceUpdate increments the preference update counter.
func RecordPreferenceUpdate() {
	DefaultMetrics.PreferenceUpdates.Inc()
}

// RecordPreferenceFlush records a debounced flush attempt.
func RecordPreferenceFlush(err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	DefaultMetrics.PreferenceFlushes.WithLabelValues(status).Inc()
}

// SetWSClients updates the connected client gauge.
func SetWSClients(n int) {
	DefaultMetrics.WSClientsConnected.Set(float64(n))
}

// RecordBroadcast increments the broadcast counter.
func RecordBroadcast() {
	DefaultMetrics.BroadcastsTotal.Inc()
}
