// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"skillion-sdi/internal/domain"
)

// Sync outcome labels.
const (
	SyncOK           = "ok"
	SyncInvalidToken = "invalid_token"
	SyncRateLimited  = "rate_limited"
	SyncBadRequest   = "bad_request"
	SyncError        = "error"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Sync metrics
	SyncRequests   *prometheus.CounterVec
	TradesReceived prometheus.Counter
	TradesIngested prometheus.Counter

	// Scoring metrics
	ScoreDuration prometheus.Histogram
	ScoreValue    prometheus.Histogram
	TierAssigned  *prometheus.CounterVec

	// Storage metrics
	PersistenceErrors *prometheus.CounterVec

	// HTTP metrics
	HTTPRequestDuration *prometheus.HistogramVec

	// Health metrics
	LastSuccessfulSync prometheus.Gauge
}

// NewMetrics creates a new Metrics instance registered with reg.
// A nil reg uses the default Prometheus registry.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "skillion_sdi"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		SyncRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "requests_total",
			Help:      "Total number of connector sync requests by outcome",
		}, []string{"status"}),
		TradesReceived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "trades_received_total",
			Help:      "Total number of trades received from connectors",
		}),
		TradesIngested: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "trades_ingested_total",
			Help:      "Total number of previously unseen trades stored",
		}),

		ScoreDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "compute_duration_seconds",
			Help:      "Score computation duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		ScoreValue: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "score",
			Help:      "Distribution of computed scores",
			Buckets:   prometheus.LinearBuckets(100, 100, 10),
		}),
		TierAssigned: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "tier_assigned_total",
			Help:      "Total number of computed scores by tier",
		}, []string{"tier"}),

		PersistenceErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "errors_total",
			Help:      "Total number of persistence errors by store",
		}, []string{"store"}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "code"}),

		LastSuccessfulSync: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_sync_timestamp",
			Help:      "Unix timestamp of last successful sync",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("", nil)

// RecordSync counts one sync request with the given outcome.
func (m *Metrics) RecordSync(status string) {
	m.SyncRequests.WithLabelValues(status).Inc()
	if status == SyncOK {
		m.LastSuccessfulSync.SetToCurrentTime()
	}
}

// RecordTrades counts received and newly stored trades.
func (m *Metrics) RecordTrades(received, ingested int) {
	m.TradesReceived.Add(float64(received))
	m.TradesIngested.Add(float64(ingested))
}

// RecordScore records one score computation.
func (m *Metrics) RecordScore(r *domain.ScoreResult, d time.Duration) {
	m.ScoreDuration.Observe(d.Seconds())
	m.ScoreValue.Observe(float64(r.Score))
	m.TierAssigned.WithLabelValues(string(r.Tier)).Inc()
}

// RecordPersistenceError counts a failed write or read against store.
func (m *Metrics) RecordPersistenceError(store string) {
	m.PersistenceErrors.WithLabelValues(store).Inc()
}

// RecordHTTPRequest records the duration of one HTTP request.
func (m *Metrics) RecordHTTPRequest(route string, code int, d time.Duration) {
	m.HTTPRequestDuration.WithLabelValues(route, strconv.Itoa(code)).Observe(d.Seconds())
}
