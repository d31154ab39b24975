package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"skillion-sdi/internal/domain"
)

func newTestMetrics() *Metrics {
	return NewMetrics("test", prometheus.NewRegistry())
}

func TestRecordSync(t *testing.T) {
	m := newTestMetrics()

	m.RecordSync(SyncOK)
	m.RecordSync(SyncOK)
	m.RecordSync(SyncRateLimited)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SyncRequests.WithLabelValues(SyncOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SyncRequests.WithLabelValues(SyncRateLimited)))
	assert.Greater(t, testutil.ToFloat64(m.LastSuccessfulSync), 0.0)
}

func TestRecordTrades(t *testing.T) {
	m := newTestMetrics()

	m.RecordTrades(10, 4)
	m.RecordTrades(5, 0)

	assert.Equal(t, 15.0, testutil.ToFloat64(m.TradesReceived))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.TradesIngested))
}

func TestRecordScore(t *testing.T) {
	m := newTestMetrics()

	m.RecordScore(&domain.ScoreResult{Score: 720, Tier: domain.TierArchitect}, 2*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.TierAssigned.WithLabelValues("architect")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ScoreValue))
}

func TestRecordPersistenceError(t *testing.T) {
	m := newTestMetrics()

	m.RecordPersistenceError("trades")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.PersistenceErrors.WithLabelValues("trades")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.PersistenceErrors.WithLabelValues("scores")))
}

func TestSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		newTestMetrics()
		newTestMetrics()
	})
}
