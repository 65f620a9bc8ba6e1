package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRecord(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveTurn("BALANCE", "sms", 12*time.Millisecond)
	m.ObserveTurn("BALANCE", "sms", 3*time.Millisecond)
	m.IncAuthOutcome("failed")
	m.IncLockout()
	m.IncFraudReport(false)
	m.IncEscalation()
	m.IncUnavailable("cards")
	m.IncClassifierError()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Turns.WithLabelValues("BALANCE", "sms")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthOutcomes.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Lockouts))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FraudReports.WithLabelValues("false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Escalations))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Unavailable.WithLabelValues("cards")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ClassifierErrs))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveTurn("BALANCE", "sms", time.Millisecond)
		m.IncAuthOutcome("verified")
		m.IncLockout()
		m.IncFraudReport(true)
		m.IncEscalation()
		m.IncUnavailable("x")
		m.IncClassifierError()
	})
}
