package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the assistant's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	Turns          *prometheus.CounterVec
	AuthOutcomes   *prometheus.CounterVec
	Lockouts       prometheus.Counter
	FraudReports   *prometheus.CounterVec
	Escalations    prometheus.Counter
	Unavailable    *prometheus.CounterVec
	ClassifierErrs prometheus.Counter
	TurnDuration   *prometheus.HistogramVec
}

// New registers collectors on reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Turns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vaulta_turns_total",
			Help: "Conversation turns handled, by routed intent and channel",
		}, []string{"intent", "channel"}),
		AuthOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vaulta_auth_outcomes_total",
			Help: "Verification gate outcomes",
		}, []string{"outcome"}),
		Lockouts: f.NewCounter(prometheus.CounterOpts{
			Name: "vaulta_auth_lockouts_total",
			Help: "Sessions locked after too many failed verifications",
		}),
		FraudReports: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vaulta_fraud_reports_total",
			Help: "Fraud reports filed, by whether the caller was verified",
		}, []string{"verified"}),
		Escalations: f.NewCounter(prometheus.CounterOpts{
			Name: "vaulta_escalations_total",
			Help: "Sessions flagged for human follow-up",
		}),
		Unavailable: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vaulta_data_unavailable_total",
			Help: "Turns where a banking operation could not reach its data",
		}, []string{"op"}),
		ClassifierErrs: f.NewCounter(prometheus.CounterOpts{
			Name: "vaulta_classifier_errors_total",
			Help: "Intent classifier failures that degraded to an unknown intent",
		}),
		TurnDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vaulta_turn_duration_ms",
			Help:    "End-to-end turn latency in milliseconds",
			Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		}, []string{"channel"}),
	}
}

func (m *Metrics) ObserveTurn(intent, channel string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Turns.WithLabelValues(intent, channel).Inc()
	m.TurnDuration.WithLabelValues(channel).Observe(float64(elapsed.Microseconds()) / 1000)
}

func (m *Metrics) IncAuthOutcome(outcome string) {
	if m == nil {
		return
	}
	m.AuthOutcomes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncLockout() {
	if m == nil {
		return
	}
	m.Lockouts.Inc()
}

func (m *Metrics) IncFraudReport(verified bool) {
	if m == nil {
		return
	}
	label := "false"
	if verified {
		label = "true"
	}
	m.FraudReports.WithLabelValues(label).Inc()
}

func (m *Metrics) IncEscalation() {
	if m == nil {
		return
	}
	m.Escalations.Inc()
}

func (m *Metrics) IncUnavailable(op string) {
	if m == nil {
		return
	}
	m.Unavailable.WithLabelValues(op).Inc()
}

func (m *Metrics) IncClassifierError() {
	if m == nil {
		return
	}
	m.ClassifierErrs.Inc()
}
