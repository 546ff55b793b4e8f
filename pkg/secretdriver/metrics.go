package secretdriver

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts connection-flow events, labeled by dialect subprefix.
// A nil *Metrics is a valid no-op receiver, so instrumentation stays
// optional.
type Metrics struct {
	connectAttempts *prometheus.CounterVec
	authRetries     *prometheus.CounterVec
	refreshFailures *prometheus.CounterVec
}

// NewMetrics creates connection-flow metrics and registers them with
// reg. Pass prometheus.DefaultRegisterer for the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		connectAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "secretsql",
			Name:      "connect_attempts_total",
			Help:      "Connection attempts forwarded to the real driver.",
		}, []string{"dialect"}),
		authRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "secretsql",
			Name:      "auth_retries_total",
			Help:      "Authentication failures that triggered a forced secret refresh.",
		}, []string{"dialect"}),
		refreshFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "secretsql",
			Name:      "refresh_failures_total",
			Help:      "Forced secret refreshes that reported failure.",
		}, []string{"dialect"}),
	}
	reg.MustRegister(m.connectAttempts, m.authRetries, m.refreshFailures)
	return m
}

func (m *Metrics) connectAttempt(dialect string) {
	if m == nil {
		return
	}
	m.connectAttempts.WithLabelValues(dialect).Inc()
}

func (m *Metrics) authRetry(dialect string) {
	if m == nil {
		return
	}
	m.authRetries.WithLabelValues(dialect).Inc()
}

func (m *Metrics) refreshFailure(dialect string) {
	if m == nil {
		return
	}
	m.refreshFailures.WithLabelValues(dialect).Inc()
}
