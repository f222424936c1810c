package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	RejectUnauthenticated = "unauthenticated"
	RejectIncomplete      = "incomplete"
	RejectUpload          = "upload"
	RejectPersist         = "persist"
)

// Metrics holds the domain counters. A nil *Metrics records nothing.
type Metrics struct {
	accepted prometheus.Counter
	rejected *prometheus.CounterVec
	exports  *prometheus.CounterVec
}

// NewMetrics creates the domain counters and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		accepted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "newsletter_submissions_accepted_total",
			Help: "Submissions persisted by the intake pipeline.",
		}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "newsletter_submissions_rejected_total",
			Help: "Submissions rejected by the intake pipeline, by reason.",
		}, []string{"reason"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "newsletter_exports_total",
			Help: "Newsletter exports, by format and outcome.",
		}, []string{"format", "outcome"}),
	}

	for _, c := range []prometheus.Collector{m.accepted, m.rejected, m.exports} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) submissionAccepted() {
	if m != nil {
		m.accepted.Inc()
	}
}

func (m *Metrics) submissionRejected(reason string) {
	if m != nil {
		m.rejected.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) export(format, outcome string) {
	if m != nil {
		m.exports.WithLabelValues(format, outcome).Inc()
	}
}
