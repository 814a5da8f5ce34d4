package service

import (
	"github.com/aussiebroadwan/studydesk/internal/studydesk/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the back-office collectors. A nil *Metrics records nothing.
type Metrics struct {
	actions       *prometheus.CounterVec
	auditFailures prometheus.Counter
	overview      *prometheus.GaugeVec
	idleSwept     prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studydesk",
			Name:      "admin_actions_total",
			Help:      "Successful mutating admin actions by audit action.",
		}, []string{"action"}),
		auditFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "studydesk",
			Name:      "audit_write_failures_total",
			Help:      "Audit entries that could not be written.",
		}),
		overview: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "studydesk",
			Name:      "overview",
			Help:      "Back-office headline counters, refreshed by housekeeping.",
		}, []string{"counter"}),
		idleSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "studydesk",
			Name:      "idle_sessions_swept_total",
			Help:      "Idle tracker entries dropped by housekeeping.",
		}),
	}
	reg.MustRegister(m.actions, m.auditFailures, m.overview, m.idleSwept)
	return m
}

func (m *Metrics) action(a domain.AuditAction) {
	if m != nil {
		m.actions.WithLabelValues(string(a)).Inc()
	}
}

func (m *Metrics) auditFailed() {
	if m != nil {
		m.auditFailures.Inc()
	}
}

func (m *Metrics) setOverview(o domain.Overview) {
	if m == nil {
		return
	}
	m.overview.WithLabelValues("total_users").Set(float64(o.TotalUsers))
	m.overview.WithLabelValues("active_trials").Set(float64(o.ActiveTrials))
	m.overview.WithLabelValues("active_paid").Set(float64(o.ActivePaid))
	m.overview.WithLabelValues("unused_codes").Set(float64(o.UnusedCodes))
	m.overview.WithLabelValues("banned_users").Set(float64(o.BannedUsers))
	m.overview.WithLabelValues("banned_devices").Set(float64(o.BannedDevices))
}

func (m *Metrics) swept(n int) {
	if m != nil {
		m.idleSwept.Add(float64(n))
	}
}
