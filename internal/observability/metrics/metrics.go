package metrics

import "github.com/prometheus/client_golang/prometheus"

// APIMetrics exposes counters for calls against the remote platform API.
type APIMetrics struct {
	requestsTotal *prometheus.CounterVec
}

func NewAPIMetrics(reg prometheus.Registerer) *APIMetrics {
	m := &APIMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fieldcms",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total requests issued to the platform API",
		}, []string{"path", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requestsTotal)
	return m
}

func (m *APIMetrics) ObserveRequest(path, status string) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(path, status).Inc()
}

// WizardMetrics counts booking wizard submissions by outcome.
type WizardMetrics struct {
	submissionsTotal *prometheus.CounterVec
}

func NewWizardMetrics(reg prometheus.Registerer) *WizardMetrics {
	m := &WizardMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fieldcms",
			Subsystem: "wizard",
			Name:      "submissions_total",
			Help:      "Total booking wizard submissions by outcome",
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal)
	return m
}

func (m *WizardMetrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome).Inc()
}

// RealtimeMetrics counts events received over the booking event channel.
type RealtimeMetrics struct {
	eventsTotal *prometheus.CounterVec
	reconnects  prometheus.Counter
}

func NewRealtimeMetrics(reg prometheus.Registerer) *RealtimeMetrics {
	m := &RealtimeMetrics{
		eventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fieldcms",
			Subsystem: "realtime",
			Name:      "events_total",
			Help:      "Total realtime events received by type",
		}, []string{"type"}),
		reconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fieldcms",
			Subsystem: "realtime",
			Name:      "reconnects_total",
			Help:      "Total reconnect attempts on the event channel",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.eventsTotal, m.reconnects)
	return m
}

func (m *RealtimeMetrics) ObserveEvent(eventType string) {
	if m == nil {
		return
	}
	m.eventsTotal.WithLabelValues(eventType).Inc()
}

func (m *RealtimeMetrics) ObserveReconnect() {
	if m == nil {
		return
	}
	m.reconnects.Inc()
}
