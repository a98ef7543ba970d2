package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "chat_relay"

// Metrics groups the collectors of the relay. A nil *Metrics is valid and records nothing,
// so components can be built without a registry in tests.
type Metrics struct {
	eventsPosted      *prometheus.CounterVec
	eventsDelivered   prometheus.Counter
	eventsRedelivered prometheus.Counter
	eventsAcked       prometheus.Counter
	sessionsOpen      prometheus.Gauge
	backlogEvents     prometheus.Gauge
	pendingEvents     prometheus.Gauge
	coordinatorErrors *prometheus.CounterVec
	processRSS        prometheus.Gauge
	processCPU        prometheus.Gauge
	wsConnections     prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		eventsPosted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "broker", Name: "events_posted_total",
			Help: "Events appended to mailboxes, by event kind.",
		}, []string{"kind"}),
		eventsDelivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "broker", Name: "events_delivered_total",
			Help: "Events handed out in a fresh batch.",
		}),
		eventsRedelivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "broker", Name: "events_redelivered_total",
			Help: "Events handed out again after the ack timeout.",
		}),
		eventsAcked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "broker", Name: "events_acked_total",
			Help: "Events removed from pending batches by acknowledgement.",
		}),
		sessionsOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "broker", Name: "sessions_open",
			Help: "Currently open broker sessions.",
		}),
		backlogEvents: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "broker", Name: "backlog_events",
			Help: "Events waiting in mailbox backlogs.",
		}),
		pendingEvents: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "broker", Name: "pending_events",
			Help: "Events delivered and not yet acknowledged.",
		}),
		coordinatorErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "coordinator", Name: "errors_total",
			Help: "Coordinator failures, by operation and error kind.",
		}, []string{"op", "kind"}),
		processRSS: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "process", Name: "rss_bytes",
			Help: "Resident set size sampled by the telemetry worker.",
		}),
		processCPU: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "process", Name: "cpu_percent",
			Help: "CPU usage sampled by the telemetry worker.",
		}),
		wsConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "ws", Name: "connections",
			Help: "Open websocket connections.",
		}),
	}
	if reg != nil {
		reg.MustRegister(
			m.eventsPosted, m.eventsDelivered, m.eventsRedelivered, m.eventsAcked,
			m.sessionsOpen, m.backlogEvents, m.pendingEvents, m.coordinatorErrors,
			m.processRSS, m.processCPU, m.wsConnections,
		)
	}
	return m
}

func (m *Metrics) EventPosted(kind string, receivers int) {
	if m == nil || receivers == 0 {
		return
	}
	m.eventsPosted.WithLabelValues(kind).Add(float64(receivers))
}

func (m *Metrics) EventsDelivered(n int, redelivery bool) {
	if m == nil || n == 0 {
		return
	}
	if redelivery {
		m.eventsRedelivered.Add(float64(n))
		return
	}
	m.eventsDelivered.Add(float64(n))
}

func (m *Metrics) EventsAcked(n int) {
	if m == nil || n == 0 {
		return
	}
	m.eventsAcked.Add(float64(n))
}

func (m *Metrics) SessionOpened() {
	if m != nil {
		m.sessionsOpen.Inc()
	}
}

func (m *Metrics) SessionClosed() {
	if m != nil {
		m.sessionsOpen.Dec()
	}
}

func (m *Metrics) CoordinatorError(op, kind string) {
	if m != nil {
		m.coordinatorErrors.WithLabelValues(op, kind).Inc()
	}
}

func (m *Metrics) ConnectionOpened() {
	if m != nil {
		m.wsConnections.Inc()
	}
}

func (m *Metrics) ConnectionClosed() {
	if m != nil {
		m.wsConnections.Dec()
	}
}

// Telemetry is one sample taken by the telemetry worker.
type Telemetry struct {
	RSSBytes   uint64
	CPUPercent float64
	Backlog    int
	Pending    int
}

func (m *Metrics) RecordTelemetry(t Telemetry) {
	if m == nil {
		return
	}
	m.processRSS.Set(float64(t.RSSBytes))
	m.processCPU.Set(t.CPUPercent)
	m.backlogEvents.Set(float64(t.Backlog))
	m.pendingEvents.Set(float64(t.Pending))
}
