package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Pipeline records inventory mutation outcomes and their side effects.
type Pipeline struct {
	mutations *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	alerts    *prometheus.CounterVec
	warnings  *prometheus.CounterVec
}

// NewPipeline registers the pipeline metrics on the provided registerer.
func NewPipeline(reg prometheus.Registerer) *Pipeline {
	if reg == nil {
		return &Pipeline{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_mutations_total",
		Help: "Inventory mutations by kind and outcome.",
	}, []string{"kind", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inventory_mutation_duration_seconds",
		Help:    "Duration of inventory mutations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
	alerts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "alerts_created_total",
		Help: "Alerts created by type and severity.",
	}, []string{"type", "severity"})
	warnings := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_mutation_warnings_total",
		Help: "Best-effort steps that failed after a mutation was persisted.",
	}, []string{"step"})
	reg.MustRegister(mutations, duration, alerts, warnings)
	return &Pipeline{
		mutations: mutations,
		duration:  duration,
		alerts:    alerts,
		warnings:  warnings,
	}
}

func (p *Pipeline) ObserveMutation(kind, outcome string, took time.Duration) {
	if p == nil || p.mutations == nil {
		return
	}
	p.mutations.WithLabelValues(normalizeLabel(kind), normalizeLabel(outcome)).Inc()
	p.duration.WithLabelValues(normalizeLabel(kind)).Observe(took.Seconds())
}

func (p *Pipeline) IncAlert(alertType, severity string) {
	if p == nil || p.alerts == nil {
		return
	}
	p.alerts.WithLabelValues(normalizeLabel(alertType), normalizeLabel(severity)).Inc()
}

func (p *Pipeline) IncWarning(step string) {
	if p == nil || p.warnings == nil {
		return
	}
	p.warnings.WithLabelValues(normalizeLabel(step)).Inc()
}

// Escalation records out-of-band notification attempts.
type Escalation struct {
	results *prometheus.CounterVec
	queued  prometheus.Gauge
}

func NewEscalation(reg prometheus.Registerer) *Escalation {
	if reg == nil {
		return &Escalation{}
	}
	results := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "escalations_total",
		Help: "Escalation attempts by result.",
	}, []string{"result"})
	queued := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "escalation_queue_depth",
		Help: "Escalations waiting for a worker.",
	})
	reg.MustRegister(results, queued)
	return &Escalation{results: results, queued: queued}
}

// IncResult counts one outcome: sent, failed, skipped, duplicate or dropped.
func (e *Escalation) IncResult(result string) {
	if e == nil || e.results == nil {
		return
	}
	e.results.WithLabelValues(normalizeLabel(result)).Inc()
}

func (e *Escalation) SetQueueDepth(n int) {
	if e == nil || e.queued == nil {
		return
	}
	e.queued.Set(float64(n))
}

// Realtime records live connection counts and emitted events.
type Realtime struct {
	clients prometheus.Gauge
	events  *prometheus.CounterVec
	dropped prometheus.Counter
}

func NewRealtime(reg prometheus.Registerer) *Realtime {
	if reg == nil {
		return &Realtime{}
	}
	clients := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "realtime_clients",
		Help: "Connected realtime clients.",
	})
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "realtime_events_total",
		Help: "Realtime events emitted by name.",
	}, []string{"event"})
	dropped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "realtime_deliveries_dropped_total",
		Help: "Deliveries skipped because a client buffer was full.",
	})
	reg.MustRegister(clients, events, dropped)
	return &Realtime{clients: clients, events: events, dropped: dropped}
}

func (r *Realtime) SetClients(n int) {
	if r == nil || r.clients == nil {
		return
	}
	r.clients.Set(float64(n))
}

func (r *Realtime) IncEvent(event string) {
	if r == nil || r.events == nil {
		return
	}
	r.events.WithLabelValues(normalizeLabel(event)).Inc()
}

func (r *Realtime) IncDropped() {
	if r == nil || r.dropped == nil {
		return
	}
	r.dropped.Inc()
}

// HTTP records request counts and latency per route pattern.
type HTTP struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewHTTP(reg prometheus.Registerer) *HTTP {
	if reg == nil {
		return &HTTP{}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	reg.MustRegister(requests, duration)
	return &HTTP{requests: requests, duration: duration}
}

func (h *HTTP) Observe(method, route string, status int, took time.Duration) {
	if h == nil || h.requests == nil {
		return
	}
	h.requests.WithLabelValues(normalizeLabel(method), normalizeLabel(route), strconv.Itoa(status)).Inc()
	h.duration.WithLabelValues(normalizeLabel(method), normalizeLabel(route)).Observe(took.Seconds())
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
