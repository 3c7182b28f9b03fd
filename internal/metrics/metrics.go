// Package metrics exposes Prometheus collectors for the parts of the
// server an operator needs live visibility into: how many rooms are
// active, how fast the simulation loop is ticking, how often the AI Agent
// falls back to its deterministic default, and how deep the TTS queue
// runs. Collector shape and nil-receiver safety follow the pack's own
// Prometheus usage.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector the server registers. A nil *Metrics is
// valid and every method is a no-op against it, so metrics can be disabled
// by passing nil through the constructors instead of special-casing every
// call site.
type Metrics struct {
	registry *prometheus.Registry

	roomsActive   prometheus.Gauge
	roomsCreated  prometheus.Counter
	simTicks      *prometheus.CounterVec
	simDuration   *prometheus.HistogramVec
	aiCalls       *prometheus.CounterVec
	aiFallbacks   *prometheus.CounterVec
	aiCallLatency *prometheus.HistogramVec
	ttsQueueDepth prometheus.Gauge
	ttsSynth      *prometheus.CounterVec
	ttsDuration   prometheus.Histogram
}

// New builds and registers every collector on a fresh registry.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.roomsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "tem", Subsystem: "room", Name: "active", Help: "Number of rooms currently in the store.",
	})
	m.roomsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tem", Subsystem: "room", Name: "created_total", Help: "Total rooms ever created.",
	})
	m.simTicks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tem", Subsystem: "simulation", Name: "ticks_total", Help: "Total Simulation Loop ticks processed.",
	}, []string{"room"})
	m.simDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tem", Subsystem: "simulation", Name: "scenario_duration_seconds",
		Help: "Wall-clock time a Phase-2 scenario ran before mission_complete.", Buckets: prometheus.ExponentialBuckets(10, 2, 8),
	}, []string{"scenario"})
	m.aiCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tem", Subsystem: "ai", Name: "calls_total", Help: "Total LLM calls issued by the AI Agent.",
	}, []string{"engine", "task"})
	m.aiFallbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tem", Subsystem: "ai", Name: "fallbacks_total", Help: "Total times the AI Agent used its deterministic fallback.",
	}, []string{"engine", "task"})
	m.aiCallLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tem", Subsystem: "ai", Name: "call_duration_seconds", Help: "LLM call duration in seconds.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	}, []string{"engine", "task"})
	m.ttsQueueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "tem", Subsystem: "tts", Name: "queue_depth", Help: "Synthesis jobs currently in flight or awaiting delivery.",
	})
	m.ttsSynth = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tem", Subsystem: "tts", Name: "synthesis_total", Help: "Total TTS synthesis attempts.",
	}, []string{"outcome"})
	m.ttsDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "tem", Subsystem: "tts", Name: "synthesis_duration_seconds", Help: "TTS synthesis call duration in seconds.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
	})

	m.registry.MustRegister(
		m.roomsActive, m.roomsCreated, m.simTicks, m.simDuration,
		m.aiCalls, m.aiFallbacks, m.aiCallLatency,
		m.ttsQueueDepth, m.ttsSynth, m.ttsDuration,
	)
	return m
}

// SetRoomsActive records the current room count.
func (m *Metrics) SetRoomsActive(n int) {
	if m == nil {
		return
	}
	m.roomsActive.Set(float64(n))
}

// IncRoomsCreated records a new room being created.
func (m *Metrics) IncRoomsCreated() {
	if m == nil {
		return
	}
	m.roomsCreated.Inc()
}

// IncSimTick records one 100ms Simulation Loop tick for a room.
func (m *Metrics) IncSimTick(roomID string) {
	if m == nil {
		return
	}
	m.simTicks.WithLabelValues(roomID).Inc()
}

// ObserveScenarioDuration records how long a Phase-2 scenario ran.
func (m *Metrics) ObserveScenarioDuration(scenario string, d time.Duration) {
	if m == nil {
		return
	}
	m.simDuration.WithLabelValues(scenario).Observe(d.Seconds())
}

// RecordAICall records one LLM call and its latency.
func (m *Metrics) RecordAICall(engine, task string, d time.Duration) {
	if m == nil {
		return
	}
	m.aiCalls.WithLabelValues(engine, task).Inc()
	m.aiCallLatency.WithLabelValues(engine, task).Observe(d.Seconds())
}

// RecordAIFallback records the AI Agent using its deterministic fallback
// instead of a usable LLM reply.
func (m *Metrics) RecordAIFallback(engine, task string) {
	if m == nil {
		return
	}
	m.aiFallbacks.WithLabelValues(engine, task).Inc()
}

// SetTTSQueueDepth records the current number of in-flight/queued TTS jobs.
func (m *Metrics) SetTTSQueueDepth(n int) {
	if m == nil {
		return
	}
	m.ttsQueueDepth.Set(float64(n))
}

// RecordTTSSynthesis records one synthesis attempt's outcome and duration.
func (m *Metrics) RecordTTSSynthesis(ok bool, d time.Duration) {
	if m == nil {
		return
	}
	outcome := "success"
	if !ok {
		outcome = "error"
	}
	m.ttsSynth.WithLabelValues(outcome).Inc()
	m.ttsDuration.Observe(d.Seconds())
}

// Handler returns the /metrics HTTP handler. A nil Metrics returns a
// handler that reports 503, so wiring can unconditionally mount it.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
