// metrics — Prometheus-метрики iso-board: доменные счётчики сервиса и HTTP-запросы.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "iso_board"

// Metrics реализует service.Recorder и принимает наблюдения HTTP-слоя.
type Metrics struct {
	proposals        *prometheus.CounterVec
	aiCalls          *prometheus.CounterVec
	threadsDestroyed prometheus.Counter
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

// New регистрирует метрики в reg (в проде — prometheus.DefaultRegisterer).
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		proposals: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "proposals_total",
			Help:      "Proposals by outcome.",
		}, []string{"outcome"}),
		aiCalls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_calls_total",
			Help:      "Generator calls by kind and outcome.",
		}, []string{"kind", "outcome"}),
		threadsDestroyed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "threads_destroyed_total",
			Help:      "Threads permanently deleted from an inbox.",
		}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func (m *Metrics) Proposal(outcome string) {
	m.proposals.WithLabelValues(outcome).Inc()
}

func (m *Metrics) AICall(kind, outcome string) {
	m.aiCalls.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) ThreadDestroyed() {
	m.threadsDestroyed.Inc()
}

// ObserveHTTP учитывает запрос. route — шаблон маршрута chi, а не сырой путь.
func (m *Metrics) ObserveHTTP(method, route string, status int, dur time.Duration) {
	if route == "" {
		route = "unmatched"
	}

	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(dur.Seconds())
}
