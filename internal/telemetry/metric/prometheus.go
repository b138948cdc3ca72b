// Package metric provides Prometheus metrics for the REPL front end.
package metric

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "replfront"

// Session kinds used as label values.
const (
	KindLocal  = "local"
	KindRemote = "remote"
)

// Registry holds all application metrics.
// All recording methods are safe to call on a nil *Registry.
type Registry struct {
	registry *prometheus.Registry

	SessionsActive     *prometheus.GaugeVec
	SessionsCreated    *prometheus.CounterVec
	Evaluations        *prometheus.CounterVec
	EvaluationDuration prometheus.Histogram
	OutputLockWait     prometheus.Histogram
	HighlightRestores  *prometheus.CounterVec
	ConnectionErrors   *prometheus.CounterVec
}

// NewRegistry creates a registry with Go runtime and process collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Registry{
		registry: reg,
		SessionsActive: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Number of open REPL sessions.",
		}, []string{"kind"}),
		SessionsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_created_total",
			Help:      "Total number of REPL sessions created.",
		}, []string{"kind"}),
		Evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Total number of forms dispatched to the evaluator.",
		}, []string{"kind", "outcome"}),
		EvaluationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "evaluation_duration_seconds",
			Help:      "Time spent inside the evaluator per form.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}),
		OutputLockWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "output_lock_wait_seconds",
			Help:      "Time spent waiting for the global output lock.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 10, 8),
		}),
		HighlightRestores: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "highlight_restores_total",
			Help:      "Bracket highlight restorations by result.",
		}, []string{"result"}),
		ConnectionErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connection_errors_total",
			Help:      "Socket REPL connection failures by reason.",
		}, []string{"reason"}),
	}

	reg.MustRegister(
		r.SessionsActive,
		r.SessionsCreated,
		r.Evaluations,
		r.EvaluationDuration,
		r.OutputLockWait,
		r.HighlightRestores,
		r.ConnectionErrors,
	)

	return r
}

var (
	globalOnce sync.Once
	global     *Registry
)

// Global returns the process-wide registry.
func Global() *Registry {
	globalOnce.Do(func() {
		global = NewRegistry()
	})
	return global
}

// Handler returns an HTTP handler for the global registry.
func Handler() http.Handler {
	return Global().Handler()
}

// Handler returns an HTTP handler exposing this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry for tests and custom exporters.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// MustRegister registers additional collectors.
func (r *Registry) MustRegister(cs ...prometheus.Collector) {
	r.registry.MustRegister(cs...)
}

// SessionOpened records a new session of the given kind.
func (r *Registry) SessionOpened(kind string) {
	if r == nil {
		return
	}
	r.SessionsCreated.WithLabelValues(kind).Inc()
	r.SessionsActive.WithLabelValues(kind).Inc()
}

// SessionClosed records the end of a session of the given kind.
func (r *Registry) SessionClosed(kind string) {
	if r == nil {
		return
	}
	r.SessionsActive.WithLabelValues(kind).Dec()
}

// ObserveEvaluation records one dispatch and its latency.
func (r *Registry) ObserveEvaluation(kind string, exitCode int, d time.Duration) {
	if r == nil {
		return
	}
	outcome := "ok"
	if exitCode != 0 {
		outcome = "fatal"
	}
	r.Evaluations.WithLabelValues(kind, outcome).Inc()
	r.EvaluationDuration.Observe(d.Seconds())
}

// ObserveLockWait records how long a caller waited for the output lock.
func (r *Registry) ObserveLockWait(d time.Duration) {
	if r == nil {
		return
	}
	r.OutputLockWait.Observe(d.Seconds())
}

// HighlightRestore records a restoration that either executed or was superseded.
func (r *Registry) HighlightRestore(executed bool) {
	if r == nil {
		return
	}
	result := "superseded"
	if executed {
		result = "executed"
	}
	r.HighlightRestores.WithLabelValues(result).Inc()
}

// ConnectionError records a connection closed for reason.
func (r *Registry) ConnectionError(reason string) {
	if r == nil {
		return
	}
	r.ConnectionErrors.WithLabelValues(reason).Inc()
}

// KindOf maps a session id to its metric kind.
func KindOf(sessionID uint64) string {
	if sessionID == 0 {
		return KindLocal
	}
	return KindRemote
}
