// Package metrics holds the Prometheus collectors of the scheduling engine
// and its HTTP surface.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is served on /metrics.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

func init() {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}

// =============================================================================
// Engine
// =============================================================================

var SlotSearchDuration = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "fss",
	Name:      "slot_search_duration_seconds",
	Help:      "Time spent searching feasible slots for one resource",
	Buckets:   prometheus.DefBuckets,
})

// AutoScheduleTotal counts auto-schedule attempts by outcome
// (scheduled, no_candidate, no_slot, conflict, error).
var AutoScheduleTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "fss",
	Name:      "auto_schedule_total",
	Help:      "Auto-schedule attempts by outcome",
}, []string{"outcome"})

var OptimizationRunsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "fss",
	Name:      "optimization_runs_total",
	Help:      "Optimization runs by final status",
}, []string{"status"})

var OptimizationRunDuration = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "fss",
	Name:      "optimization_run_duration_seconds",
	Help:      "Wall time of an optimization run",
	Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
})

var TravelMinutesSaved = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "fss",
	Name:      "travel_minutes_saved_total",
	Help:      "Travel minutes removed by applied route optimizations",
})

var CoordinateCacheLookups = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "fss",
	Name:      "coordinate_cache_lookups_total",
	Help:      "Coordinate cache lookups by result (hit, miss)",
}, []string{"result"})

// =============================================================================
// HTTP
// =============================================================================

var HTTPRequests = factory.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total HTTP requests.",
}, []string{"method", "path", "status"})

var HTTPDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "http_request_duration_seconds",
	Help:    "HTTP request duration in seconds.",
	Buckets: prometheus.DefBuckets,
}, []string{"method", "path", "status"})
