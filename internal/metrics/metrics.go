package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the optimizer.
	Registry = prometheus.NewRegistry()

	// OptimizeRuns counts optimization batches by strategy and outcome.
	OptimizeRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "optimize_runs_total", Help: "Optimization runs by strategy and outcome."},
		[]string{"strategy", "outcome"},
	)
	// OptimizeDuration records per-batch optimization wall time in seconds.
	OptimizeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "optimize_duration_seconds", Help: "Optimization duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"strategy"},
	)
	// UnassignedOrders tracks how many orders each batch left unassigned.
	UnassignedOrders = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "optimize_unassigned_orders", Help: "Unassigned orders per batch.", Buckets: []float64{0, 1, 2, 5, 10, 20, 50}},
	)

	// ProviderRequests counts route provider calls by outcome (ok, fallback, degenerate).
	ProviderRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "route_provider_requests_total", Help: "Route provider fetches by outcome."},
		[]string{"outcome"},
	)
	// RouteCacheHits and RouteCacheMisses track provider cache effectiveness.
	RouteCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "route_cache_hits_total", Help: "Route cache hits."},
	)
	RouteCacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "route_cache_misses_total", Help: "Route cache misses."},
	)
)

// RegisterDefault registers all collectors on the package registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(OptimizeRuns)
		Registry.MustRegister(OptimizeDuration)
		Registry.MustRegister(UnassignedOrders)
		Registry.MustRegister(ProviderRequests)
		Registry.MustRegister(RouteCacheHits)
		Registry.MustRegister(RouteCacheMisses)
		// Go/process collectors on our registry
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once
