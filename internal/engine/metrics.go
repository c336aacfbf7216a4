package engine

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	SearchRequests atomic.Int64
	DetailRequests atomic.Int64
	ProbeRequests  atomic.Int64
	ProbeFailures  atomic.Int64
	ProbeCacheHits atomic.Int64
	StoreWrites    atomic.Int64
}

// GetMetrics returns a snapshot of all counters.
func GetMetrics() map[string]int64 {
	return map[string]int64{
		"search_requests":  metrics.SearchRequests.Load(),
		"detail_requests":  metrics.DetailRequests.Load(),
		"probe_requests":   metrics.ProbeRequests.Load(),
		"probe_failures":   metrics.ProbeFailures.Load(),
		"probe_cache_hits": metrics.ProbeCacheHits.Load(),
		"store_writes":     metrics.StoreWrites.Load(),
	}
}

// FormatMetrics returns counters as simple text for the run summary.
func FormatMetrics() string {
	m := GetMetrics()
	keys := []string{
		"search_requests", "detail_requests",
		"probe_requests", "probe_failures", "probe_cache_hits",
		"store_writes",
	}
	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// IncrSearchRequests increments the search call counter.
func IncrSearchRequests() { metrics.SearchRequests.Add(1) }

// IncrDetailRequests increments the detail-batch call counter.
func IncrDetailRequests() { metrics.DetailRequests.Add(1) }

// IncrProbeRequests increments the classification probe counter.
func IncrProbeRequests() { metrics.ProbeRequests.Add(1) }

// IncrProbeFailures increments the absorbed probe failure counter.
func IncrProbeFailures() { metrics.ProbeFailures.Add(1) }

// IncrProbeCacheHits increments the probe cache hit counter.
func IncrProbeCacheHits() { metrics.ProbeCacheHits.Add(1) }

// IncrStoreWrites increments the tabular store write counter.
func IncrStoreWrites() { metrics.StoreWrites.Add(1) }
