package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DatabaseQueryLatency records store latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "streamx_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// ThreadBuildLatency records how long a full comment thread takes to assemble.
	ThreadBuildLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "streamx_thread_build_seconds",
		Help:    "Comment thread build latency in seconds",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"outcome"})

	// ThreadNodes records the number of comments returned per thread.
	ThreadNodes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "streamx_thread_nodes",
		Help:    "Number of comments in a built thread",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	})

	// ThreadDepthReached records the deepest reply level collected per thread.
	ThreadDepthReached = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "streamx_thread_depth_reached",
		Help:    "Deepest reply level collected for a thread",
		Buckets: prometheus.LinearBuckets(0, 1, 12),
	})

	// ThreadDegradations counts enrichment lookups that fell back to placeholders.
	ThreadDegradations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "streamx_thread_degradations_total",
		Help: "Enrichment failures that produced placeholder values",
	}, []string{"collaborator"})

	// LikeToggles counts like toggles by target kind and resulting state.
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "streamx_like_toggles_total",
		Help: "Like toggles by target kind and result",
	}, []string{"kind", "result"})

	// MediaOperations counts object storage and probe calls by outcome.
	MediaOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "streamx_media_operations_total",
		Help: "Media operations by type and outcome",
	}, []string{"operation", "outcome"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

// Outcome maps an error to a metric label.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
