// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_requests_total",
			Help: "Total number of search requests by outcome",
		},
		[]string{"outcome"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_cache_lookups_total",
			Help: "Result cache lookups by hit/miss/expired",
		},
		[]string{"result"},
	)

	AdapterFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_adapter_fetches_total",
			Help: "Source adapter fetches by source and outcome",
		},
		[]string{"source", "outcome"},
	)

	AdapterFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_adapter_failures_total",
			Help: "Source adapter failures by source and error code",
		},
		[]string{"source", "error_code"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "pipeline_stage_duration_seconds",
			Help: "Duration of each pipeline stage in seconds",
		},
		[]string{"stage"},
	)

	OracleFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oracle_fallbacks_total",
			Help: "Times an oracle was unavailable and the deterministic fallback ran",
		},
		[]string{"oracle"},
	)
)
