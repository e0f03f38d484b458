package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "profiler_"

	ResultSuccess = "success"
	ResultError   = "error"
	ResultCached  = "cached"
)

var (
	registerOnce sync.Once

	profileBuildTotal   *prometheus.CounterVec
	profileBuildLatency *prometheus.HistogramVec
	documentParseTotal  *prometheus.CounterVec
	searchCacheTotal    *prometheus.CounterVec
	upstreamErrorsTotal *prometheus.CounterVec
	bulkLoadRowsTotal   *prometheus.CounterVec
)

// Init registers the profiler metrics with reg, or with the default
// registerer when reg is nil. Only the first call has any effect.
func Init(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		profileBuildTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "profile_build_total",
				Help: "Total profile builds by result",
			},
			[]string{"result"},
		)
		profileBuildLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "profile_build_latency_seconds",
				Help:    "Profile build latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		documentParseTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "document_parse_total",
				Help: "Total balance-sheet document parses by result",
			},
			[]string{"result"},
		)
		searchCacheTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "search_cache_total",
				Help: "Name search cache lookups by outcome",
			},
			[]string{"outcome"},
		)
		upstreamErrorsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "upstream_errors_total",
				Help: "Registry transport failures by operation",
			},
			[]string{"operation"},
		)
		bulkLoadRowsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "bulk_load_rows_total",
				Help: "Rows written by the bulk loader by result",
			},
			[]string{"result"},
		)

		reg.MustRegister(
			profileBuildTotal,
			profileBuildLatency,
			documentParseTotal,
			searchCacheTotal,
			upstreamErrorsTotal,
			bulkLoadRowsTotal,
		)
	})
}

// ObserveProfileBuild records one profile build and its duration.
func ObserveProfileBuild(result string, duration time.Duration) {
	if result == "" {
		result = ResultSuccess
	}
	if profileBuildTotal != nil {
		profileBuildTotal.WithLabelValues(result).Inc()
	}
	if profileBuildLatency != nil {
		profileBuildLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// IncDocumentParse counts one balance-sheet parse.
func IncDocumentParse(result string) {
	if result == "" {
		result = ResultSuccess
	}
	if documentParseTotal != nil {
		documentParseTotal.WithLabelValues(result).Inc()
	}
}

// IncSearchCache counts a cache hit (true) or miss (false).
func IncSearchCache(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	if searchCacheTotal != nil {
		searchCacheTotal.WithLabelValues(outcome).Inc()
	}
}

// IncUpstreamError counts a failed registry call.
func IncUpstreamError(operation string) {
	if operation == "" {
		operation = "unknown"
	}
	if upstreamErrorsTotal != nil {
		upstreamErrorsTotal.WithLabelValues(operation).Inc()
	}
}

// AddBulkLoadRows counts rows processed by a bulk load batch.
func AddBulkLoadRows(result string, n int) {
	if result == "" {
		result = ResultSuccess
	}
	if bulkLoadRowsTotal != nil && n > 0 {
		bulkLoadRowsTotal.WithLabelValues(result).Add(float64(n))
	}
}
