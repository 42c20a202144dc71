package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP 请求延迟（秒）
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~16s
		},
		[]string{"method", "path", "status"},
	)

	// 上游源拉取结果
	SourceFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_fetch_total",
			Help: "Upstream source fetches by outcome",
		},
		[]string{"source", "status"}, // status: success, failed, breaker_open
	)

	SourceFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "source_fetch_duration_seconds",
			Help:    "Upstream source fetch duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
		},
		[]string{"source"},
	)

	// 模型调用延迟（毫秒）
	ClassifierCallLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "classifier_call_latency_ms",
			Help:    "Generative model classification latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(100, 2, 10), // 100ms to ~100s
		},
		[]string{"outcome"}, // outcome: success, rate_limited, failed
	)

	ClassifierFallbackCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "classifier_fallback_total",
			Help: "Classifications that fell back to the non-urgent default",
		},
	)

	FeedSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_feed_size",
			Help:    "Number of items returned in a recommendation feed",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_lookups_total",
			Help: "Redis cache lookups by cache and result",
		},
		[]string{"cache", "result"}, // result: hit, miss, error
	)

	// 慢查询计数
	SlowQueryCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_slow_query_total",
			Help: "Database queries slower than the configured threshold",
		},
		[]string{"operation"},
	)
)

// RecordHTTPRequestDuration 记录 HTTP 请求延迟
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordSourceFetch 记录上游拉取结果
func RecordSourceFetch(source, status string, duration time.Duration) {
	SourceFetchTotal.WithLabelValues(source, status).Inc()
	SourceFetchDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordClassifierCall 记录模型调用延迟
func RecordClassifierCall(outcome string, duration time.Duration) {
	ClassifierCallLatency.WithLabelValues(outcome).Observe(float64(duration.Milliseconds()))
}

func IncrementClassifierFallback() {
	ClassifierFallbackCount.Inc()
}

func ObserveFeedSize(n int) {
	FeedSize.Observe(float64(n))
}

func RecordCacheLookup(cache, result string) {
	CacheLookups.WithLabelValues(cache, result).Inc()
}

// IncrementSlowQuery counts a slow query keyed by its leading SQL verb.
func IncrementSlowQuery(operation string) {
	SlowQueryCount.WithLabelValues(operation).Inc()
}
