package metrics

import "github.com/prometheus/client_golang/prometheus"

// Backend, answer, cache and session metrics.
var (
	BackendRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_requests_total",
			Help:      "Total number of requests to the search backend",
		},
		[]string{"endpoint", "status"},
	)

	BackendRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_request_duration_seconds",
			Help:      "Search backend request duration in seconds, retries included",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15, 30},
		},
		[]string{"endpoint"},
	)

	BackendRetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_retries_total",
			Help:      "Total number of retried backend requests",
		},
		[]string{"endpoint"},
	)

	AnswerRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answer_requests_total",
			Help:      "Total number of AI answer generations",
		},
		[]string{"provider", "status"},
	)

	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Searches by outcome: cached, failed, stale, unchanged",
		},
		[]string{"outcome"},
	)

	CaseCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "case_cache_total",
			Help:      "Case lookup cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Search sessions currently held in memory",
		},
	)
)

var backendMetricsRegistered bool

// RegisterBackendMetrics registers the backend, answer, cache and session
// metrics. Must be called once from main.
func RegisterBackendMetrics() {
	if backendMetricsRegistered {
		return
	}
	prometheus.MustRegister(
		BackendRequestsTotal,
		BackendRequestDuration,
		BackendRetriesTotal,
		AnswerRequestsTotal,
		SearchesTotal,
		CaseCacheTotal,
		ActiveSessions,
	)
	backendMetricsRegistered = true
}
