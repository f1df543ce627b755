package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collectors are registered on the default registry at package init and
// exposed by promhttp on /metrics.
var (
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "focushub_api_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by route, method and status.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method", "status"},
	)

	RequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "focushub_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)

	RatingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "focushub_ratings_total",
			Help: "Rating writes, by action (create, update) and outcome.",
		},
		[]string{"action", "outcome"},
	)

	StatsCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "focushub_stats_cache_hits_total",
			Help: "Rating statistics served from Redis.",
		},
	)

	StatsCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "focushub_stats_cache_misses_total",
			Help: "Rating statistics computed from the database.",
		},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "focushub_notifications_total",
			Help: "Notifications created, by type.",
		},
		[]string{"type"},
	)

	PushFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "focushub_push_failures_total",
			Help: "Push deliveries that returned an error.",
		},
	)
)
