package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "celosoul"

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Current number of HTTP requests being processed",
		},
	)
)

// Discovery metrics
var (
	SwipesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "swipes_total",
			Help:      "Total number of swipe actions consumed",
		},
		[]string{"action"}, // "approve", "reject", "skip", "super_like"
	)

	SuperLikesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "super_likes_total",
			Help:      "Total number of confirmed super-likes",
		},
	)

	UpgradePromptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upgrade_prompts_total",
			Help:      "Total number of gated actions denied with an upgrade prompt",
		},
		[]string{"action"},
	)

	CandidateRefillsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidate_refills_total",
			Help:      "Total number of candidate working-set refills",
		},
	)
)

// Payment metrics
var (
	PaymentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_total",
			Help:      "Total number of payment flows reaching a terminal state",
		},
		[]string{"kind", "status"}, // kind: "tip" or "subscription"
	)

	TipsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tips_total",
			Help:      "Total number of confirmed tips",
		},
	)

	SubscriptionsGrantedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "subscriptions_granted_total",
			Help:      "Total number of subscriptions granted after confirmed purchase",
		},
		[]string{"plan_id"},
	)
)
