package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GatewayRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "career_gateway_requests_total",
			Help: "Completion requests sent to the language model provider",
		},
		[]string{"provider", "status"},
	)

	GatewayDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "career_gateway_request_duration_seconds",
			Help:    "Latency of completion requests",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		},
		[]string{"provider"},
	)

	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "career_analyses_total",
			Help: "Comprehensive analyses by branch and outcome",
		},
		[]string{"branch", "status"},
	)

	AnalysisSteps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "career_analysis_steps_total",
			Help: "Pipeline steps executed by name and outcome",
		},
		[]string{"step", "status"},
	)

	BackgroundJobs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "career_background_jobs_total",
			Help: "Fire-and-forget jobs by name and outcome",
		},
		[]string{"job", "status"},
	)

	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "career_rate_limited_requests_total",
			Help: "Analysis requests rejected by the rate limiter",
		},
	)

	TrackedSearches = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "career_tracked_searches",
			Help: "Total searches recorded, refreshed by the analytics snapshot",
		},
	)

	TrackedUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "career_tracked_unique_users",
			Help: "Distinct users with at least one search",
		},
	)
)
