package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AnalysesTotal counts analysis requests by category and final status
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "platform_analyses_total",
			Help: "Total number of analysis requests",
		},
		[]string{"category", "status"},
	)

	// GenerationDuration tracks report generation time
	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "platform_generation_duration_seconds",
			Help:    "Report generation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"category"},
	)

	// PaymentsTotal counts payments by terminal status
	PaymentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "platform_payments_total",
			Help: "Total number of payments",
		},
		[]string{"status"},
	)

	// WebhooksTotal counts webhook deliveries by outcome
	WebhooksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "platform_webhooks_total",
			Help: "Total number of payment webhook deliveries",
		},
		[]string{"outcome"},
	)

	// DistributionsTotal counts per-recipient revenue distributions by status
	DistributionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "platform_distributions_total",
			Help: "Total number of revenue distributions",
		},
		[]string{"category", "status"},
	)

	// MarketDataRequests counts market data fetches by provider and outcome
	MarketDataRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "platform_market_data_requests_total",
			Help: "Total number of market data provider requests",
		},
		[]string{"provider", "outcome"},
	)

	// ErrorsTotal counts errors by type
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "platform_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)
)
