// Package metrics defines Prometheus metrics for the Shopware API client.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sw6"

// API request metrics.
var (
	APICallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_calls_total",
		Help:      "Total number of admin API calls by method and status class.",
	}, []string{"method", "status"})

	APIRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_retries_total",
		Help:      "Total number of retried admin API calls by retry reason.",
	}, []string{"reason"})

	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_duration_seconds",
		Help:      "Duration of admin API calls in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})
)

// Token lifecycle metrics.
var (
	TokenAcquisitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_acquisitions_total",
		Help:      "Total number of OAuth2 token acquisitions by grant type.",
	}, []string{"grant_type"})

	TokenRefreshesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refreshes_total",
		Help:      "Total number of OAuth2 refresh-token grants.",
	})
)

// Pagination metrics.
var (
	PaginationPagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pagination_pages_total",
		Help:      "Total number of pages fetched by paginated requests.",
	})
)

// Rate limiter metrics.
var (
	RateLimitDailyUsage = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "rate_limit_daily_usage",
		Help:      "Current daily API call count within the rolling 24-hour window.",
	})

	RateLimitDailyLimitHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limit_daily_limit_hits_total",
		Help:      "Total number of times the daily API call limit was reached.",
	})
)
