// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Submission outcomes.
const (
	OutcomeSuccess       = "success"
	OutcomeInvalid       = "invalid"
	OutcomeRateLimited   = "rate_limited"
	OutcomePersistFailed = "persist_failed"
)

var (
	EnquiriesSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enquiries_submitted_total",
			Help: "Total number of enquiry submissions by outcome",
		},
		[]string{"outcome"},
	)

	EnquirySubmitDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "enquiry_submit_duration_seconds",
			Help:    "Duration of enquiry persistence in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	ValuationsEstimated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "valuations_estimated_total",
			Help: "Total number of valuation estimates served by industry",
		},
		[]string{"industry"},
	)

	FollowupsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "followups_failed_total",
			Help: "Total number of failed post-submission follow-ups",
		},
		[]string{"followup"},
	)

	RateLimitedRequests = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rate_limited_requests_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)
)
