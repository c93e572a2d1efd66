package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	apiRequestsTotal       *prometheus.CounterVec
	apiLatencySeconds      *prometheus.HistogramVec
	apiErrorsTotal         *prometheus.CounterVec
	submissionsScoredTotal *prometheus.CounterVec
	rankingCacheTotal      *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the quiz API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quiz_api_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "quiz_api_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quiz_api_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		submissionsScoredTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quiz_submissions_scored_total",
			Help: "Quiz submissions processed by the scoring engine, by outcome.",
		}, []string{"outcome"})

		rankingCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quiz_ranking_cache_total",
			Help: "Leaderboard cache lookups, by result.",
		}, []string{"result"})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySeconds,
			apiErrorsTotal,
			submissionsScoredTotal,
			rankingCacheTotal,
		)
	})
}

// APIRequests exposes the counter for served requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for served requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// SubmissionsScored exposes the scoring outcome counter.
func SubmissionsScored() *prometheus.CounterVec {
	RegisterMetrics()
	return submissionsScoredTotal
}

// RankingCache exposes the leaderboard cache lookup counter.
func RankingCache() *prometheus.CounterVec {
	RegisterMetrics()
	return rankingCacheTotal
}
