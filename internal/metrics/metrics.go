// Package metrics provides Prometheus metrics for the trends service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MarketFetchTotal counts live market lookups by source and outcome.
	MarketFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jobtrends",
			Name:      "market_fetch_total",
			Help:      "Total number of labor market data lookups",
		},
		[]string{"source", "status"},
	)

	// MarketFallbackTotal counts responses served from static benchmarks.
	MarketFallbackTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "jobtrends",
			Name:      "market_fallback_total",
			Help:      "Total number of times static benchmarks replaced live data",
		},
	)

	// TrendComputeDuration measures analytics computations.
	TrendComputeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jobtrends",
			Name:      "trend_compute_duration_seconds",
			Help:      "Duration of trend computations in seconds",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		},
		[]string{"view"},
	)

	// ApplicationMutationsTotal counts writes to the application store.
	ApplicationMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jobtrends",
			Name:      "application_mutations_total",
			Help:      "Total number of application mutations",
		},
		[]string{"operation", "status"},
	)

	// EventsPublishedTotal counts application events sent to the broker.
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jobtrends",
			Name:      "events_published_total",
			Help:      "Total number of application events published",
		},
		[]string{"type", "status"},
	)
)

// Market fetch outcomes.
const (
	FetchSuccess  = "success"
	FetchError    = "error"
	FetchUnusable = "unusable"
)

// RecordMarketFetch records one lookup against a market data source.
func RecordMarketFetch(source, outcome string) {
	MarketFetchTotal.WithLabelValues(source, outcome).Inc()
}

// RecordFallback records a degraded response.
func RecordFallback() {
	MarketFallbackTotal.Inc()
}

// ObserveTrend records how long computing one view took.
func ObserveTrend(view string, seconds float64) {
	TrendComputeDuration.WithLabelValues(view).Observe(seconds)
}

// RecordMutation records a store write.
func RecordMutation(operation string, err error) {
	ApplicationMutationsTotal.WithLabelValues(operation, statusLabel(err)).Inc()
}

// RecordPublish records an event publish attempt.
func RecordPublish(eventType string, err error) {
	EventsPublishedTotal.WithLabelValues(eventType, statusLabel(err)).Inc()
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
