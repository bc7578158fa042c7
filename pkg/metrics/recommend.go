package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of the recommendation HTTP handlers
	RecommendLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "recommend_latency_seconds",
		Help:    "Latency of the recommendation handlers",
		Buckets: prometheus.DefBuckets,
	})

	// Total number of recommendation requests served, by mode
	RecommendRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total number of recommendation requests by mode",
		},
		[]string{"mode"},
	)

	// Whether the bandit policy is serving from a trained model (0) or the
	// rule-based fallback (1)
	FallbackServing = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "bandit_fallback_serving",
		Help: "1 when the bandit policy serves the rule-based fallback, 0 when a trained model is loaded",
	})
)

func Init() {
	prometheus.MustRegister(
		RecommendLatency,
		RecommendRequests,
		FallbackServing,
	)
}
