package recommend

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	InteractionEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_interaction_events_total",
			Help: "Count of logged recommendation interactions by action type.",
		},
		[]string{"action_type"},
	)
)

func init() {
	prometheus.MustRegister(InteractionEventsTotal)
}
