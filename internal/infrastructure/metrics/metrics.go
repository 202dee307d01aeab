package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// NewCounter registers the service-wide counter; "result" names the event counted.
func NewCounter() *prometheus.CounterVec {
	return promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agriregistry",
			Name:      "general_counters",
			Help:      "Farmer registry events by result.",
		},
		[]string{"result"})
}
