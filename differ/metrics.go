package differ

import "github.com/prometheus/client_golang/prometheus"

// Metrics tracks the differ's performance.
type Metrics struct {
	diffDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers the differ metrics with the given registry.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		diffDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "swap_engine",
			Subsystem: "differ",
			Name:      "diff_duration_seconds",
			Help:      "Duration of full state diff calculations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{}),
	}

	registry.MustRegister(m.diffDuration)
	return m
}
