package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	QueueJoins         prometheus.Counter
	QueueLeaves        prometheus.Counter
	GamesCreated       prometheus.Counter
	EventsPublished    prometheus.Counter
	TickDuration       prometheus.Histogram
	StartupTimeSeconds prometheus.Gauge
}
