package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		QueueJoins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arena_queue_joins_total",
			Help: "The total number of queue join requests handled.",
		}),
		QueueLeaves: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arena_queue_leaves_total",
			Help: "The total number of queue leave requests handled.",
		}),
		GamesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arena_games_created_total",
			Help: "The total number of matches formed, public and private.",
		}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arena_events_published_total",
			Help: "The total number of events published on the bus.",
		}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "arena_tick_duration_seconds",
			Help:    "The duration of one simulation tick across all live matches.",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.016},
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "arena_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.QueueJoins,
		s.QueueLeaves,
		s.GamesCreated,
		s.EventsPublished,
		s.TickDuration,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncQueueJoins() {
	s.QueueJoins.Inc()
}

func (s *Service) IncQueueLeaves() {
	s.QueueLeaves.Inc()
}

func (s *Service) IncGamesCreated() {
	s.GamesCreated.Inc()
}

func (s *Service) IncEventsPublished() {
	s.EventsPublished.Inc()
}

func (s *Service) ObserveTickDuration(seconds float64) {
	s.TickDuration.Observe(seconds)
}

func (s *Service) SetStartupTime(seconds float64) {
	s.StartupTimeSeconds.Set(seconds)
}
