package http

import (
	"net/http"

	"github.com/mauv0809/paddle-arena/internal/config"
	"github.com/mauv0809/paddle-arena/internal/events"
	"github.com/mauv0809/paddle-arena/internal/games"
	"github.com/mauv0809/paddle-arena/internal/matchmaking"
	"github.com/mauv0809/paddle-arena/internal/metrics"
)

func NewServer(coordinator matchmaking.Coordinator, store games.GameStore, bus *events.Bus, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config) *Server {
	server := &Server{
		Coordinator:    coordinator,
		Store:          store,
		Bus:            bus,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/queue", Chain(s.QueueHandler(), paramsMiddleware))
	s.Router.Handle("/queue/join", Chain(s.JoinQueueHandler(), paramsMiddleware))
	s.Router.Handle("/queue/leave", Chain(s.LeaveQueueHandler(), paramsMiddleware))
	s.Router.Handle("/games", Chain(s.ListGamesHandler(), paramsMiddleware))
	s.Router.Handle("/games/state", Chain(s.GameStateHandler(), paramsMiddleware))
	s.Router.Handle("/games/private", Chain(s.CreatePrivateGameHandler(), paramsMiddleware))
	s.Router.Handle("/games/accept", Chain(s.AcceptInviteHandler(), paramsMiddleware))
	s.Router.Handle("/games/input", Chain(s.InputHandler(), paramsMiddleware))
	s.Router.Handle("/players", Chain(s.ListPlayersHandler(), paramsMiddleware))
	s.Router.Handle("/events", s.EventsHandler())
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
