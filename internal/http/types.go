package http

import (
	"net/http"

	"github.com/mauv0809/paddle-arena/internal/config"
	"github.com/mauv0809/paddle-arena/internal/events"
	"github.com/mauv0809/paddle-arena/internal/games"
	"github.com/mauv0809/paddle-arena/internal/matchmaking"
	"github.com/mauv0809/paddle-arena/internal/metrics"
)

type Server struct {
	Coordinator    matchmaking.Coordinator
	Store          games.GameStore
	Bus            *events.Bus
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *http.ServeMux
}

// joinQueueRequest is the body of POST /queue/join.
type joinQueueRequest struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name,omitempty"`
	Size     int    `json:"size"`
}

// playerRequest is the body of requests identified by player only.
type playerRequest struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name,omitempty"`
}

// gamePlayerRequest is the body of requests against one game.
type gamePlayerRequest struct {
	GameID   int64  `json:"game_id"`
	PlayerID string `json:"player_id"`
	Name     string `json:"name,omitempty"`
}

// inputRequest is the body of POST /games/input.
type inputRequest struct {
	GameID    int64  `json:"game_id"`
	PlayerID  string `json:"player_id"`
	Direction string `json:"direction"` // "up", "down" or "none"
}
