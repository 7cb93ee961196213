package matchmaking

import (
	"errors"
	"sync"

	"github.com/mauv0809/paddle-arena/internal/events"
	"github.com/mauv0809/paddle-arena/internal/games"
	"github.com/mauv0809/paddle-arena/internal/metrics"
	"github.com/mauv0809/paddle-arena/internal/pong"
)

// ErrGameNotFound is returned when a game id is not in the live registry.
var ErrGameNotFound = errors.New("game not found")

// Bus event names emitted by the coordinator.
const (
	// EventQueuePlayers carries the full list of queued players
	// ([]games.PlayerInfo) after every queue change. It is a snapshot, not a
	// diff.
	EventQueuePlayers = "queue:players"

	// EventQueueNewMatch carries one MatchNotice per participant when a match
	// starts.
	EventQueueNewMatch = "queue:newMatch"
)

// MatchNotice tells one player which game they were placed in.
type MatchNotice struct {
	UserID string `json:"user_id" msgpack:"user_id"`
	GameID int64  `json:"game_id" msgpack:"game_id"`
}

// QueueEntry is one waiting player's request. A player has at most one entry;
// re-joining updates Size in place.
type QueueEntry struct {
	PlayerID string `json:"player_id"`
	Size     int    `json:"size"`
}

// coordinator implements Coordinator. A single mutex is held across every
// queue mutation including its matching pass and the storage calls it makes,
// so two concurrent joins can never pull the same entries into two matches.
type coordinator struct {
	mu      sync.Mutex
	queue   []QueueEntry
	matches map[int64]*pong.Match

	store   games.GameStore
	bus     *events.Bus
	metrics metrics.Metrics
}

// matchSizes are the supported sizes in matching order. Sizes are matched
// independently; a surplus of 2-seekers never feeds a 4 player match.
var matchSizes = []int{2, 4}
