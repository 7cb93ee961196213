package games

import (
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/mauv0809/paddle-arena/internal/pong"
)

// ErrNotFound is returned when a game id does not exist.
var ErrNotFound = errors.New("game not found")

// store handles all database operations for games and players.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// PlayerInfo is a player row.
type PlayerInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GameRecord mirrors a persisted match: id, lifecycle status, seat count and
// privacy flag. Records are never deleted; finished games stay for history.
type GameRecord struct {
	ID         int64       `json:"id"`
	Status     pong.Status `json:"status"`
	MaxPlayers int         `json:"max_players"`
	Private    bool        `json:"private"`
	AccessCode string      `json:"access_code,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// ParticipantRecord is one seated player of a persisted game.
type ParticipantRecord struct {
	GameID   int64  `json:"game_id"`
	PlayerID string `json:"player_id"`
	Seat     int    `json:"seat"`
	Score    int    `json:"score"`
}
