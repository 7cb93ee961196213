package games

import "github.com/mauv0809/paddle-arena/internal/pong"

// GameStore defines the persistence operations the match core relies on.
// There is no transactional guarantee across calls: a CreateGame followed by a
// failing AddParticipant leaves the game row behind, and callers are expected
// to tolerate that.
type GameStore interface {
	// UpsertPlayer inserts a player row or refreshes its name.
	UpsertPlayer(playerID, name string) error

	// GetPlayers resolves the given player ids, preserving the input order.
	// Unknown ids are skipped.
	GetPlayers(playerIDs []string) ([]PlayerInfo, error)

	// GetAllPlayers lists every known player.
	GetAllPlayers() ([]PlayerInfo, error)

	// CreateGame inserts a game record in waiting status and returns it.
	CreateGame(maxPlayers int, private bool, accessCode string) (*GameRecord, error)

	// AddParticipant seats a player in a persisted game.
	AddParticipant(gameID int64, playerID string, seat int) error

	// UpdateStatus transitions a persisted game's status.
	UpdateStatus(gameID int64, status pong.Status) error

	// SetScores records final scores for a game's participants.
	SetScores(gameID int64, scores map[string]int) error

	// GetGame loads one game record. Returns ErrNotFound for unknown ids.
	GetGame(gameID int64) (*GameRecord, error)

	// GetParticipants lists a game's participants in seat order.
	GetParticipants(gameID int64) ([]ParticipantRecord, error)

	// ListGames lists all game records, newest first.
	ListGames() ([]*GameRecord, error)
}
