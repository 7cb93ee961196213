package matchmaking

import (
	"github.com/mauv0809/paddle-arena/internal/games"
	"github.com/mauv0809/paddle-arena/internal/pong"
)

// Coordinator owns the waiting queue and the lifecycle of live matches.
type Coordinator interface {
	// JoinQueue adds a player to the waiting queue for a match of the given
	// size (2 or 4). Re-joining updates the requested size in place. Matching
	// runs after every change.
	JoinQueue(playerID string, size int) error

	// LeaveQueue removes a player's queue entry. Absent players are a no-op.
	LeaveQueue(playerID string) error

	// CreatePrivateGame persists a private match holding only the creator and
	// registers its engine, but does not announce or start it. The returned
	// record carries the access code to share with the invitee.
	CreatePrivateGame(playerID string) (*games.GameRecord, error)

	// AcceptInvite seats a player in a waiting private match, announces the
	// match to every participant and starts it.
	AcceptInvite(gameID int64, playerID string) error

	// SetInput forwards a player's input to the relevant live match.
	SetInput(gameID int64, playerID string, dir pong.Direction) error

	// Match returns the live engine for a game id.
	Match(gameID int64) (*pong.Match, bool)

	// Matches returns a copy of the live match registry.
	Matches() map[int64]*pong.Match

	// QueueEntries returns the current queue in FIFO order.
	QueueEntries() []QueueEntry

	// CompleteGame persists a finished match's status and scores. The engine
	// stays registered so clients can still fetch the final state.
	CompleteGame(gameID int64) error
}
