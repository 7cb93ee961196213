package matchmaking

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/mauv0809/paddle-arena/internal/events"
	"github.com/mauv0809/paddle-arena/internal/games"
	"github.com/mauv0809/paddle-arena/internal/metrics"
	"github.com/mauv0809/paddle-arena/internal/pong"
)

// New creates a coordinator. It is constructed once by the composition root
// and injected wherever it is needed; there is no package-level instance.
func New(store games.GameStore, bus *events.Bus, metricsSvc metrics.Metrics) Coordinator {
	return &coordinator{
		matches: make(map[int64]*pong.Match),
		store:   store,
		bus:     bus,
		metrics: metricsSvc,
	}
}

func (c *coordinator) JoinQueue(playerID string, size int) error {
	if size != 2 && size != 4 {
		return fmt.Errorf("unsupported match size %d", size)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Make sure a player row exists before any game references it.
	if err := c.store.UpsertPlayer(playerID, ""); err != nil {
		return fmt.Errorf("failed to persist player %s: %w", playerID, err)
	}

	found := false
	for i := range c.queue {
		if c.queue[i].PlayerID == playerID {
			c.queue[i].Size = size
			found = true
			break
		}
	}
	if !found {
		c.queue = append(c.queue, QueueEntry{PlayerID: playerID, Size: size})
	}
	c.metrics.IncQueueJoins()
	log.Info("Player joined queue", "player", playerID, "size", size, "queued", len(c.queue))

	if err := c.matchLocked(); err != nil {
		return err
	}
	c.emitQueueLocked()
	return nil
}

func (c *coordinator) LeaveQueue(playerID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.queue {
		if c.queue[i].PlayerID == playerID {
			c.queue = append(c.queue[:i], c.queue[i+1:]...)
			c.metrics.IncQueueLeaves()
			log.Info("Player left queue", "player", playerID, "queued", len(c.queue))
			break
		}
	}
	c.emitQueueLocked()
	return nil
}

// matchLocked runs one matching pass. For each supported size, in order, it
// takes the first N entries requesting exactly that size whenever N are
// present, and removes exactly those entries. Callers must hold c.mu.
func (c *coordinator) matchLocked() error {
	for _, size := range matchSizes {
		for {
			var players []string
			for _, e := range c.queue {
				if e.Size == size {
					players = append(players, e.PlayerID)
					if len(players) == size {
						break
					}
				}
			}
			if len(players) < size {
				break
			}
			c.removeEntriesLocked(players)
			if err := c.createGameLocked(players, size); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *coordinator) removeEntriesLocked(players []string) {
	taken := make(map[string]bool, len(players))
	for _, id := range players {
		taken[id] = true
	}
	kept := c.queue[:0]
	for _, e := range c.queue {
		if !taken[e.PlayerID] {
			kept = append(kept, e)
		}
	}
	c.queue = kept
}

// createGameLocked persists and starts a match for the given players. A
// persistence failure aborts the whole operation; a game row inserted before
// a failing participant insert is left behind and surfaced, not rolled back.
func (c *coordinator) createGameLocked(playerIDs []string, maxPlayers int) error {
	record, err := c.store.CreateGame(maxPlayers, false, "")
	if err != nil {
		return fmt.Errorf("failed to persist match: %w", err)
	}
	for seat, playerID := range playerIDs {
		if err := c.store.AddParticipant(record.ID, playerID, seat); err != nil {
			return fmt.Errorf("failed to persist participant %s: %w", playerID, err)
		}
	}

	match, err := pong.NewMatch(maxPlayers)
	if err != nil {
		return err
	}
	for _, playerID := range playerIDs {
		if err := match.AddPlayer(playerID); err != nil {
			return err
		}
	}
	c.matches[record.ID] = match

	for _, playerID := range playerIDs {
		c.emit(EventQueueNewMatch, MatchNotice{UserID: playerID, GameID: record.ID})
	}

	if err := c.store.UpdateStatus(record.ID, pong.StatusPlaying); err != nil {
		return fmt.Errorf("failed to mark match %d playing: %w", record.ID, err)
	}
	match.Start()
	c.metrics.IncGamesCreated()
	log.Info("Match created", "game", record.ID, "players", playerIDs)
	return nil
}

func (c *coordinator) CreatePrivateGame(playerID string) (*games.GameRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.UpsertPlayer(playerID, ""); err != nil {
		return nil, fmt.Errorf("failed to persist player %s: %w", playerID, err)
	}
	record, err := c.store.CreateGame(2, true, uuid.New().String())
	if err != nil {
		return nil, fmt.Errorf("failed to persist private match: %w", err)
	}
	if err := c.store.AddParticipant(record.ID, playerID, 0); err != nil {
		return nil, fmt.Errorf("failed to persist participant %s: %w", playerID, err)
	}

	match, err := pong.NewMatch(record.MaxPlayers)
	if err != nil {
		return nil, err
	}
	if err := match.AddPlayer(playerID); err != nil {
		return nil, err
	}
	c.matches[record.ID] = match

	// Deliberately no newMatch event and no Start: the match waits for an
	// explicit accept.
	c.metrics.IncGamesCreated()
	log.Info("Private match created", "game", record.ID, "player", playerID)
	return record, nil
}

func (c *coordinator) AcceptInvite(gameID int64, playerID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	match, ok := c.matches[gameID]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrGameNotFound, gameID)
	}
	if _, err := c.store.GetGame(gameID); err != nil {
		return fmt.Errorf("failed to load match %d: %w", gameID, err)
	}

	if err := c.store.UpsertPlayer(playerID, ""); err != nil {
		return fmt.Errorf("failed to persist player %s: %w", playerID, err)
	}
	seat := len(match.Snapshot().Players)
	if err := c.store.AddParticipant(gameID, playerID, seat); err != nil {
		return fmt.Errorf("failed to persist participant %s: %w", playerID, err)
	}
	if err := match.AddPlayer(playerID); err != nil {
		return err
	}

	// Everyone already seated gets the notice too, not just the newcomer.
	for _, p := range match.Snapshot().Players {
		c.emit(EventQueueNewMatch, MatchNotice{UserID: p.ID, GameID: gameID})
	}

	if err := c.store.UpdateStatus(gameID, pong.StatusPlaying); err != nil {
		return fmt.Errorf("failed to mark match %d playing: %w", gameID, err)
	}
	match.Start()
	log.Info("Invite accepted", "game", gameID, "player", playerID)
	return nil
}

func (c *coordinator) SetInput(gameID int64, playerID string, dir pong.Direction) error {
	match, ok := c.Match(gameID)
	if !ok {
		return fmt.Errorf("%w: id %d", ErrGameNotFound, gameID)
	}
	match.SetInput(playerID, dir)
	return nil
}

func (c *coordinator) Match(gameID int64) (*pong.Match, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	match, ok := c.matches[gameID]
	return match, ok
}

func (c *coordinator) Matches() map[int64]*pong.Match {
	c.mu.Lock()
	defer c.mu.Unlock()
	matches := make(map[int64]*pong.Match, len(c.matches))
	for id, m := range c.matches {
		matches[id] = m
	}
	return matches
}

func (c *coordinator) QueueEntries() []QueueEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]QueueEntry(nil), c.queue...)
}

func (c *coordinator) CompleteGame(gameID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	match, ok := c.matches[gameID]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrGameNotFound, gameID)
	}
	state := match.Snapshot()
	scores := make(map[string]int, len(state.Players))
	for _, p := range state.Players {
		scores[p.ID] = p.Score
	}
	if err := c.store.UpdateStatus(gameID, pong.StatusFinished); err != nil {
		return fmt.Errorf("failed to mark match %d finished: %w", gameID, err)
	}
	if err := c.store.SetScores(gameID, scores); err != nil {
		return fmt.Errorf("failed to persist scores for match %d: %w", gameID, err)
	}
	if winner, ok := match.Winner(); ok {
		log.Info("Match finished", "game", gameID, "winner", winner.ID, "score", winner.Score)
	}
	return nil
}

// emitQueueLocked publishes the full queued-player list, resolved against the
// store so subscribers get names, not just ids.
func (c *coordinator) emitQueueLocked() {
	ids := make([]string, len(c.queue))
	for i, e := range c.queue {
		ids[i] = e.PlayerID
	}
	players, err := c.store.GetPlayers(ids)
	if err != nil {
		log.Error("Failed to resolve queued players", "error", err)
		players = []games.PlayerInfo{}
	}
	c.emit(EventQueuePlayers, players)
}

func (c *coordinator) emit(name string, payload any) {
	if err := c.bus.Emit(name, payload); err != nil {
		// Only a malformed name reaches here, which is a bug at this call site.
		log.Error("Failed to emit event", "event", name, "error", err)
	}
	c.metrics.IncEventsPublished()
}

var _ Coordinator = (*coordinator)(nil)
