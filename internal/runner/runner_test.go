package runner_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mauv0809/paddle-arena/internal/events"
	"github.com/mauv0809/paddle-arena/internal/games"
	"github.com/mauv0809/paddle-arena/internal/matchmaking"
	"github.com/mauv0809/paddle-arena/internal/metrics"
	"github.com/mauv0809/paddle-arena/internal/pong"
	"github.com/mauv0809/paddle-arena/internal/runner"
)

const tickSeconds = 1.0 / 60

func setup(t *testing.T) (*runner.Runner, matchmaking.Coordinator, *games.MockStore, *events.Bus, *metrics.Mock) {
	t.Helper()
	store := games.NewMock()
	bus := events.NewBus()
	metricsSvc := metrics.NewMock()
	coord := matchmaking.New(store, bus, metricsSvc)
	return runner.New(coord, bus, metricsSvc, 60), coord, store, bus, metricsSvc
}

func onlyGameID(t *testing.T, coord matchmaking.Coordinator) int64 {
	t.Helper()
	matches := coord.Matches()
	require.Len(t, matches, 1)
	for id := range matches {
		return id
	}
	return 0
}

func TestTick_PublishesStateForPlayingMatches(t *testing.T) {
	r, coord, _, bus, metricsSvc := setup(t)
	require.NoError(t, coord.JoinQueue("alice", 2))
	require.NoError(t, coord.JoinQueue("bob", 2))
	gameID := onlyGameID(t, coord)

	states, err := events.Subscribe[runner.StateUpdate](bus, runner.EventGameState, nil)
	require.NoError(t, err)

	r.Tick(tickSeconds)

	update, ok := states.TryNext()
	require.True(t, ok)
	assert.Equal(t, gameID, update.GameID)
	assert.Equal(t, pong.StatusPlaying, update.State.Status)
	require.Len(t, update.State.Players, 2)

	_, ok = states.TryNext()
	assert.False(t, ok, "one snapshot per playing match per tick")
	assert.Len(t, metricsSvc.TickDurations(), 1)
}

func TestTick_SkipsWaitingMatches(t *testing.T) {
	r, coord, _, bus, _ := setup(t)
	_, err := coord.CreatePrivateGame("alice")
	require.NoError(t, err)

	states, err := events.Subscribe[runner.StateUpdate](bus, runner.EventGameState, nil)
	require.NoError(t, err)

	r.Tick(tickSeconds)

	_, ok := states.TryNext()
	assert.False(t, ok, "matches awaiting players must not simulate or broadcast")
}

func TestTick_NoMatchesStillObservesDuration(t *testing.T) {
	r, _, _, _, metricsSvc := setup(t)
	r.Tick(tickSeconds)
	assert.Len(t, metricsSvc.TickDurations(), 1)
}

// Ticks a real two player match until someone reaches the winning score, then
// checks the score and status notices and the persisted outcome. With nobody
// at the paddles every rally ends within a few serves, so the bound is far
// beyond what the simulation needs.
func TestTick_FinishedMatchIsCompletedAndPersisted(t *testing.T) {
	r, coord, store, bus, _ := setup(t)
	require.NoError(t, coord.JoinQueue("alice", 2))
	require.NoError(t, coord.JoinQueue("bob", 2))
	gameID := onlyGameID(t, coord)

	scores, err := events.Subscribe[runner.ScoreNotice](bus, runner.EventGameScore, nil)
	require.NoError(t, err)
	statuses, err := events.Subscribe[runner.StatusNotice](bus, runner.EventGameStatus, nil)
	require.NoError(t, err)

	match, ok := coord.Match(gameID)
	require.True(t, ok)

	const maxTicks = 500_000
	for i := 0; i < maxTicks && match.Status() != pong.StatusFinished; i++ {
		r.Tick(tickSeconds)
	}
	require.Equal(t, pong.StatusFinished, match.Status(), "match did not finish within the tick bound")

	notice, ok := statuses.TryNext()
	require.True(t, ok)
	assert.Equal(t, gameID, notice.GameID)
	assert.Equal(t, pong.StatusFinished, notice.Status)

	winner, ok := match.Winner()
	require.True(t, ok)
	assert.Equal(t, 5, winner.Score)

	// The last score notice carries the winning point.
	var last runner.ScoreNotice
	count := 0
	for {
		n, ok := scores.TryNext()
		if !ok {
			break
		}
		last = n
		count++
	}
	require.Positive(t, count)
	assert.Equal(t, winner.ID, last.PlayerID)
	assert.Equal(t, winner.Score, last.Score)

	record, err := store.GetGame(gameID)
	require.NoError(t, err)
	assert.Equal(t, pong.StatusFinished, record.Status)

	participants, err := store.GetParticipants(gameID)
	require.NoError(t, err)
	require.Len(t, participants, 2)
	total := 0
	for _, p := range participants {
		total += p.Score
	}
	assert.GreaterOrEqual(t, total, 5, "final scores are persisted")
}

func TestTick_FinishedMatchIsNotTickedAgain(t *testing.T) {
	r, coord, store, bus, _ := setup(t)
	require.NoError(t, coord.JoinQueue("alice", 2))
	require.NoError(t, coord.JoinQueue("bob", 2))
	gameID := onlyGameID(t, coord)

	match, ok := coord.Match(gameID)
	require.True(t, ok)
	for i := 0; i < 500_000 && match.Status() != pong.StatusFinished; i++ {
		r.Tick(tickSeconds)
	}
	require.Equal(t, pong.StatusFinished, match.Status())
	before := len(store.UpdateStatusCalls)

	states, err := events.Subscribe[runner.StateUpdate](bus, runner.EventGameState, nil)
	require.NoError(t, err)
	r.Tick(tickSeconds)

	_, ok = states.TryNext()
	assert.False(t, ok, "finished matches are skipped")
	assert.Len(t, store.UpdateStatusCalls, before, "completion runs once, not every tick")
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	r, _, _, _, _ := setup(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("runner did not stop after cancellation")
	}
}
