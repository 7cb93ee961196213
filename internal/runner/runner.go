package runner

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mauv0809/paddle-arena/internal/events"
	"github.com/mauv0809/paddle-arena/internal/matchmaking"
	"github.com/mauv0809/paddle-arena/internal/metrics"
	"github.com/mauv0809/paddle-arena/internal/pong"
)

// Bus event names emitted by the runner.
const (
	// EventGameState carries a StateUpdate snapshot every tick for each
	// playing match.
	EventGameState = "game:state"

	// EventGameScore carries a ScoreNotice when a participant scores.
	EventGameScore = "game:score"

	// EventGameStatus carries a StatusNotice on a lifecycle transition.
	EventGameStatus = "game:status"
)

// StateUpdate is a broadcastable snapshot of one match.
type StateUpdate struct {
	GameID int64      `json:"game_id" msgpack:"game_id"`
	State  pong.State `json:"state" msgpack:"state"`
}

// ScoreNotice reports one scoring event.
type ScoreNotice struct {
	GameID   int64  `json:"game_id" msgpack:"game_id"`
	PlayerID string `json:"player_id" msgpack:"player_id"`
	Score    int    `json:"score" msgpack:"score"`
}

// StatusNotice reports one lifecycle transition.
type StatusNotice struct {
	GameID int64       `json:"game_id" msgpack:"game_id"`
	Status pong.Status `json:"status" msgpack:"status"`
}

// Runner drives every playing match at a fixed tick rate and publishes the
// resulting snapshots and change notices on the bus. It is the only caller of
// Update on any engine instance.
type Runner struct {
	coord    matchmaking.Coordinator
	bus      *events.Bus
	metrics  metrics.Metrics
	interval time.Duration
}

// New creates a runner ticking at the given rate (ticks per second).
func New(coord matchmaking.Coordinator, bus *events.Bus, metricsSvc metrics.Metrics, tickRate int) *Runner {
	if tickRate <= 0 {
		tickRate = 60
	}
	return &Runner{
		coord:    coord,
		bus:      bus,
		metrics:  metricsSvc,
		interval: time.Second / time.Duration(tickRate),
	}
}

// Run ticks until the context is cancelled. It blocks; start it in its own
// goroutine.
func (r *Runner) Run(ctx context.Context) {
	log.Info("Runner started", "interval", r.interval)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			log.Info("Runner stopped")
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			r.Tick(dt)
		}
	}
}

// Tick advances every playing match by dt seconds.
func (r *Runner) Tick(dt float64) {
	started := time.Now()
	for gameID, match := range r.coord.Matches() {
		if match.Status() != pong.StatusPlaying {
			continue
		}
		changes := match.Update(dt)
		r.publish(EventGameState, StateUpdate{GameID: gameID, State: match.Snapshot()})

		finished := false
		for _, change := range changes {
			switch change.Kind {
			case pong.ChangeScore:
				r.publish(EventGameScore, ScoreNotice{GameID: gameID, PlayerID: change.PlayerID, Score: change.Score})
			case pong.ChangeStatus:
				r.publish(EventGameStatus, StatusNotice{GameID: gameID, Status: change.Status})
				finished = change.Status == pong.StatusFinished
			}
		}
		if finished {
			if err := r.coord.CompleteGame(gameID); err != nil {
				log.Error("Failed to complete game", "game", gameID, "error", err)
			}
		}
	}
	r.metrics.ObserveTickDuration(time.Since(started).Seconds())
}

func (r *Runner) publish(name string, payload any) {
	if err := r.bus.Emit(name, payload); err != nil {
		log.Error("Failed to publish event", "event", name, "error", err)
	}
	r.metrics.IncEventsPublished()
}
