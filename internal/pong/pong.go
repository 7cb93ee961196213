package pong

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"golang.org/x/exp/rand"
)

// ErrMatchFull is returned by AddPlayer when every seat is taken.
var ErrMatchFull = errors.New("match is full")

const (
	arenaWidth   = 40.0
	arenaHeight2 = 30.0
	arenaHeight4 = 40.0

	paddleLength = 6.0
	paddleSpeed  = 24.0

	baseBallSpeed = 20.0
	speedGrowth   = 1.05
	spinNudge     = 0.25

	// scoringZone is the band near an edge where paddle checks run;
	// outMargin is how far past an edge the ball must travel to score.
	scoringZone = 0.5
	outMargin   = 1.0

	hitCooldownTicks = 10
	winningScore     = 5
)

// Match owns the physics state of one game. All methods are safe for
// concurrent use, but Update must only be driven by a single ticker; two
// concurrent Update callers on the same instance race on elapsed time.
type Match struct {
	mu         sync.RWMutex
	players    []*Participant
	ball       Ball
	status     Status
	maxPlayers int
	height     float64
	cooldown   int
	rng        *rand.Rand
}

// NewMatch creates an empty match in waiting status. Size must be 2 or 4; the
// arena is taller for four player games so the top and bottom paddles have
// room to defend.
func NewMatch(maxPlayers int) (*Match, error) {
	return NewMatchWithSource(maxPlayers, rand.NewSource(uint64(time.Now().UnixNano())))
}

// NewMatchWithSource is NewMatch with an explicit randomness source for the
// ball serves.
func NewMatchWithSource(maxPlayers int, src rand.Source) (*Match, error) {
	if maxPlayers != 2 && maxPlayers != 4 {
		return nil, fmt.Errorf("unsupported match size %d", maxPlayers)
	}
	height := arenaHeight2
	if maxPlayers == 4 {
		height = arenaHeight4
	}
	m := &Match{
		status:     StatusWaiting,
		maxPlayers: maxPlayers,
		height:     height,
		rng:        rand.New(src),
	}
	m.resetBall()
	return m, nil
}

// AddPlayer seats a player at the next free seat. Seats 0 and 1 are the left
// and right edges, seats 2 and 3 (four player games) the top and bottom.
func (m *Match) AddPlayer(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.players) == m.maxPlayers {
		return fmt.Errorf("%w: %d players seated", ErrMatchFull, m.maxPlayers)
	}

	p := &Participant{ID: id}
	switch len(m.players) {
	case 0:
		p.Pos = Vec{X: -arenaWidth / 2}
		p.Axis = AxisY
	case 1:
		p.Pos = Vec{X: arenaWidth / 2}
		p.Axis = AxisY
	case 2:
		p.Pos = Vec{Y: m.height / 2}
		p.Axis = AxisX
	case 3:
		p.Pos = Vec{Y: -m.height / 2}
		p.Axis = AxisX
	}
	m.players = append(m.players, p)
	return nil
}

// SetInput overwrites a player's input. Unknown ids are ignored; inputs arrive
// from a best-effort external loop and a stale id is not worth failing over.
func (m *Match) SetInput(id string, dir Direction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.players {
		if p.ID == id {
			p.Input = dir
			return
		}
	}
}

// Start transitions the match from waiting to playing. Any other starting
// status is left untouched.
func (m *Match) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status == StatusWaiting {
		m.status = StatusPlaying
	}
}

// Reset returns a finished match to waiting with scores cleared and the same
// participants seated.
func (m *Match) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status != StatusFinished {
		return
	}
	for _, p := range m.players {
		p.Score = 0
		p.Input = DirNone
	}
	m.status = StatusWaiting
	m.resetBall()
}

// Status returns the current lifecycle status.
func (m *Match) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// MaxPlayers returns the seat count of the match.
func (m *Match) MaxPlayers() int {
	return m.maxPlayers
}

// Winner returns the participant with the highest score. It is only defined
// once the match is finished; ok is false otherwise. Equal top scores resolve
// to the earliest seat.
func (m *Match) Winner() (Participant, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.status != StatusFinished || len(m.players) == 0 {
		return Participant{}, false
	}
	best := 0
	for i, p := range m.players {
		if p.Score > m.players[best].Score {
			best = i
		}
	}
	return *m.players[best], true
}

// Snapshot copies the full match state for broadcast.
func (m *Match) Snapshot() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	players := make([]Participant, len(m.players))
	for i, p := range m.players {
		players[i] = *p
	}
	return State{
		Players:     players,
		Ball:        m.ball,
		Status:      m.status,
		MaxPlayers:  m.maxPlayers,
		ArenaWidth:  arenaWidth,
		ArenaHeight: m.height,
	}
}

// Update advances the simulation by dt seconds and returns the score and
// status transitions it caused. It is a no-op unless the match is playing.
func (m *Match) Update(dt float64) []Change {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status != StatusPlaying || dt <= 0 {
		return nil
	}

	m.movePaddles(dt)
	m.ball.Pos.X += m.ball.Vel.X * m.ball.Speed * dt
	m.ball.Pos.Y += m.ball.Vel.Y * m.ball.Speed * dt

	if m.cooldown > 0 {
		m.cooldown--
	}
	if m.maxPlayers == 2 {
		m.bounceWalls()
	}
	m.collidePaddles()
	return m.scoreExits()
}

func (m *Match) movePaddles(dt float64) {
	for _, p := range m.players {
		if p.Input == DirNone {
			continue
		}
		delta := float64(p.Input) * paddleSpeed * dt
		switch p.Axis {
		case AxisY:
			p.Pos.Y = clamp(p.Pos.Y+delta, m.height/2-paddleLength/2)
		case AxisX:
			p.Pos.X = clamp(p.Pos.X+delta, arenaWidth/2-paddleLength/2)
		}
	}
}

// bounceWalls reflects the ball off the top and bottom edges, which are not
// scoring boundaries in a two player match.
func (m *Match) bounceWalls() {
	top := m.height / 2
	if m.ball.Pos.Y > top && m.ball.Vel.Y > 0 {
		m.ball.Pos.Y = top - (m.ball.Pos.Y - top)
		m.ball.Vel.Y = -m.ball.Vel.Y
	}
	if m.ball.Pos.Y < -top && m.ball.Vel.Y < 0 {
		m.ball.Pos.Y = -top - (m.ball.Pos.Y + top)
		m.ball.Vel.Y = -m.ball.Vel.Y
	}
}

func (m *Match) collidePaddles() {
	if m.cooldown > 0 || !m.inScoringZone() {
		return
	}
	for _, p := range m.players {
		if p.ID == m.ball.LastHit {
			continue
		}
		if !m.overlaps(p) {
			continue
		}
		m.reflectOff(p)
		m.ball.Speed *= speedGrowth
		m.ball.LastHit = p.ID
		m.cooldown = hitCooldownTicks
		return
	}
}

func (m *Match) inScoringZone() bool {
	return math.Abs(m.ball.Pos.X) >= arenaWidth/2-scoringZone ||
		math.Abs(m.ball.Pos.Y) >= m.height/2-scoringZone
}

// overlaps reports whether the ball is on the paddle's plane (within half the
// scoring band of it) and inside the paddle's length span.
func (m *Match) overlaps(p *Participant) bool {
	switch p.Axis {
	case AxisY:
		return math.Abs(m.ball.Pos.X-p.Pos.X) <= scoringZone &&
			math.Abs(m.ball.Pos.Y-p.Pos.Y) <= paddleLength/2
	default:
		return math.Abs(m.ball.Pos.Y-p.Pos.Y) <= scoringZone &&
			math.Abs(m.ball.Pos.X-p.Pos.X) <= paddleLength/2
	}
}

// reflectOff mirrors the ball's velocity about the paddle's outward normal and
// adds a nudge along the paddle's motion axis proportional to its input, so a
// moving paddle steers the return.
func (m *Match) reflectOff(p *Participant) {
	switch p.Axis {
	case AxisY:
		m.ball.Vel.X = -m.ball.Vel.X
		m.ball.Vel.Y += spinNudge * float64(p.Input)
	case AxisX:
		m.ball.Vel.Y = -m.ball.Vel.Y
		m.ball.Vel.X += spinNudge * float64(p.Input)
	}
	normalize(&m.ball.Vel)
}

// scoreExits credits the last hitter when the ball leaves the arena and resets
// the serve. The last participant to touch the ball scores regardless of which
// edge it exits through.
func (m *Match) scoreExits() []Change {
	out := math.Abs(m.ball.Pos.X) > arenaWidth/2+outMargin ||
		math.Abs(m.ball.Pos.Y) > m.height/2+outMargin
	if !out {
		return nil
	}

	var changes []Change
	if m.ball.LastHit != "" {
		for _, p := range m.players {
			if p.ID != m.ball.LastHit {
				continue
			}
			p.Score++
			changes = append(changes, Change{Kind: ChangeScore, PlayerID: p.ID, Score: p.Score})
			if p.Score >= winningScore {
				m.status = StatusFinished
				changes = append(changes, Change{Kind: ChangeStatus, Status: StatusFinished})
			}
			break
		}
	}
	m.resetBall()
	return changes
}

// resetBall centers the ball with a fresh serve at base speed. Two player
// serves are biased toward either side, within 45 degrees of horizontal; four
// player serves are uniform over the full circle.
func (m *Match) resetBall() {
	var angle float64
	if m.maxPlayers == 2 {
		angle = (m.rng.Float64()*2 - 1) * math.Pi / 4
		if m.rng.Intn(2) == 1 {
			angle = math.Pi - angle
		}
	} else {
		angle = m.rng.Float64() * 2 * math.Pi
	}
	m.ball = Ball{
		Vel:   Vec{X: math.Cos(angle), Y: math.Sin(angle)},
		Speed: baseBallSpeed,
	}
	m.cooldown = 0
}

func clamp(v, bound float64) float64 {
	if v > bound {
		return bound
	}
	if v < -bound {
		return -bound
	}
	return v
}

func normalize(v *Vec) {
	n := math.Hypot(v.X, v.Y)
	if n == 0 {
		v.X = 1
		return
	}
	v.X /= n
	v.Y /= n
}
