package pong

// Status is the lifecycle state of a match. Transitions are monotonic:
// waiting -> playing -> finished. Reset is the only way back to waiting.
type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

// Direction is a player's current input.
type Direction int

const (
	DirNone Direction = 0
	DirUp   Direction = 1
	DirDown Direction = -1
)

// Axis is the axis a paddle slides along. Side paddles move along Y, the
// top/bottom paddles of a four player match move along X.
type Axis int

const (
	AxisY Axis = iota
	AxisX
)

// Vec is a 2D vector.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Participant is one player's in-match state.
type Participant struct {
	ID    string    `json:"id"`
	Pos   Vec       `json:"pos"`
	Score int       `json:"score"`
	Input Direction `json:"input"`
	Axis  Axis      `json:"axis"`
}

// Ball is the ball's state. Vel is kept at unit length; Speed scales it.
type Ball struct {
	Pos     Vec     `json:"pos"`
	Vel     Vec     `json:"vel"`
	Speed   float64 `json:"speed"`
	LastHit string  `json:"last_hit,omitempty"`
}

// State is a point-in-time copy of a match, safe to hand to the transport
// layer for broadcast.
type State struct {
	Players     []Participant `json:"players"`
	Ball        Ball          `json:"ball"`
	Status      Status        `json:"status"`
	MaxPlayers  int           `json:"max_players"`
	ArenaWidth  float64       `json:"arena_width"`
	ArenaHeight float64       `json:"arena_height"`
}

// ChangeKind tags a Change produced by Update.
type ChangeKind int

const (
	ChangeScore ChangeKind = iota
	ChangeStatus
)

// Change is a notable transition observed during one Update call. The caller
// decides what to do with it (broadcast, persist, ignore).
type Change struct {
	Kind     ChangeKind
	PlayerID string // set for ChangeScore
	Score    int    // set for ChangeScore
	Status   Status // set for ChangeStatus
}
