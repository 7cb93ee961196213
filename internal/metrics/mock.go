package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu              sync.Mutex
	queueJoins      int
	queueLeaves     int
	gamesCreated    int
	eventsPublished int
	tickDurations   []float64
	startupTime     float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		tickDurations: make([]float64, 0),
	}
}

func (m *Mock) IncQueueJoins() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queueJoins++
}

func (m *Mock) IncQueueLeaves() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queueLeaves++
}

func (m *Mock) IncGamesCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gamesCreated++
}

func (m *Mock) IncEventsPublished() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventsPublished++
}

func (m *Mock) ObserveTickDuration(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tickDurations = append(m.tickDurations, seconds)
}

func (m *Mock) SetStartupTime(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = seconds
}

// QueueJoins returns the number of times IncQueueJoins was called.
func (m *Mock) QueueJoins() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queueJoins
}

// QueueLeaves returns the number of times IncQueueLeaves was called.
func (m *Mock) QueueLeaves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queueLeaves
}

// GamesCreated returns the number of times IncGamesCreated was called.
func (m *Mock) GamesCreated() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gamesCreated
}

// EventsPublished returns the number of times IncEventsPublished was called.
func (m *Mock) EventsPublished() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.eventsPublished
}

// TickDurations returns every observed tick duration.
func (m *Mock) TickDurations() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.tickDurations...)
}
