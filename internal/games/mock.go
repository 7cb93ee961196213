package games

import (
	"fmt"
	"sync"
	"time"

	"github.com/mauv0809/paddle-arena/internal/pong"
)

// MockStore is an in-memory GameStore for testing. It records calls and lets
// individual operations be overridden through the XxxFunc fields. It is safe
// for concurrent use.
type MockStore struct {
	mu sync.Mutex

	players      map[string]PlayerInfo
	playerOrder  []string
	games        map[int64]*GameRecord
	participants map[int64][]ParticipantRecord
	nextID       int64

	CreateGameFunc     func(maxPlayers int, private bool, accessCode string) (*GameRecord, error)
	AddParticipantFunc func(gameID int64, playerID string, seat int) error
	UpdateStatusFunc   func(gameID int64, status pong.Status) error

	UpdateStatusCalls []UpdateStatusCall
}

// UpdateStatusCall holds the arguments of one UpdateStatus call.
type UpdateStatusCall struct {
	GameID int64
	Status pong.Status
}

// NewMock creates an empty mock store.
func NewMock() *MockStore {
	return &MockStore{
		players:      make(map[string]PlayerInfo),
		games:        make(map[int64]*GameRecord),
		participants: make(map[int64][]ParticipantRecord),
	}
}

func (m *MockStore) UpsertPlayer(playerID, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.players[playerID]; !ok {
		m.playerOrder = append(m.playerOrder, playerID)
	}
	if existing, ok := m.players[playerID]; ok && name == "" {
		name = existing.Name
	}
	m.players[playerID] = PlayerInfo{ID: playerID, Name: name}
	return nil
}

func (m *MockStore) GetPlayers(playerIDs []string) ([]PlayerInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	players := make([]PlayerInfo, 0, len(playerIDs))
	for _, id := range playerIDs {
		if p, ok := m.players[id]; ok {
			players = append(players, p)
		}
	}
	return players, nil
}

func (m *MockStore) GetAllPlayers() ([]PlayerInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	players := make([]PlayerInfo, 0, len(m.playerOrder))
	for _, id := range m.playerOrder {
		players = append(players, m.players[id])
	}
	return players, nil
}

func (m *MockStore) CreateGame(maxPlayers int, private bool, accessCode string) (*GameRecord, error) {
	if m.CreateGameFunc != nil {
		return m.CreateGameFunc(maxPlayers, private, accessCode)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	now := time.Now()
	record := &GameRecord{
		ID:         m.nextID,
		Status:     pong.StatusWaiting,
		MaxPlayers: maxPlayers,
		Private:    private,
		AccessCode: accessCode,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	m.games[record.ID] = record
	return record, nil
}

func (m *MockStore) AddParticipant(gameID int64, playerID string, seat int) error {
	if m.AddParticipantFunc != nil {
		return m.AddParticipantFunc(gameID, playerID, seat)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.games[gameID]; !ok {
		return fmt.Errorf("%w: id %d", ErrNotFound, gameID)
	}
	m.participants[gameID] = append(m.participants[gameID], ParticipantRecord{
		GameID:   gameID,
		PlayerID: playerID,
		Seat:     seat,
	})
	return nil
}

func (m *MockStore) UpdateStatus(gameID int64, status pong.Status) error {
	m.mu.Lock()
	m.UpdateStatusCalls = append(m.UpdateStatusCalls, UpdateStatusCall{GameID: gameID, Status: status})
	m.mu.Unlock()
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(gameID, status)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.games[gameID]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrNotFound, gameID)
	}
	record.Status = status
	record.UpdatedAt = time.Now()
	return nil
}

func (m *MockStore) SetScores(gameID int64, scores map[string]int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.participants[gameID] {
		if score, ok := scores[p.PlayerID]; ok {
			m.participants[gameID][i].Score = score
		}
	}
	return nil
}

func (m *MockStore) GetGame(gameID int64) (*GameRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, gameID)
	}
	copied := *record
	return &copied, nil
}

func (m *MockStore) GetParticipants(gameID int64) ([]ParticipantRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ParticipantRecord(nil), m.participants[gameID]...), nil
}

func (m *MockStore) ListGames() ([]*GameRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	records := make([]*GameRecord, 0, len(m.games))
	for _, record := range m.games {
		copied := *record
		records = append(records, &copied)
	}
	return records, nil
}
