package games

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mauv0809/paddle-arena/internal/pong"
)

// New creates a new game store on top of the given database handle.
func New(db *sql.DB) GameStore {
	return &store{db: db}
}

func (s *store) UpsertPlayer(playerID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO players (id, name, created_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = CASE WHEN excluded.name != '' THEN excluded.name ELSE players.name END
	`
	if _, err := s.db.Exec(query, playerID, name, time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to upsert player %s: %w", playerID, err)
	}
	return nil
}

func (s *store) GetPlayers(playerIDs []string) ([]PlayerInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Looked up one at a time to preserve the caller's ordering; queue
	// snapshots are small.
	players := make([]PlayerInfo, 0, len(playerIDs))
	for _, id := range playerIDs {
		var p PlayerInfo
		var name sql.NullString
		err := s.db.QueryRow(`SELECT id, name FROM players WHERE id = ?`, id).Scan(&p.ID, &name)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get player %s: %w", id, err)
		}
		p.Name = name.String
		players = append(players, p)
	}
	return players, nil
}

func (s *store) GetAllPlayers() ([]PlayerInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT id, name FROM players ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	var players []PlayerInfo
	for rows.Next() {
		var p PlayerInfo
		var name sql.NullString
		if err := rows.Scan(&p.ID, &name); err != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", err)
		}
		p.Name = name.String
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *store) CreateGame(maxPlayers int, private bool, accessCode string) (*GameRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	record := &GameRecord{
		Status:     pong.StatusWaiting,
		MaxPlayers: maxPlayers,
		Private:    private,
		AccessCode: accessCode,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	query := `
		INSERT INTO games (status, max_players, private, access_code, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	res, err := s.db.Exec(query,
		string(record.Status),
		record.MaxPlayers,
		record.Private,
		record.AccessCode,
		record.CreatedAt.Unix(),
		record.UpdatedAt.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}
	record.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read new game id: %w", err)
	}

	log.Info("Created game record", "id", record.ID, "max_players", maxPlayers, "private", private)
	return record, nil
}

func (s *store) AddParticipant(gameID int64, playerID string, seat int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `INSERT INTO game_players (game_id, player_id, seat) VALUES (?, ?, ?)`
	if _, err := s.db.Exec(query, gameID, playerID, seat); err != nil {
		return fmt.Errorf("failed to add participant %s to game %d: %w", playerID, gameID, err)
	}
	return nil
}

func (s *store) UpdateStatus(gameID int64, status pong.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `UPDATE games SET status = ?, updated_at = ? WHERE id = ?`
	res, err := s.db.Exec(query, string(status), time.Now().Unix(), gameID)
	if err != nil {
		return fmt.Errorf("failed to update game %d status: %w", gameID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, gameID)
	}

	log.Info("Updated game status", "id", gameID, "status", status)
	return nil
}

func (s *store) SetScores(gameID int64, scores map[string]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `UPDATE game_players SET score = ? WHERE game_id = ? AND player_id = ?`
	for playerID, score := range scores {
		if _, err := tx.Exec(query, score, gameID, playerID); err != nil {
			return fmt.Errorf("failed to set score for %s in game %d: %w", playerID, gameID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit scores for game %d: %w", gameID, err)
	}
	return nil
}

func (s *store) GetGame(gameID int64) (*GameRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, status, max_players, private, access_code, created_at, updated_at
		FROM games WHERE id = ?
	`
	record, err := scanGame(s.db.QueryRow(query, gameID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, gameID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game %d: %w", gameID, err)
	}
	return record, nil
}

func (s *store) GetParticipants(gameID int64) ([]ParticipantRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT game_id, player_id, seat, score FROM game_players
		WHERE game_id = ? ORDER BY seat ASC
	`
	rows, err := s.db.Query(query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants of game %d: %w", gameID, err)
	}
	defer rows.Close()

	var participants []ParticipantRecord
	for rows.Next() {
		var p ParticipantRecord
		if err := rows.Scan(&p.GameID, &p.PlayerID, &p.Seat, &p.Score); err != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", err)
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

func (s *store) ListGames() ([]*GameRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, status, max_players, private, access_code, created_at, updated_at
		FROM games ORDER BY created_at DESC, id DESC
	`
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	var records []*GameRecord
	for rows.Next() {
		record, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game row: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (*GameRecord, error) {
	var record GameRecord
	var status string
	var accessCode sql.NullString
	var createdAt, updatedAt int64

	err := row.Scan(&record.ID, &status, &record.MaxPlayers, &record.Private, &accessCode, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	record.Status = pong.Status(status)
	record.AccessCode = accessCode.String
	record.CreatedAt = time.Unix(createdAt, 0)
	record.UpdatedAt = time.Unix(updatedAt, 0)
	return &record, nil
}
