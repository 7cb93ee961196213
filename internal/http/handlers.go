package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/mauv0809/paddle-arena/internal/games"
	"github.com/mauv0809/paddle-arena/internal/matchmaking"
	"github.com/mauv0809/paddle-arena/internal/pong"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) JoinQueueHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req joinQueueRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.PlayerID == "" {
			http.Error(w, "player_id is required", http.StatusBadRequest)
			return
		}
		if req.Name != "" {
			if err := s.Store.UpsertPlayer(req.PlayerID, req.Name); err != nil {
				writeError(w, err)
				return
			}
		}
		if err := s.Coordinator.JoinQueue(req.PlayerID, req.Size); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s.Coordinator.QueueEntries())
	}
}

func (s *Server) LeaveQueueHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req playerRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if err := s.Coordinator.LeaveQueue(req.PlayerID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s.Coordinator.QueueEntries())
	}
}

func (s *Server) QueueHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.Coordinator.QueueEntries())
	}
}

func (s *Server) ListGamesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := s.Store.ListGames()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, records)
	}
}

func (s *Server) ListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Store.GetAllPlayers()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, players)
	}
}

func (s *Server) GameStateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid game id", http.StatusBadRequest)
			return
		}
		match, ok := s.Coordinator.Match(gameID)
		if !ok {
			http.Error(w, "game not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, match.Snapshot())
	}
}

func (s *Server) CreatePrivateGameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req playerRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.PlayerID == "" {
			http.Error(w, "player_id is required", http.StatusBadRequest)
			return
		}
		if req.Name != "" {
			if err := s.Store.UpsertPlayer(req.PlayerID, req.Name); err != nil {
				writeError(w, err)
				return
			}
		}
		record, err := s.Coordinator.CreatePrivateGame(req.PlayerID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, record)
	}
}

func (s *Server) AcceptInviteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req gamePlayerRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Name != "" {
			if err := s.Store.UpsertPlayer(req.PlayerID, req.Name); err != nil {
				writeError(w, err)
				return
			}
		}
		if err := s.Coordinator.AcceptInvite(req.GameID, req.PlayerID); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "Joined game %d", req.GameID)
	}
}

func (s *Server) InputHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req inputRequest
		if !decodeBody(w, r, &req) {
			return
		}
		var dir pong.Direction
		switch req.Direction {
		case "up":
			dir = pong.DirUp
		case "down":
			dir = pong.DirDown
		case "none", "":
			dir = pong.DirNone
		default:
			http.Error(w, "direction must be up, down or none", http.StatusBadRequest)
			return
		}
		if err := s.Coordinator.SetInput(req.GameID, req.PlayerID, dir); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

// writeError maps domain errors onto HTTP statuses: a full match is a
// conflict, an unknown id is not found, anything else is an internal failure.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pong.ErrMatchFull):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, matchmaking.ErrGameNotFound), errors.Is(err, games.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		log.Error("Request failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
