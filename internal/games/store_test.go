package games_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mauv0809/paddle-arena/internal/database"
	"github.com/mauv0809/paddle-arena/internal/games"
	"github.com/mauv0809/paddle-arena/internal/pong"
)

func setupStore(t *testing.T) games.GameStore {
	t.Helper()
	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(teardown)
	return games.New(db)
}

func TestUpsertPlayer(t *testing.T) {
	store := setupStore(t)

	require.NoError(t, store.UpsertPlayer("u1", "Alice"))
	players, err := store.GetPlayers([]string{"u1"})
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, "Alice", players[0].Name)

	// A new name replaces the stored one.
	require.NoError(t, store.UpsertPlayer("u1", "Alicia"))
	players, err = store.GetPlayers([]string{"u1"})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", players[0].Name)

	// An empty name keeps it.
	require.NoError(t, store.UpsertPlayer("u1", ""))
	players, err = store.GetPlayers([]string{"u1"})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", players[0].Name)
}

func TestGetPlayers_PreservesOrderAndSkipsUnknown(t *testing.T) {
	store := setupStore(t)
	require.NoError(t, store.UpsertPlayer("u1", "Alice"))
	require.NoError(t, store.UpsertPlayer("u2", "Bob"))

	players, err := store.GetPlayers([]string{"u2", "ghost", "u1"})
	require.NoError(t, err)
	require.Len(t, players, 2)
	assert.Equal(t, "u2", players[0].ID)
	assert.Equal(t, "u1", players[1].ID)
}

func TestGetAllPlayers(t *testing.T) {
	store := setupStore(t)
	require.NoError(t, store.UpsertPlayer("u1", "Alice"))
	require.NoError(t, store.UpsertPlayer("u2", "Bob"))

	players, err := store.GetAllPlayers()
	require.NoError(t, err)
	assert.ElementsMatch(t, []games.PlayerInfo{
		{ID: "u1", Name: "Alice"},
		{ID: "u2", Name: "Bob"},
	}, players)
}

func TestCreateGame_RoundTrip(t *testing.T) {
	store := setupStore(t)

	record, err := store.CreateGame(4, true, "code-123")
	require.NoError(t, err)
	assert.Positive(t, record.ID)
	assert.Equal(t, pong.StatusWaiting, record.Status)

	loaded, err := store.GetGame(record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, loaded.ID)
	assert.Equal(t, 4, loaded.MaxPlayers)
	assert.True(t, loaded.Private)
	assert.Equal(t, "code-123", loaded.AccessCode)
	assert.Equal(t, pong.StatusWaiting, loaded.Status)
}

func TestGetGame_NotFound(t *testing.T) {
	store := setupStore(t)
	_, err := store.GetGame(42)
	assert.ErrorIs(t, err, games.ErrNotFound)
}

func TestUpdateStatus(t *testing.T) {
	store := setupStore(t)
	record, err := store.CreateGame(2, false, "")
	require.NoError(t, err)

	require.NoError(t, store.UpdateStatus(record.ID, pong.StatusPlaying))
	loaded, err := store.GetGame(record.ID)
	require.NoError(t, err)
	assert.Equal(t, pong.StatusPlaying, loaded.Status)

	err = store.UpdateStatus(record.ID+1, pong.StatusPlaying)
	assert.ErrorIs(t, err, games.ErrNotFound)
}

func TestAddParticipant_And_GetParticipants(t *testing.T) {
	store := setupStore(t)
	require.NoError(t, store.UpsertPlayer("u1", "Alice"))
	require.NoError(t, store.UpsertPlayer("u2", "Bob"))
	record, err := store.CreateGame(2, false, "")
	require.NoError(t, err)

	// Inserted out of seat order; reads come back sorted by seat.
	require.NoError(t, store.AddParticipant(record.ID, "u2", 1))
	require.NoError(t, store.AddParticipant(record.ID, "u1", 0))

	participants, err := store.GetParticipants(record.ID)
	require.NoError(t, err)
	require.Len(t, participants, 2)
	assert.Equal(t, "u1", participants[0].PlayerID)
	assert.Equal(t, 0, participants[0].Seat)
	assert.Equal(t, "u2", participants[1].PlayerID)
	assert.Equal(t, 1, participants[1].Seat)
}

func TestAddParticipant_EnforcesForeignKeys(t *testing.T) {
	store := setupStore(t)
	require.NoError(t, store.UpsertPlayer("u1", "Alice"))
	record, err := store.CreateGame(2, false, "")
	require.NoError(t, err)

	assert.Error(t, store.AddParticipant(99, "u1", 0), "unknown game id must be rejected")
	assert.Error(t, store.AddParticipant(record.ID, "ghost", 0), "unknown player id must be rejected")
}

func TestSetScores(t *testing.T) {
	store := setupStore(t)
	require.NoError(t, store.UpsertPlayer("u1", "Alice"))
	require.NoError(t, store.UpsertPlayer("u2", "Bob"))
	record, err := store.CreateGame(2, false, "")
	require.NoError(t, err)
	require.NoError(t, store.AddParticipant(record.ID, "u1", 0))
	require.NoError(t, store.AddParticipant(record.ID, "u2", 1))

	require.NoError(t, store.SetScores(record.ID, map[string]int{"u1": 5, "u2": 3}))

	participants, err := store.GetParticipants(record.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, participants[0].Score)
	assert.Equal(t, 3, participants[1].Score)
}

func TestListGames(t *testing.T) {
	store := setupStore(t)
	first, err := store.CreateGame(2, false, "")
	require.NoError(t, err)
	second, err := store.CreateGame(4, false, "")
	require.NoError(t, err)

	records, err := store.ListGames()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, second.ID, records[0].ID, "newest game comes first")
	assert.Equal(t, first.ID, records[1].ID)
}
