package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/mauv0809/paddle-arena/internal/database"
	"github.com/mauv0809/paddle-arena/internal/games"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := map[string]string{
		"DB_NAME":        "arena.db",
		"MIGRATIONS_DIR": "./migrations",
	}
	for key := range config {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		}
	}
	for _, key := range []string{"TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN"} {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		}
	}
	return config
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	db, teardown, err := database.InitDB(cfg["DB_NAME"], cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"], cfg["MIGRATIONS_DIR"])
	if err != nil {
		log.Fatalf("Failed to open database: %s", err)
	}
	defer teardown()

	store := games.New(db)

	// A handful of demo players to smoke-test the queue against.
	demoPlayers := []games.PlayerInfo{
		{ID: "player-1", Name: "Seeder Player A"},
		{ID: "player-2", Name: "Seeder Player B"},
		{ID: "player-3", Name: "Seeder Player C"},
		{ID: "player-4", Name: "Seeder Player D"},
	}

	for _, p := range demoPlayers {
		if err := store.UpsertPlayer(p.ID, p.Name); err != nil {
			log.Fatalf("Failed to insert demo player %s: %s", p.Name, err)
		}
	}

	log.Info("Seeding complete", "players", len(demoPlayers))
}
