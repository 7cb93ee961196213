package config

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	TickRate      int
	Turso         TursoConfig
	ProjectID     string
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}
