package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort      int
	DataDir         string // Directory holding the JSON collection files
	BackupDir       string // Directory receiving collection snapshots
	BackupSchedule  string // Cron expression for the snapshot scheduler
	BackupRetention int    // How many snapshots to keep before pruning
	AllowedOrigin   string // CORS origin for the frontend
	JWTSecret       string // HMAC key for signing auth tokens
}

// Load loads configuration from a .env file (if present) and environment
// variables, falling back to defaults.
func Load() (*Config, error) {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	retentionStr := getEnv("BACKUP_RETENTION", "10")
	retention, err := strconv.Atoi(retentionStr)
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:      port,
		DataDir:         getEnv("DATA_DIR", "./data"),
		BackupDir:       getEnv("BACKUP_DIR", "./backups"),
		BackupSchedule:  getEnv("BACKUP_SCHEDULE", "0 */6 * * *"),
		BackupRetention: retention,
		AllowedOrigin:   getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),
		JWTSecret:       getEnv("JWT_SECRET", ""),
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
