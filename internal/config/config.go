// Package config loads runtime configuration from the environment,
// with an optional .env file for local development.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs at startup.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// DBPath is the SQLite database file path.
	DBPath string

	// JWTSecret signs owner session tokens.
	JWTSecret string

	// SessionTTL is how long owner sessions stay valid.
	SessionTTL time.Duration

	// DiscordBotToken and DiscordChannelID enable the Discord change
	// notifier when both are set.
	DiscordBotToken  string
	DiscordChannelID string

	// SeedSampleData loads the demo ledger into the local store on
	// startup, for runs without real data.
	SeedSampleData bool
}

// Load reads the configuration. A missing .env file is not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		Addr:             getEnv("ADDR", ":8080"),
		DBPath:           getEnv("DB_PATH", "./data/ledger.db"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		SessionTTL:       24 * time.Hour,
		DiscordBotToken:  os.Getenv("DISCORD_BOT_TOKEN"),
		DiscordChannelID: os.Getenv("DISCORD_CHANNEL_ID"),
		SeedSampleData:   os.Getenv("SEED_SAMPLE_DATA") == "true",
	}

	if ttl := os.Getenv("SESSION_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_TTL %q: %w", ttl, err)
		}
		cfg.SessionTTL = d
	}

	if cfg.JWTSecret == "" {
		slog.Warn("JWT_SECRET not set, using development default")
		cfg.JWTSecret = "dev-only-insecure-secret"
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
