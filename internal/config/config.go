package config

import (
	"os"
	"strings"
	"time"
)

// Config keeps runtime settings for the CLI and the sync loop.
type Config struct {
	DatabaseURL  string
	UserID       string
	SyncInterval time.Duration
}

// Load reads configuration from environment variables with sane defaults.
// An empty SPASTA_USER means signed out; reads work, mutations fail.
func Load() Config {
	cfg := Config{
		DatabaseURL:  strings.TrimSpace(os.Getenv("SPASTA_DB")),
		UserID:       strings.TrimSpace(os.Getenv("SPASTA_USER")),
		SyncInterval: parseInterval(strings.TrimSpace(os.Getenv("SPASTA_SYNC_INTERVAL"))),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "spasta.db"
	}
	if cfg.SyncInterval == 0 {
		cfg.SyncInterval = 15 * time.Minute
	}

	return cfg
}

func parseInterval(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0
	}
	return d
}
