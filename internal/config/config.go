package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config keeps runtime settings for the sync client.
type Config struct {
	APIBaseURL      string
	APIToken        string
	DatabaseURL     string
	UserID          string
	CacheTTL        time.Duration
	RefreshInterval time.Duration
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		APIBaseURL:      strings.TrimSpace(os.Getenv("TASKSYNC_API_URL")),
		APIToken:        strings.TrimSpace(os.Getenv("TASKSYNC_TOKEN")),
		DatabaseURL:     strings.TrimSpace(os.Getenv("TASKSYNC_DB")),
		UserID:          strings.TrimSpace(os.Getenv("TASKSYNC_USER")),
		CacheTTL:        parseDuration(strings.TrimSpace(os.Getenv("TASKSYNC_CACHE_TTL"))),
		RefreshInterval: parseDuration(strings.TrimSpace(os.Getenv("TASKSYNC_REFRESH_INTERVAL"))),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "tasksync.db"
	}

	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 5 * time.Minute
	}

	if cfg.APIBaseURL == "" {
		return cfg, fmt.Errorf("TASKSYNC_API_URL is required")
	}
	if cfg.UserID == "" {
		return cfg, fmt.Errorf("TASKSYNC_USER is required")
	}

	return cfg, nil
}

func parseDuration(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0
	}
	return d
}
