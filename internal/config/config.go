package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN         string
	Environment   string
	HTTPAddr      string
	MigrationsDir string

	// MinLeadTime is how far in the future a slot must start to be bookable.
	MinLeadTime time.Duration
	// PendingTTL is how long a pending booking may hold its slot before the
	// sweeper reclaims it.
	PendingTTL time.Duration
	// SweepInterval is how often the reclaim sweeper runs.
	SweepInterval time.Duration
}

func Load() (*Config, error) {
	// .env is optional; real environments set variables directly.
	if err := godotenv.Load(".env"); err == nil {
		log.Println("Loaded configuration from .env file")
	}

	cfg := &Config{
		DBDSN:         os.Getenv("DB_DSN"),
		Environment:   os.Getenv("ENV"),
		HTTPAddr:      os.Getenv("HTTP_ADDR"),
		MigrationsDir: os.Getenv("MIGRATIONS_DIR"),
		MinLeadTime:   minutesEnv("MIN_LEAD_TIME_MINUTES", 120),
		PendingTTL:    minutesEnv("PENDING_TTL_MINUTES", 15),
		SweepInterval: minutesEnv("SWEEP_INTERVAL_MINUTES", 5),
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.MigrationsDir == "" {
		cfg.MigrationsDir = "migrations"
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	return cfg, nil
}

func minutesEnv(key string, fallback int) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return time.Duration(fallback) * time.Minute
	}

	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes < 0 {
		log.Printf("Invalid %s=%q, using default %d", key, raw, fallback)
		return time.Duration(fallback) * time.Minute
	}

	return time.Duration(minutes) * time.Minute
}
