// Package config reads runtime settings from the environment, with an
// optional .env file for development.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"resa/internal/sl"
)

type Config struct {
	Port   int
	DBPath string

	JourneyPlannerBaseURL string
	TransportBaseURL      string
	AlertsURL             string

	SiteRefreshMinInterval time.Duration
	SiteRefreshInterval    time.Duration
	AlertsPollInterval     time.Duration
}

// Load reads .env (if present) and then the environment.
func Load(logger *slog.Logger) Config {
	if err := godotenv.Load(); err == nil {
		logger.Info("loaded .env")
	}

	return Config{
		Port:   envInt("RESA_PORT", 8080),
		DBPath: envStr("RESA_DB_PATH", "resa.db"),

		JourneyPlannerBaseURL: envStr("SL_JP2_BASE_URL", sl.DefaultJourneyPlannerBaseURL),
		TransportBaseURL:      envStr("SL_TRANSPORT_BASE_URL", sl.DefaultTransportBaseURL),
		AlertsURL:             envStr("SL_ALERTS_URL", "https://opendata.samtrafiken.se/gtfs-rt/sl/ServiceAlerts.pb"),

		SiteRefreshMinInterval: envDuration("SL_MIN_FETCH_INTERVAL_MS", 60_000),
		SiteRefreshInterval:    envDuration("SITE_REFRESH_INTERVAL_MS", 24*60*60*1000),
		AlertsPollInterval:     envDuration("ALERTS_POLL_INTERVAL_MS", 60_000),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// envDuration reads a millisecond count.
func envDuration(key string, fallbackMS int) time.Duration {
	return time.Duration(envInt(key, fallbackMS)) * time.Millisecond
}
