package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds environment-driven settings for the strategy core.
type Config struct {
	Port string

	// Database
	DBPath string

	// Strategy store
	MaxStrategies int
	SyncInterval  time.Duration // repository poll cadence per consumer
	SeedPath      string        // optional YAML seed file for first run

	// Price feed
	PriceAPIURL   string
	PriceInterval time.Duration // default live price poll cadence
	PriceCoins    []string
	PriceRate     float64 // outbound requests per second to the price API

	// Notifications
	NotifyTTL time.Duration
}

// Load reads environment variables (optionally via .env) into Config.
func Load() (*Config, error) {
	// Ignore error so the app still starts when .env is missing.
	_ = godotenv.Load()

	return &Config{
		Port:          getEnv("PORT", "8080"),
		DBPath:        getEnv("DB_PATH", "./data/strategies.db"),
		MaxStrategies: getEnvInt("MAX_STRATEGIES", 10),
		SyncInterval:  getEnvDuration("SYNC_INTERVAL", time.Second),
		SeedPath:      getEnv("SEED_PATH", ""),
		PriceAPIURL:   getEnv("PRICE_API_URL", "https://api.hyperliquid.xyz/info"),
		PriceInterval: getEnvDuration("PRICE_INTERVAL", 10*time.Second),
		PriceCoins:    splitAndTrim(getEnv("PRICE_COINS", "BTC,ETH,SOL")),
		PriceRate:     getEnvFloat("PRICE_RATE", 5),
		NotifyTTL:     getEnvDuration("NOTIFY_TTL", 3*time.Second),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitAndTrim(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
