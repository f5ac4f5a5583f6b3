package config

import (
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
)

type Config struct {
	Port         string
	DatabaseDSN  string
	CatalogPath  string
	DataDir      string
	ExportDir    string
	FontPath     string
	ProxyTimeout int     // seconds, per upstream image fetch
	ExchangeRate float64 // KRW per USD, display only
	Dev          bool
}

// Load loads configuration from environment with sensible defaults.
// Precedence: explicit env var > .env file (if loaded by caller) > default.
func Load() Config {
	cfg := Config{}
	cfg.Port = getEnv("PORT", "8080")
	cfg.DatabaseDSN = getEnv("DATABASE_DSN", "file:quotations.db")
	cfg.CatalogPath = getEnv("CATALOG_PATH", "products.json")
	cfg.DataDir = getEnv("DATA_DIR", "data")
	cfg.ExportDir = getEnv("EXPORT_DIR", "exports")
	// Empty means the embedded Go fonts; set to a TTF path for wider coverage.
	cfg.FontPath = getEnv("FONT_PATH", "")
	cfg.ProxyTimeout = parseInt("PROXY_TIMEOUT", 8)
	cfg.ExchangeRate = parseFloat("EXCHANGE_RATE_KRW", 1450)
	cfg.Dev = ParseBool("DEV", false)
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			log.Warn().Str("key", key).Str("value", v).Msg("invalid integer, using default")
			return def
		}
		return n
	}
	return def
}

func parseFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			log.Warn().Str("key", key).Str("value", v).Msg("invalid float, using default")
			return def
		}
		return f
	}
	return def
}

// ParseBool reads an env var as bool with default.
func ParseBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Warn().Str("key", key).Str("value", v).Msg("invalid boolean, using default")
			return def
		}
		return b
	}
	return def
}
