package main

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// config is the server configuration, read from the environment (and an
// optional .env file).
type config struct {
	DBURL       string
	JWTSecret   string
	Addr        string
	CORSOrigins []string
	LogLevel    string
	LogJSON     bool
	SeedCatalog bool
	TokenTTL    time.Duration
}

// loadConfig loads .env if present, then reads the environment.
func loadConfig() (*config, error) {
	// A missing .env is fine; the environment alone may be enough.
	_ = godotenv.Load()
	return configFromEnv()
}

func configFromEnv() (*config, error) {
	cfg := &config{
		DBURL:       os.Getenv("DB_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		Addr:        getEnv("ADDR", "localhost:8001"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogJSON:     getEnvBool("LOG_JSON", false),
		SeedCatalog: getEnvBool("SEED_CATALOG", true),
		TokenTTL:    getEnvDuration("TOKEN_TTL", defaultTokenTTL),
	}

	if cfg.DBURL == "" {
		return nil, errors.New("DB_URL is not set")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return defaultVal
}

// splitList splits a comma separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
