package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

func Config(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("Warning: .env file not found, reading from system environment variables")
	}

	return os.Getenv(key)
}

// ConfigFloat reads a float key, falling back to def when unset or malformed.
func ConfigFloat(key string, def float64) float64 {
	raw := Config(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("Warning: %s=%q is not a number, using default %v", key, raw, def)
		return def
	}
	return v
}

func ConfigInt64(key string, def int64) int64 {
	raw := Config(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.Printf("Warning: %s=%q is not an integer, using default %v", key, raw, def)
		return def
	}
	return v
}

// ConfigMillis reads a duration expressed as a millisecond count.
func ConfigMillis(key string, def time.Duration) time.Duration {
	raw := Config(key)
	if raw == "" {
		return def
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.Printf("Warning: %s=%q is not a millisecond count, using default %v", key, raw, def)
		return def
	}
	return time.Duration(ms) * time.Millisecond
}
