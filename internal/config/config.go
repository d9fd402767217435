package config

import (
	"fmt"
	"os"

	"github.com/spf13/cast"
)

type Config struct {
	Port          string
	AllowedOrigin string
	// DBPath is the bbolt database file. The literal value ":memory:"
	// selects the in-memory store instead, for dev and tests.
	DBPath   string
	SeedDemo bool
	LogLevel string
}

func Load() Config {
	return Config{
		Port:          getEnv("PORT", "8080"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://127.0.0.1:3000"),
		DBPath:        getEnv("POS_DB_PATH", "warungpos.db"),
		SeedDemo:      cast.ToBool(getEnv("POS_SEED_DEMO", "true")),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}

func (c Config) InMemory() bool {
	return c.DBPath == ":memory:"
}

func getEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}
