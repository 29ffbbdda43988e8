package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppEnv   string
	LogLevel string

	HTTPPort int

	// Backing stores. StoreBackend selects "postgres" or "memory"; the
	// memory backend needs no external services and is meant for local runs.
	StoreBackend string

	PostgresHost string
	PostgresPort int
	PostgresUser string
	PostgresPass string
	PostgresDB   string

	// Comma-separated broker list; empty disables event publication.
	KafkaBrokers    string
	OrderEventTopic string

	SessionTTL time.Duration
}

func Load() Config {
	return Config{
		AppEnv:   getEnv("APP_ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		HTTPPort: getEnvInt("HTTP_PORT", 8080),

		StoreBackend: getEnv("STORE_BACKEND", "memory"),

		PostgresHost: getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort: getEnvInt("POSTGRES_PORT", 5432),
		PostgresUser: getEnv("POSTGRES_USER", "storefront"),
		PostgresPass: getEnv("POSTGRES_PASSWORD", "storefrontpassword"),
		PostgresDB:   getEnv("POSTGRES_DB", "storefront_db"),

		KafkaBrokers:    getEnv("KAFKA_BROKERS", ""),
		OrderEventTopic: getEnv("ORDER_EVENT_TOPIC", "storefront.orders.placed"),

		SessionTTL: getEnvDuration("SESSION_TTL", 12*time.Hour),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)

	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)

	if v == "" {
		return def
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}

	return d
}
