// Package config builds runtime configuration from environment variables so
// main stays lean. Every knob has a development default except the database
// URL, which fails fast when unset.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full service configuration.
type Config struct {
	Server   Server
	Database Database
	Redis    Redis
	Kafka    Kafka
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	JWTSigningKey   string
	JWTIssuer       string
	JWTAudience     string
	ShutdownTimeout time.Duration
}

// Database captures the postgres pool configuration.
type Database struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Redis captures the summary cache configuration. An empty URL disables the
// cache entirely.
type Redis struct {
	URL          string
	SummaryTTL   time.Duration
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Kafka captures the outbox relay configuration. Empty brokers disable the
// relay; staged events stay in the outbox table.
type Kafka struct {
	Brokers       []string
	EventsTopic   string
	RelayInterval time.Duration
}

// FromEnv builds a Config from environment variables.
func FromEnv() (Config, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	cfg := Config{
		Server: Server{
			Addr:            envOr("WELLFLOW_ADDR", ":8080"),
			JWTSigningKey:   jwtSigningKey,
			JWTIssuer:       envOr("JWT_ISSUER", "wellflow"),
			JWTAudience:     envOr("JWT_AUDIENCE", "wellflow-api"),
			ShutdownTimeout: envDurationOr("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: Database{
			URL:             databaseURL,
			MaxOpenConns:    envIntOr("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envIntOr("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDurationOr("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Redis: Redis{
			URL:          os.Getenv("REDIS_URL"),
			SummaryTTL:   envDurationOr("SUMMARY_CACHE_TTL", 5*time.Minute),
			DialTimeout:  envDurationOr("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDurationOr("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDurationOr("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: Kafka{
			Brokers:       splitNonEmpty(os.Getenv("KAFKA_BROKERS")),
			EventsTopic:   envOr("KAFKA_EVENTS_TOPIC", "wellflow.domain-events"),
			RelayInterval: envDurationOr("OUTBOX_RELAY_INTERVAL", 5*time.Second),
		},
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return v
}

func splitNonEmpty(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
