// Package config loads the server configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Default values applied when the corresponding variable is unset.
const (
	DefaultPort            = 1337
	DefaultTokenHeaderName = "x-access-token"
	DefaultMongoDatabase   = "huddle"
	DefaultMongoHost       = "localhost:27017"

	// DefaultReconcileSpec runs the recurrence engine once per day at
	// 18:59 local time.
	DefaultReconcileSpec = "59 18 * * *"
)

// Config holds everything the server needs from the environment.
type Config struct {
	Port int

	MongoUsername string
	MongoPassword string
	MongoHost     string
	MongoDatabase string

	// JWTSecret signs and verifies auth tokens. The server refuses to
	// start without it.
	JWTSecret string

	// TokenHeaderName is the HTTP header the auth token travels in, both
	// on requests and echoed back on authenticated responses.
	TokenHeaderName string

	// ReconcileSpec is the cron expression for the daily reconciliation
	// pass.
	ReconcileSpec string
}

// Load reads the configuration from the environment, applying defaults for
// everything except JWT_SECRET.
func Load() (Config, error) {
	cfg := Config{
		Port:            DefaultPort,
		MongoUsername:   os.Getenv("MONGO_USERNAME"),
		MongoPassword:   os.Getenv("MONGO_PASSWORD"),
		MongoHost:       getenv("MONGO_HOST", DefaultMongoHost),
		MongoDatabase:   getenv("MONGO_DATABASE", DefaultMongoDatabase),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		TokenHeaderName: getenv("TOKEN_HEADER_NAME", DefaultTokenHeaderName),
		ReconcileSpec:   getenv("RECONCILE_SCHEDULE", DefaultReconcileSpec),
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("config: invalid PORT %q: %w", portStr, err)
		}
		cfg.Port = port
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("config: JWT_SECRET must be set")
	}

	return cfg, nil
}

// MongoURI assembles the connection string from its components. Credentials
// are optional so a local unauthenticated instance works out of the box.
func (c Config) MongoURI() string {
	if c.MongoUsername == "" {
		return fmt.Sprintf("mongodb://%s", c.MongoHost)
	}
	return fmt.Sprintf("mongodb://%s:%s@%s", c.MongoUsername, c.MongoPassword, c.MongoHost)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
