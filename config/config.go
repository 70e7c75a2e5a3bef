// Package config loads service configuration from environment variables.
package config

import (
	"context"
	"os"
	"strings"

	"formflow/logging"
)

// Config aggregates every runtime setting for the service.
type Config struct {
	// Addr is the HTTP listen address, e.g. ":8080".
	Addr string
	// DatabaseURL is the Postgres connection string.
	DatabaseURL string
	// JWTSecret signs and verifies session tokens.
	JWTSecret string
	// Notes holds the enrichment endpoint settings.
	Notes NotesConfig
}

// NotesConfig describes the remote notes enrichment endpoint.
//
// Both values are required for the endpoint to work. Missing values are only
// warned about: the service keeps running and notes calls fail at the remote
// with an ordinary error, which the detail resolver degrades gracefully.
type NotesConfig struct {
	// ServiceURL is the base URL of the enrichment service.
	ServiceURL string
	// AnonKey is the public client key sent in the apikey header.
	AnonKey string
}

// Load reads configuration from the environment. Only DATABASE_URL and
// JWT_SECRET are hard requirements for the caller to enforce; everything else
// has a usable default or an empty-string fallback.
func Load(log logging.Logger) Config {
	cfg := Config{
		Addr:        getEnvOrDefault("ADDR", ":8080"),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:   strings.TrimSpace(os.Getenv("JWT_SECRET")),
		Notes: NotesConfig{
			ServiceURL: strings.TrimSpace(os.Getenv("NOTES_SERVICE_URL")),
			AnonKey:    strings.TrimSpace(os.Getenv("NOTES_ANON_KEY")),
		},
	}

	ctx := context.Background()
	if cfg.Notes.ServiceURL == "" {
		log.Warn(ctx, "NOTES_SERVICE_URL is not set, notes enrichment calls will fail")
	}
	if cfg.Notes.AnonKey == "" {
		log.Warn(ctx, "NOTES_ANON_KEY is not set, notes enrichment calls will fail")
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}
