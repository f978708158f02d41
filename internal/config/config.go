// Package config assembles runtime settings from the environment, with
// an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/clinimed/agenda/internal/session"
)

const defaultAPIURL = "https://api.clinimed.app"

// Config is everything the application needs to start.
type Config struct {
	// APIURL is the base URL of the clinic API.
	APIURL string
	// Variant selects the credential scheme for this deployment.
	Variant session.Variant
	// TokenPath is where the bearer token lives between runs.
	TokenPath string
	// Token, when set, overrides the stored token for this run.
	Token string
}

// Load reads settings from a .env file (if present) and the environment.
// Environment variables win over the file.
func Load() (Config, error) {
	godotenv.Load() //nolint:errcheck // a missing .env is the normal case

	cfg := Config{
		APIURL:  envOr("AGENDA_API_URL", defaultAPIURL),
		Variant: session.VariantBearer,
		Token:   os.Getenv("AGENDA_TOKEN"),
	}

	switch v := os.Getenv("AGENDA_AUTH_VARIANT"); v {
	case "", string(session.VariantBearer):
	case string(session.VariantCookie):
		cfg.Variant = session.VariantCookie
	default:
		return Config{}, fmt.Errorf("AGENDA_AUTH_VARIANT must be %q or %q, got %q",
			session.VariantBearer, session.VariantCookie, v)
	}

	if path := os.Getenv("AGENDA_TOKEN_FILE"); path != "" {
		cfg.TokenPath = path
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("get home dir: %w", err)
		}
		cfg.TokenPath = filepath.Join(home, ".agenda", "token")
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
