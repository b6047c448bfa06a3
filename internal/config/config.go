package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/votojudicial/backend/internal/ine"
)

var (
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is required")
	ErrMissingAuthKey     = errors.New("AUTH_JWT_PUBLIC_KEY or AUTH_JWT_SECRET is required")
)

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}

// Config holds runtime configuration for the server and the CLIs.
type Config struct {
	DatabaseURL string
	Port        string

	// SyncToken is the shared secret for the catalog sync. SyncTokenHash,
	// when set, is a bcrypt hash that takes precedence.
	SyncToken     string
	SyncTokenHash string

	JWTPublicKeyPEM string
	JWTSecret       string

	CatalogTimeout time.Duration
	CatalogRPS     float64
	CatalogsFile   string
	Sources        []ine.Source

	CORSOrigins []string
}

// LoadFromEnv reads configuration from the environment.
//
// Environment variables:
//   - DATABASE_URL: Postgres DSN (required)
//   - PORT: listen port (default 5050)
//   - SYNC_TOKEN / SYNC_TOKEN_BCRYPT: sync job secret, plain or bcrypt-hashed
//   - AUTH_JWT_PUBLIC_KEY: PEM RSA key for identity-provider session tokens
//   - AUTH_JWT_SECRET: HMAC secret, for local development
//   - CATALOG_TIMEOUT: per-request timeout for catalog fetches (default 30s)
//   - CATALOG_RPS: outbound catalog requests per second (default 2)
//   - CATALOGS_FILE: optional YAML file overriding the catalog sources
//   - CORS_ORIGINS: comma-separated allow-list
func LoadFromEnv() (Config, error) {
	cfg := Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		Port:            envOr("PORT", "5050"),
		SyncToken:       os.Getenv("SYNC_TOKEN"),
		SyncTokenHash:   os.Getenv("SYNC_TOKEN_BCRYPT"),
		JWTPublicKeyPEM: strings.ReplaceAll(os.Getenv("AUTH_JWT_PUBLIC_KEY"), `\n`, "\n"),
		JWTSecret:       os.Getenv("AUTH_JWT_SECRET"),
		CatalogTimeout:  ine.DefaultTimeout,
		CatalogRPS:      2,
		CatalogsFile:    os.Getenv("CATALOGS_FILE"),
		Sources:         ine.DefaultSources(),
		CORSOrigins:     defaultOrigins,
	}

	if v := os.Getenv("CATALOG_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("CATALOG_TIMEOUT: %w", err)
		}
		cfg.CatalogTimeout = d
	}
	if v := os.Getenv("CATALOG_RPS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("CATALOG_RPS: %w", err)
		}
		cfg.CatalogRPS = f
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}
	if cfg.CatalogsFile != "" {
		srcs, err := LoadSources(cfg.CatalogsFile)
		if err != nil {
			return cfg, err
		}
		cfg.Sources = srcs
	}
	return cfg, nil
}

// Validate checks the settings the HTTP server cannot run without.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	if c.JWTPublicKeyPEM == "" && c.JWTSecret == "" {
		return ErrMissingAuthKey
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
