package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/votojudicial/backend/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"DATABASE_URL", "PORT", "SYNC_TOKEN", "SYNC_TOKEN_BCRYPT", "AUTH_JWT_PUBLIC_KEY",
		"AUTH_JWT_SECRET", "CATALOG_TIMEOUT", "CATALOG_RPS", "CATALOGS_FILE", "CORS_ORIGINS",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	if cfg.Port != "5050" {
		t.Errorf("expected default port 5050, got %q", cfg.Port)
	}
	if cfg.CatalogTimeout != 30*time.Second {
		t.Errorf("unexpected timeout %v", cfg.CatalogTimeout)
	}
	if len(cfg.Sources) != 5 {
		t.Errorf("expected 5 default sources, got %d", len(cfg.Sources))
	}
	if !errors.Is(cfg.Validate(), config.ErrMissingDatabaseURL) {
		t.Errorf("expected ErrMissingDatabaseURL, got %v", cfg.Validate())
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/votos")
	t.Setenv("AUTH_JWT_SECRET", "dev")
	t.Setenv("CATALOG_TIMEOUT", "5s")
	t.Setenv("CATALOG_RPS", "0.5")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := config.LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if cfg.CatalogTimeout != 5*time.Second || cfg.CatalogRPS != 0.5 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Errorf("unexpected origins %v", cfg.CORSOrigins)
	}
}

func TestLoadFromEnv_BadDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("CATALOG_TIMEOUT", "soon")
	if _, err := config.LoadFromEnv(); err == nil {
		t.Fatal("expected error for bad CATALOG_TIMEOUT")
	}
}

func TestValidate_MissingAuthKey(t *testing.T) {
	cfg := config.Config{DatabaseURL: "postgres://x"}
	if !errors.Is(cfg.Validate(), config.ErrMissingAuthKey) {
		t.Errorf("expected ErrMissingAuthKey, got %v", cfg.Validate())
	}
}

func TestLoadSources(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalogs.yaml")
	content := "catalogs:\n  - key: salaSuperior\n    url: http://localhost:9999/ss.json\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	srcs, err := config.LoadSources(path)
	if err != nil {
		t.Fatalf("LoadSources: %v", err)
	}
	if len(srcs) != 1 || srcs[0].Key != "salaSuperior" || srcs[0].URL != "http://localhost:9999/ss.json" {
		t.Errorf("unexpected sources %+v", srcs)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("catalogs:\n  - key: x\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := config.LoadSources(bad); err == nil {
		t.Error("expected error for entry without url")
	}
}
