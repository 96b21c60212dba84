package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Alerts.EmailThreshold != 30*time.Minute {
		t.Fatalf("expected 30m email threshold, got %v", cfg.Alerts.EmailThreshold)
	}
	if cfg.Statistics.Schedule != "@every 1h" {
		t.Fatalf("unexpected statistics schedule %q", cfg.Statistics.Schedule)
	}
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing jwt secret")
	}
}

func TestLoadFileOverride(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "test-secret")

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("server:\n  port: 9191\nlogging:\n  level: debug\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Server.Port != 9191 {
		t.Fatalf("file override not applied, port %d", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("file override not applied, level %q", cfg.Logging.Level)
	}
}
