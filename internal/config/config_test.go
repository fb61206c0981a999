package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultValidatesWithSecret(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() accepted empty JWT secret")
	}
	cfg.Auth.JWTSecret = "test-secret"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "linkza.toml")
	data := `
[server]
addr = ":9999"
read_timeout = "30s"

[mongo]
uri = "mongodb://db:27017"
database = "linkza_test"

[auth]
jwt_secret = "file-secret"
session_ttl = "48h"

[rate_limit]
requests = 5
window = "30s"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout.Duration != 30*time.Second {
		t.Errorf("ReadTimeout = %v", cfg.Server.ReadTimeout)
	}
	if cfg.Auth.SessionTTL.Duration != 48*time.Hour {
		t.Errorf("SessionTTL = %v", cfg.Auth.SessionTTL)
	}
	if cfg.RateLimit.Requests != 5 {
		t.Errorf("RateLimit.Requests = %d", cfg.RateLimit.Requests)
	}
	// Untouched settings keep their defaults.
	if cfg.Server.WriteTimeout.Duration != 15*time.Second {
		t.Errorf("WriteTimeout = %v", cfg.Server.WriteTimeout)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("LINKZA_ADDR", ":7777")
	t.Setenv("LINKZA_JWT_SECRET", "env-secret")
	t.Setenv("LINKZA_SESSION_TTL", "1h")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != ":7777" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	if cfg.Auth.JWTSecret != "env-secret" {
		t.Errorf("JWTSecret = %q", cfg.Auth.JWTSecret)
	}
	if cfg.Auth.SessionTTL.Duration != time.Hour {
		t.Errorf("SessionTTL = %v", cfg.Auth.SessionTTL)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(path, []byte("[server\naddr="), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() accepted malformed TOML")
	}
}
