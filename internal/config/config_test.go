package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8082" {
		t.Fatalf("default port: %s", cfg.Port)
	}
	if cfg.SessionTTL != 30*24*time.Hour {
		t.Fatalf("default session TTL: %v", cfg.SessionTTL)
	}
	if cfg.AMQPURL != "" {
		t.Fatal("AMQP should be disabled by default")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("API_SECRET_KEY", "household-secret")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("SECURE_COOKIE", "true")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("port from env: %s", cfg.Port)
	}
	if cfg.APIKey != "household-secret" {
		t.Fatalf("api key from env: %s", cfg.APIKey)
	}
	if cfg.SessionTTL != time.Hour {
		t.Fatalf("session TTL from env: %v", cfg.SessionTTL)
	}
	if !cfg.SecureCookie {
		t.Fatal("secure cookie from env")
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Port:         "8082",
		SQLiteDBPath: t.TempDir() + "/menage.db",
		SessionTTL:   time.Hour,
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	bad := *cfg
	bad.Port = "notaport"
	if err := bad.Validate(); err == nil {
		t.Fatal("non-numeric port accepted")
	}

	bad = *cfg
	bad.AMQPURL = "http://localhost:5672"
	if err := bad.Validate(); err == nil {
		t.Fatal("non-amqp scheme accepted")
	}

	bad = *cfg
	bad.SessionTTL = time.Second
	if err := bad.Validate(); err == nil {
		t.Fatal("tiny session TTL accepted")
	}
}
