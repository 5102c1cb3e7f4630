package config

import (
	"testing"
	"time"
)

func TestLoadServerDefaults(t *testing.T) {
	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.EventRetention != 500 {
		t.Fatalf("EventRetention = %d, want 500", cfg.EventRetention)
	}
	if cfg.MaxIdle() != 24*time.Hour {
		t.Fatalf("MaxIdle() = %v, want 24h", cfg.MaxIdle())
	}
	if cfg.JanitorInterval != 10*time.Minute {
		t.Fatalf("JanitorInterval = %v, want 10m", cfg.JanitorInterval)
	}
	if cfg.PostgresDSN != "" || cfg.MemoryDir != "" {
		t.Fatalf("optional collaborators should default to disabled: %+v", cfg)
	}
}

func TestLoadServerParseTypes(t *testing.T) {
	t.Setenv("SESSION_EVENT_RETENTION", "50")
	t.Setenv("SESSION_MAX_IDLE_HOURS", "2")
	t.Setenv("JANITOR_INTERVAL", "30s")
	t.Setenv("PERMISSIVE_CHARACTERS", "true")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if cfg.EventRetention != 50 {
		t.Fatalf("EventRetention = %d, want 50", cfg.EventRetention)
	}
	if cfg.MaxIdle() != 2*time.Hour {
		t.Fatalf("MaxIdle() = %v, want 2h", cfg.MaxIdle())
	}
	if cfg.JanitorInterval != 30*time.Second {
		t.Fatalf("JanitorInterval = %v, want 30s", cfg.JanitorInterval)
	}
	if !cfg.PermissiveCharacters {
		t.Fatal("PermissiveCharacters = false, want true")
	}
}

func TestLoadServerRejectsBadDuration(t *testing.T) {
	t.Setenv("JANITOR_INTERVAL", "soon")

	if _, err := LoadServer(); err == nil {
		t.Fatal("LoadServer() expected error, got nil")
	}
}
