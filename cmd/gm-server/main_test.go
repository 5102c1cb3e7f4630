package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nexus-gm/internal/config"
)

func testAppConfig(t *testing.T) config.AppConfig {
	t.Helper()
	return config.AppConfig{
		Server: config.ServerConfig{
			AdminAPIKey:         "admin-key",
			EventRetention:      50,
			MaxIdleHours:        1,
			MemoryDir:           t.TempDir(),
			IllustrationWorkers: 1,
		},
		Narrator: config.NarratorConfig{
			OllamaURL:   "http://127.0.0.1:1",
			OllamaModel: "mistral:7b",
			Timeout:     time.Second,
			RPS:         10,
			Burst:       1,
		},
	}
}

func TestBuildWiresRoutes(t *testing.T) {
	c, err := build(t.Context(), testAppConfig(t))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer c.close()
	if c.snapshots != nil || c.snapshotter != nil {
		t.Fatal("snapshots should be disabled without POSTGRES_DSN")
	}
	if c.memory == nil {
		t.Fatal("memory store should be enabled with MEMORY_DIR")
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected /healthz 200, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/sessions", nil)
	w = httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	// Empty body should fail decode and prove route is mounted.
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected /api/sessions 400, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodOptions, "/mcp", nil)
	w = httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected OPTIONS /mcp 204, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/memory/skye", nil)
	req.Header.Set("X-Admin-Key", "admin-key")
	w = httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected DELETE /api/memory 200 with memory enabled, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/debug/vars", nil)
	w = httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected /api/debug/vars 401 without key, got %d", w.Code)
	}
}

func TestBuildFailsOnUnreachablePostgres(t *testing.T) {
	cfg := testAppConfig(t)
	cfg.Server.PostgresDSN = "postgres://nobody@127.0.0.1:1/none?sslmode=disable&connect_timeout=1"
	if _, err := build(t.Context(), cfg); err == nil {
		t.Fatal("expected build to fail when postgres is unreachable")
	}
}

func TestNewRollerSeeded(t *testing.T) {
	a, b := newRoller(42), newRoller(42)
	for i := 0; i < 20; i++ {
		if x, y := a.Roll(20), b.Roll(20); x != y {
			t.Fatalf("roll %d: %d != %d for the same seed", i, x, y)
		}
	}
	if r := newRoller(0).Roll(6); r < 1 || r > 6 {
		t.Fatalf("random roll = %d", r)
	}
}
