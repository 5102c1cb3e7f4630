package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nexus-gm/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestInitWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gm.log")
	if err := Init(config.LogConfig{Level: "debug", File: path, MaxMB: 1, Service: "test-gm"}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { _ = Close() })

	log.Info().Str("session_id", "s1").Msg("turn committed")

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := string(b)
	if !strings.Contains(line, `"session_id":"s1"`) || !strings.Contains(line, `"service":"test-gm"`) {
		t.Fatalf("unexpected log line: %s", line)
	}
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Fatalf("global level = %v, want debug", zerolog.GlobalLevel())
	}
}

func TestInitFallsBackToInfoOnBadLevel(t *testing.T) {
	if err := Init(config.LogConfig{Level: "loud"}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Fatalf("global level = %v, want info", zerolog.GlobalLevel())
	}
	if Writer() != os.Stdout {
		t.Fatal("Writer() should default to stdout")
	}
}
