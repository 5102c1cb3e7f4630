package memory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
)

func newTestStore(t *testing.T, maxPerUser int) *Store {
	t.Helper()
	s, err := New(Config{DataDir: t.TempDir(), MaxPerUser: maxPerUser})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRememberAndRecall(t *testing.T) {
	s := newTestStore(t, 0)
	ctx := context.Background()
	for _, c := range []string{"met Mara", "found a key", "crossed the bridge"} {
		if err := s.Remember(ctx, "u1", c, "exchange"); err != nil {
			t.Fatalf("Remember: %v", err)
		}
	}
	_ = s.Remember(ctx, "u2", "other player", "exchange")

	got, err := s.RecentContext(ctx, "u1", 2)
	if err != nil {
		t.Fatalf("RecentContext: %v", err)
	}
	if len(got) != 2 || got[0] != "crossed the bridge" || got[1] != "found a key" {
		t.Fatalf("recent = %v", got)
	}
	none, err := s.RecentContext(ctx, "nobody", 5)
	if err != nil || len(none) != 0 {
		t.Fatalf("unknown user = %v, %v", none, err)
	}
}

func TestRememberCollapsesRepeats(t *testing.T) {
	s := newTestStore(t, 0)
	ctx := context.Background()
	_ = s.Remember(ctx, "u1", "Shadow  falls", "")
	_ = s.Remember(ctx, "u1", "shadow falls", "")

	got, _ := s.RecentContext(ctx, "u1", 10)
	if len(got) != 1 {
		t.Fatalf("repeat should collapse, got %v", got)
	}
	var dup int
	if err := s.db.QueryRow(`SELECT duplicate_count FROM memories WHERE user_id = 'u1'`).Scan(&dup); err != nil {
		t.Fatalf("query: %v", err)
	}
	if dup != 1 {
		t.Fatalf("duplicate_count = %d", dup)
	}
	if err := s.Remember(ctx, "u1", "   ", ""); !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("err = %v, want ErrEmptyContent", err)
	}
}

func TestRememberPrunesPerUser(t *testing.T) {
	s := newTestStore(t, 3)
	ctx := context.Background()
	for i := 0; i < 6; i++ {
		if err := s.Remember(ctx, "u1", fmt.Sprintf("entry %d", i), ""); err != nil {
			t.Fatalf("Remember: %v", err)
		}
	}
	got, _ := s.RecentContext(ctx, "u1", 10)
	if len(got) != 3 || got[2] != "entry 3" {
		t.Fatalf("recent = %v", got)
	}
	n, err := s.Forget(ctx, "u1")
	if err != nil || n != 3 {
		t.Fatalf("Forget = %d, %v", n, err)
	}
}

func TestNewOpenFailure(t *testing.T) {
	orig := openDB
	t.Cleanup(func() { openDB = orig })
	openDB = func(driver, dsn string) (*sql.DB, error) {
		return nil, errors.New("no driver")
	}
	if _, err := New(Config{DataDir: t.TempDir()}); err == nil {
		t.Fatal("expected open failure")
	}
}
