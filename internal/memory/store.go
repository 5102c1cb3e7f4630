// Package memory is a best-effort recall store of past narrator exchanges,
// kept per user in SQLite.
package memory

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

const defaultMaxPerUser = 200

var ErrEmptyContent = errors.New("memory_empty_content")

type Config struct {
	DataDir string
	// MaxPerUser caps stored rows per user; older rows are pruned on write.
	MaxPerUser int
}

type Store struct {
	db  *sql.DB
	cfg Config
	now func() time.Time
}

func New(cfg Config) (*Store, error) {
	if cfg.MaxPerUser <= 0 {
		cfg.MaxPerUser = defaultMaxPerUser
	}
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("memory: create data dir: %w", err)
	}

	db, err := openDB("sqlite", filepath.Join(cfg.DataDir, "memory.db"))
	if err != nil {
		return nil, fmt.Errorf("memory: open database: %w", err)
	}
	// Pragmas are per connection; one connection keeps them in force.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("memory: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, cfg: cfg, now: time.Now}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("memory: migration: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS memories (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id         TEXT    NOT NULL,
			kind            TEXT    NOT NULL,
			content         TEXT    NOT NULL,
			content_hash    TEXT    NOT NULL,
			duplicate_count INTEGER NOT NULL DEFAULT 0,
			created_at      TEXT    NOT NULL,
			last_seen_at    TEXT    NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_memories_user ON memories(user_id, id DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Remember stores content for userID. Repeating the user's latest entry
// only bumps its duplicate counter.
func (s *Store) Remember(ctx context.Context, userID, content, kind string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return ErrEmptyContent
	}
	if kind == "" {
		kind = "note"
	}
	hash := hashContent(content)
	ts := s.now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("memory: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var lastID int64
	var lastHash string
	err = tx.QueryRowContext(ctx,
		`SELECT id, content_hash FROM memories WHERE user_id = ? ORDER BY id DESC LIMIT 1`, userID,
	).Scan(&lastID, &lastHash)
	switch {
	case err == nil && lastHash == hash:
		if _, err := tx.ExecContext(ctx,
			`UPDATE memories SET duplicate_count = duplicate_count + 1, last_seen_at = ? WHERE id = ?`, ts, lastID,
		); err != nil {
			return fmt.Errorf("memory: bump duplicate: %w", err)
		}
		return tx.Commit()
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("memory: latest: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO memories (user_id, kind, content, content_hash, created_at, last_seen_at) VALUES (?, ?, ?, ?, ?, ?)`,
		userID, kind, content, hash, ts, ts,
	); err != nil {
		return fmt.Errorf("memory: insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM memories WHERE user_id = ? AND id NOT IN (
			SELECT id FROM memories WHERE user_id = ? ORDER BY id DESC LIMIT ?
		)`, userID, userID, s.cfg.MaxPerUser,
	); err != nil {
		return fmt.Errorf("memory: prune: %w", err)
	}
	return tx.Commit()
}

// RecentContext returns up to limit entries for userID, newest first.
func (s *Store) RecentContext(ctx context.Context, userID string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT content FROM memories WHERE user_id = ? ORDER BY id DESC LIMIT ?`, userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("memory: recent: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("memory: scan: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Forget removes every entry for userID and reports how many were dropped.
func (s *Store) Forget(ctx context.Context, userID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM memories WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("memory: forget: %w", err)
	}
	return res.RowsAffected()
}

func hashContent(content string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(content)), " ")
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
