package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"nexus-gm/internal/session"
)

const defaultListLimit = 50

// SnapshotMeta describes a stored snapshot without its payload.
type SnapshotMeta struct {
	SessionID  string    `json:"session_id"`
	ChannelID  string    `json:"channel_id"`
	Status     string    `json:"status"`
	UserIDs    []string  `json:"user_ids"`
	SceneCount int       `json:"scene_count"`
	SavedAt    time.Time `json:"saved_at"`
}

// SaveSnapshot upserts the latest export of a session.
func (s *Store) SaveSnapshot(ctx context.Context, snap session.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	info := snap.Session
	users := info.UserIDs
	if users == nil {
		users = []string{}
	}
	_, err = s.Pool.Exec(ctx, `
INSERT INTO session_snapshots (session_id, channel_id, status, user_ids, scene_count, payload, saved_at)
VALUES ($1, $2, $3, $4, $5, $6, now())
ON CONFLICT (session_id) DO UPDATE SET
  status = EXCLUDED.status,
  user_ids = EXCLUDED.user_ids,
  scene_count = EXCLUDED.scene_count,
  payload = EXCLUDED.payload,
  saved_at = now()`,
		info.ID, info.ChannelID, string(info.Status), users, info.SceneCount, payload)
	return err
}

func (s *Store) LoadSnapshot(ctx context.Context, sessionID string) (session.Snapshot, error) {
	var payload []byte
	err := s.Pool.QueryRow(ctx, `SELECT payload FROM session_snapshots WHERE session_id = $1`, sessionID).Scan(&payload)
	if err != nil {
		return session.Snapshot{}, mapNotFound(err)
	}
	var snap session.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return session.Snapshot{}, fmt.Errorf("decode snapshot %s: %w", sessionID, err)
	}
	return snap, nil
}

// ListSnapshots returns the newest snapshots first. An empty channel lists
// every channel.
func (s *Store) ListSnapshots(ctx context.Context, channelID string, limit int) ([]SnapshotMeta, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.Pool.Query(ctx, `
SELECT session_id, channel_id, status, user_ids, scene_count, saved_at
FROM session_snapshots
WHERE $1 = '' OR channel_id = $1
ORDER BY saved_at DESC, session_id
LIMIT $2`, channelID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SnapshotMeta
	for rows.Next() {
		var m SnapshotMeta
		if err := rows.Scan(&m.SessionID, &m.ChannelID, &m.Status, &m.UserIDs, &m.SceneCount, &m.SavedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) DeleteSnapshot(ctx context.Context, sessionID string) error {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM session_snapshots WHERE session_id = $1`, sessionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
