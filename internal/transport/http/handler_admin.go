package httptransport

import (
	"context"
	"net/http"
	"strconv"

	"nexus-gm/internal/gm"
	"nexus-gm/internal/session"
	"nexus-gm/internal/store"

	"github.com/go-chi/chi/v5"
)

// Pinger reports database health; nil means snapshots are disabled.
type Pinger interface {
	Ping(ctx context.Context) error
}

type SnapshotStore interface {
	ListSnapshots(ctx context.Context, channelID string, limit int) ([]store.SnapshotMeta, error)
	LoadSnapshot(ctx context.Context, sessionID string) (session.Snapshot, error)
}

// MemoryStore drops a user's recalled narrator context.
type MemoryStore interface {
	Forget(ctx context.Context, userID string) (int64, error)
}

type AdminHandlers struct {
	engine    *gm.Engine
	snapshots SnapshotStore
	pinger    Pinger
	memory    MemoryStore
}

func NewAdminHandlers(engine *gm.Engine, snapshots SnapshotStore, pinger Pinger, memory MemoryStore) *AdminHandlers {
	return &AdminHandlers{engine: engine, snapshots: snapshots, pinger: pinger, memory: memory}
}

func (h *AdminHandlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		active := len(h.engine.Store().ActiveSessions())
		if h.pinger == nil {
			writeJSON(w, http.StatusOK, map[string]any{"ok": true, "db": "disabled", "active_sessions": active})
			return
		}
		if err := h.pinger.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false, "db": "down", "active_sessions": active})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "db": "up", "active_sessions": active})
	}
}

func (h *AdminHandlers) Export() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := h.engine.Export(chi.URLParam(r, "session_id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

func (h *AdminHandlers) Import() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var snap session.Snapshot
		if !decodeJSON(w, r, &snap) {
			return
		}
		id, err := h.engine.Import(snap)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "session_id": id})
	}
}

func (h *AdminHandlers) Snapshots() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.snapshots == nil {
			WriteHTTPError(w, http.StatusNotImplemented, "snapshots_disabled")
			return
		}
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		items, err := h.snapshots.ListSnapshots(r.Context(), r.URL.Query().Get("channel_id"), limit)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
	}
}

func (h *AdminHandlers) Snapshot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.snapshots == nil {
			WriteHTTPError(w, http.StatusNotImplemented, "snapshots_disabled")
			return
		}
		snap, err := h.snapshots.LoadSnapshot(r.Context(), chi.URLParam(r, "session_id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

// Restore loads a stored snapshot back into the live session store.
func (h *AdminHandlers) Restore() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.snapshots == nil {
			WriteHTTPError(w, http.StatusNotImplemented, "snapshots_disabled")
			return
		}
		snap, err := h.snapshots.LoadSnapshot(r.Context(), chi.URLParam(r, "session_id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		id, err := h.engine.Import(snap)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		metricSnapshotRestores.Add(1)
		writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "session_id": id})
	}
}

func (h *AdminHandlers) ForgetMemory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.memory == nil {
			WriteHTTPError(w, http.StatusNotImplemented, "memory_disabled")
			return
		}
		userID := chi.URLParam(r, "user_id")
		removed, err := h.memory.Forget(r.Context(), userID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "user_id": userID, "removed": removed})
	}
}
