package httptransport

import (
	"context"
	"errors"
	"net/http"

	"nexus-gm/internal/gm"
	"nexus-gm/internal/session"

	"github.com/go-chi/chi/v5"
)

type GameHandlers struct {
	engine *gm.Engine
}

func NewGameHandlers(engine *gm.Engine) *GameHandlers {
	return &GameHandlers{engine: engine}
}

type createSessionRequest struct {
	ChannelID string       `json:"channel_id"`
	UserID    string       `json:"user_id"`
	Mode      session.Mode `json:"mode"`
}

type userRequest struct {
	UserID string `json:"user_id"`
}

func (h *GameHandlers) CreateSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metricSessionCreate.Add(1)
		var req createSessionRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		info, err := h.engine.CreateSession(r.Context(), req.ChannelID, req.UserID, req.Mode)
		if err != nil {
			if errors.Is(err, session.ErrUserInSession) {
				if existing, lookupErr := h.engine.SessionForUser(req.UserID, req.ChannelID); lookupErr == nil {
					metricRequestErrors.Add(1)
					writeJSON(w, http.StatusConflict, map[string]any{
						"error":   "user_already_in_session",
						"session": existing,
					})
					return
				}
			}
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, info)
	}
}

func (h *GameHandlers) Lookup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("user_id")
		if userID == "" {
			WriteHTTPError(w, http.StatusBadRequest, "missing_field")
			return
		}
		info, err := h.engine.SessionForUser(userID, r.URL.Query().Get("channel_id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, info)
	}
}

func (h *GameHandlers) Join() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req userRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		info, joined, err := h.engine.JoinSession(r.Context(), chi.URLParam(r, "session_id"), req.UserID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"session": info, "joined": joined})
	}
}

func (h *GameHandlers) Status() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := h.engine.GameStatus(chi.URLParam(r, "session_id"), r.URL.Query().Get("user_id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

func (h *GameHandlers) Pause() http.HandlerFunc {
	return h.transition(h.engine.Pause, session.StatusPaused)
}

func (h *GameHandlers) Resume() http.HandlerFunc {
	return h.transition(h.engine.Resume, session.StatusActive)
}

func (h *GameHandlers) End() http.HandlerFunc {
	return h.transition(h.engine.EndSession, session.StatusCompleted)
}

func (h *GameHandlers) transition(apply func(ctx context.Context, id string) error, status session.Status) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "session_id")
		if err := apply(r.Context(), id); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "session_id": id, "status": status})
	}
}
