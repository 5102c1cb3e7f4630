package httptransport

import (
	"net/http"

	"nexus-gm/internal/character"
	"nexus-gm/internal/gm"
	"nexus-gm/internal/session"

	"github.com/go-chi/chi/v5"
)

type createCharacterRequest struct {
	UserID string `json:"user_id"`
	character.BuildInput
}

type characterResponse struct {
	Character character.Summary `json:"character"`
	Sheet     string            `json:"sheet"`
}

type beginRequest struct {
	UserID string `json:"user_id"`
	Theme  string `json:"theme"`
}

type actionRequest struct {
	UserID string `json:"user_id"`
	Action string `json:"action"`
}

type rollRequest struct {
	UserID string `json:"user_id"`
	gm.RollInput
}

type poolRequest struct {
	UserID string `json:"user_id"`
	Pool   string `json:"pool"`
	Amount int    `json:"amount"`
}

type intrusionRequest struct {
	UserID      string `json:"user_id"`
	Description string `json:"description"`
	XP          int    `json:"xp"`
}

type cypherRequest struct {
	UserID string `json:"user_id"`
	character.Cypher
}

type itemRequest struct {
	UserID string `json:"user_id"`
	Item   string `json:"item"`
}

type locationRequest struct {
	Location string `json:"location"`
}

func (h *GameHandlers) CreateCharacter() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createCharacterRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		c, err := h.engine.CreateCharacter(r.Context(), chi.URLParam(r, "session_id"), req.UserID, req.BuildInput)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, characterResponse{Character: c.Summary(), Sheet: c.Describe()})
	}
}

func (h *GameHandlers) Character() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := h.engine.Character(chi.URLParam(r, "session_id"), chi.URLParam(r, "user_id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, characterResponse{Character: c.Summary(), Sheet: c.Describe()})
	}
}

func (h *GameHandlers) Begin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req beginRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		res, err := h.engine.BeginTurn(r.Context(), chi.URLParam(r, "session_id"), req.UserID, req.Theme)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func (h *GameHandlers) Action() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metricActionSubmit.Add(1)
		var req actionRequest
		if !decodeJSON(w, r, &req) {
			metricActionErrors.Add(1)
			return
		}
		res, err := h.engine.ApplyAction(r.Context(), chi.URLParam(r, "session_id"), req.UserID, req.Action)
		if err != nil {
			metricActionErrors.Add(1)
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func (h *GameHandlers) Roll() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req rollRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		out, err := h.engine.ResolveRoll(r.Context(), chi.URLParam(r, "session_id"), req.UserID, req.RollInput)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func (h *GameHandlers) Recover() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req poolRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		out, err := h.engine.Recover(r.Context(), chi.URLParam(r, "session_id"), req.UserID, req.Pool)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func (h *GameHandlers) Damage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req poolRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		out, err := h.engine.Damage(r.Context(), chi.URLParam(r, "session_id"), req.UserID, req.Pool, req.Amount)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func (h *GameHandlers) Intrusion() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req intrusionRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		out, err := h.engine.GMIntrusion(r.Context(), chi.URLParam(r, "session_id"), req.Description, req.XP)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, out)
	}
}

func (h *GameHandlers) AcceptIntrusion() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req intrusionRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		total, err := h.engine.AcceptIntrusion(r.Context(), chi.URLParam(r, "session_id"), req.UserID, req.XP)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "xp": total})
	}
}

func (h *GameHandlers) AddNPC() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var npc session.NPC
		if !decodeJSON(w, r, &npc) {
			return
		}
		if err := h.engine.RegisterNPC(r.Context(), chi.URLParam(r, "session_id"), npc); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, npc)
	}
}

func (h *GameHandlers) AddLocation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req locationRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := h.engine.AddLocation(r.Context(), chi.URLParam(r, "session_id"), req.Location); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "location": req.Location})
	}
}

func (h *GameHandlers) GrantCypher() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req cypherRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		held, err := h.engine.GrantCypher(r.Context(), chi.URLParam(r, "session_id"), req.UserID, req.Cypher)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "cyphers": held})
	}
}

func (h *GameHandlers) UseCypher() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req cypherRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		used, err := h.engine.UseCypher(r.Context(), chi.URLParam(r, "session_id"), req.UserID, req.Name)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, used)
	}
}

func (h *GameHandlers) GrantItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req itemRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		inventory, err := h.engine.GrantItem(r.Context(), chi.URLParam(r, "session_id"), req.UserID, req.Item)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "inventory": inventory})
	}
}
