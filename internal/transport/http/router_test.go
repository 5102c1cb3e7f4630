package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"nexus-gm/internal/config"
	"nexus-gm/internal/gm"
	"nexus-gm/internal/narrator"
	"nexus-gm/internal/rules"
	"nexus-gm/internal/session"
	"nexus-gm/internal/store"
)

const (
	openingScene = "SCENE: Rain hisses on the broken tram lines.\nCHOICES:\n1. Shelter in the depot\n2. Follow the lights"
	depotScene   = "SCENE: The depot is quiet and dry.\nCHOICES:\n1. Rest\n2. Search the lockers"
)

type fakeSnapshots struct {
	items map[string]session.Snapshot
}

func (f *fakeSnapshots) ListSnapshots(_ context.Context, _ string, _ int) ([]store.SnapshotMeta, error) {
	out := make([]store.SnapshotMeta, 0, len(f.items))
	for id, snap := range f.items {
		out = append(out, store.SnapshotMeta{SessionID: id, ChannelID: snap.Session.ChannelID})
	}
	return out, nil
}

func (f *fakeSnapshots) LoadSnapshot(_ context.Context, id string) (session.Snapshot, error) {
	snap, ok := f.items[id]
	if !ok {
		return session.Snapshot{}, store.ErrNotFound
	}
	return snap, nil
}

type fakeMemory struct {
	forgotten []string
}

func (f *fakeMemory) Forget(_ context.Context, userID string) (int64, error) {
	f.forgotten = append(f.forgotten, userID)
	return 3, nil
}

type downPinger struct{}

func (downPinger) Ping(context.Context) error { return errors.New("connection refused") }

func newTestRouter(t *testing.T, d Deps, scenes ...string) http.Handler {
	t.Helper()
	n := narrator.Func(func(_ context.Context, _ narrator.Request) (string, error) {
		if len(scenes) == 0 {
			return "", errors.New("narrator offline")
		}
		out := scenes[0]
		scenes = scenes[1:]
		return out, nil
	})
	if d.Engine == nil {
		d.Engine = gm.New(gm.Deps{
			Store:    session.NewStore(session.Options{}),
			Rules:    rules.NewEngine(rules.NewSequenceRoller(12)),
			Narrator: n,
		})
	}
	return NewRouter(d)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any, headers ...string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	out := map[string]any{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestHTTPGameFlow(t *testing.T) {
	h := newTestRouter(t, Deps{}, openingScene, depotScene)

	w, body := doJSON(t, h, http.MethodPost, "/api/sessions", map[string]any{"channel_id": "tram", "user_id": "skye"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d body=%s", w.Code, w.Body.String())
	}
	id, _ := body["session_id"].(string)
	if id == "" {
		t.Fatalf("missing session_id: %v", body)
	}
	base := "/api/sessions/" + id

	w, body = doJSON(t, h, http.MethodPost, base+"/characters", map[string]any{
		"user_id": "skye", "name": "Kira", "descriptor": "scarred", "type": "warrior", "focus": "bears a heavy weapon",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("character status = %d body=%s", w.Code, w.Body.String())
	}
	if sheet, _ := body["sheet"].(string); sheet == "" {
		t.Fatalf("missing sheet: %v", body)
	}

	w, body = doJSON(t, h, http.MethodPost, base+"/begin", map[string]any{"user_id": "skye", "theme": "drowned city"})
	if w.Code != http.StatusOK {
		t.Fatalf("begin status = %d body=%s", w.Code, w.Body.String())
	}
	if choices, _ := body["choices"].([]any); len(choices) != 2 {
		t.Fatalf("choices = %v", body["choices"])
	}

	w, body = doJSON(t, h, http.MethodPost, base+"/actions", map[string]any{"user_id": "skye", "action": "1"})
	if w.Code != http.StatusOK {
		t.Fatalf("action status = %d body=%s", w.Code, w.Body.String())
	}
	if body["scene_id"] != "scene_2" || body["scene"] != "The depot is quiet and dry." {
		t.Fatalf("unexpected turn: %v", body)
	}

	w, body = doJSON(t, h, http.MethodPost, base+"/actions", map[string]any{"user_id": "skye", "action": "7"})
	if w.Code != http.StatusBadRequest || body["error"] != "invalid_choice" {
		t.Fatalf("invalid choice = %d %v", w.Code, body)
	}
	if body["max"] != float64(2) {
		t.Fatalf("max = %v", body["max"])
	}

	w, body = doJSON(t, h, http.MethodPost, base+"/rolls", map[string]any{"user_id": "skye", "pool": "might", "difficulty": 2})
	if w.Code != http.StatusOK {
		t.Fatalf("roll status = %d body=%s", w.Code, w.Body.String())
	}
	if body["success"] != true || body["target"] != float64(6) {
		t.Fatalf("unexpected roll: %v", body)
	}

	w, body = doJSON(t, h, http.MethodPost, base+"/items", map[string]any{"user_id": "skye", "item": "lantern"})
	if inv, _ := body["inventory"].([]any); w.Code != http.StatusCreated || len(inv) == 0 || inv[len(inv)-1] != "lantern" {
		t.Fatalf("grant item = %d %v", w.Code, body)
	}

	w, _ = doJSON(t, h, http.MethodPost, base+"/cyphers", map[string]any{"user_id": "skye", "name": "Stim", "level": 2})
	if w.Code != http.StatusCreated {
		t.Fatalf("grant cypher = %d body=%s", w.Code, w.Body.String())
	}
	w, body = doJSON(t, h, http.MethodPost, base+"/cyphers/use", map[string]any{"user_id": "skye", "name": "stim"})
	if w.Code != http.StatusOK || body["used"] != true {
		t.Fatalf("use cypher = %d %v", w.Code, body)
	}
	w, body = doJSON(t, h, http.MethodPost, base+"/cyphers/use", map[string]any{"user_id": "skye", "name": "stim"})
	if w.Code != http.StatusConflict || body["error"] != "cypher_unavailable" {
		t.Fatalf("reuse cypher = %d %v", w.Code, body)
	}

	w, _ = doJSON(t, h, http.MethodGet, base+"/status?user_id=skye", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	w, body = doJSON(t, h, http.MethodPost, base+"/pause", nil)
	if w.Code != http.StatusOK || body["status"] != "paused" {
		t.Fatalf("pause = %d %v", w.Code, body)
	}
	w, body = doJSON(t, h, http.MethodPost, base+"/actions", map[string]any{"user_id": "skye", "action": "rest"})
	if w.Code != http.StatusConflict || body["error"] != "session_not_active" {
		t.Fatalf("paused action = %d %v", w.Code, body)
	}
	w, _ = doJSON(t, h, http.MethodPost, base+"/resume", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("resume = %d", w.Code)
	}
	w, body = doJSON(t, h, http.MethodDelete, base, nil)
	if w.Code != http.StatusOK || body["status"] != "completed" {
		t.Fatalf("end = %d %v", w.Code, body)
	}
}

func TestHTTPErrorCodes(t *testing.T) {
	h := newTestRouter(t, Deps{})

	w, body := doJSON(t, h, http.MethodPost, "/api/sessions", map[string]any{"channel_id": "tram", "user_id": "skye"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create = %d", w.Code)
	}
	id := body["session_id"].(string)

	w, body = doJSON(t, h, http.MethodPost, "/api/sessions", map[string]any{"channel_id": "tram", "user_id": "skye"})
	if w.Code != http.StatusConflict || body["error"] != "user_already_in_session" {
		t.Fatalf("duplicate = %d %v", w.Code, body)
	}
	if existing, _ := body["session"].(map[string]any); existing["session_id"] != id {
		t.Fatalf("existing session = %v", body["session"])
	}

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"unknown session", http.MethodGet, "/api/sessions/nope/status", nil, http.StatusNotFound, "session_not_found"},
		{"foreign user", http.MethodPost, "/api/sessions/" + id + "/actions", map[string]any{"user_id": "mallory", "action": "look"}, http.StatusForbidden, "user_not_in_session"},
		{"empty action", http.MethodPost, "/api/sessions/" + id + "/actions", map[string]any{"user_id": "skye", "action": "  "}, http.StatusBadRequest, "empty_action"},
		{"solo join", http.MethodPost, "/api/sessions/" + id + "/players", map[string]any{"user_id": "mallory"}, http.StatusBadRequest, "not_party_session"},
		{"no character", http.MethodGet, "/api/sessions/" + id + "/characters/skye", nil, http.StatusNotFound, "character_not_found"},
		{"lookup missing user", http.MethodGet, "/api/sessions/lookup", nil, http.StatusBadRequest, "missing_field"},
		{"resume active", http.MethodPost, "/api/sessions/" + id + "/resume", nil, http.StatusConflict, "invalid_status_transition"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := doJSON(t, h, tt.method, tt.path, tt.body)
			if w.Code != tt.status || body["error"] != tt.code {
				t.Fatalf("got %d %v, want %d %s", w.Code, body, tt.status, tt.code)
			}
		})
	}

	req := httptest.NewRequest(http.MethodPost, "/api/sessions", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad json = %d", rec.Code)
	}
}

func TestHTTPAdminRoutesRequireKey(t *testing.T) {
	snaps := &fakeSnapshots{items: map[string]session.Snapshot{}}
	h := newTestRouter(t, Deps{Config: config.ServerConfig{AdminAPIKey: "s3cret"}, Snapshots: snaps})

	w, body := doJSON(t, h, http.MethodPost, "/api/sessions", map[string]any{"channel_id": "tram", "user_id": "skye"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create = %d", w.Code)
	}
	id := body["session_id"].(string)

	w, _ = doJSON(t, h, http.MethodGet, "/api/sessions/"+id+"/export", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("export without key = %d", w.Code)
	}
	w, _ = doJSON(t, h, http.MethodGet, "/api/debug/vars", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("debug vars without key = %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/"+id+"/export", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("export with bearer = %d", rec.Code)
	}
	var snap session.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.Session.ID != id {
		t.Fatalf("snapshot id = %q", snap.Session.ID)
	}

	snap.Session.ID = "tram_skye_restored"
	snap.GameState.SessionID = snap.Session.ID
	snap.Session.UserIDs = []string{"other"}
	snaps.items[snap.Session.ID] = snap

	w, body = doJSON(t, h, http.MethodGet, "/api/snapshots", nil, "X-Admin-Key", "s3cret")
	if items, _ := body["items"].([]any); w.Code != http.StatusOK || len(items) != 1 {
		t.Fatalf("list snapshots = %d %v", w.Code, body)
	}
	w, body = doJSON(t, h, http.MethodPost, "/api/snapshots/missing/restore", nil, "X-Admin-Key", "s3cret")
	if w.Code != http.StatusNotFound || body["error"] != "snapshot_not_found" {
		t.Fatalf("restore missing = %d %v", w.Code, body)
	}
	w, body = doJSON(t, h, http.MethodPost, "/api/snapshots/tram_skye_restored/restore", nil, "X-Admin-Key", "s3cret")
	if w.Code != http.StatusCreated || body["session_id"] != "tram_skye_restored" {
		t.Fatalf("restore = %d %v", w.Code, body)
	}
	w, _ = doJSON(t, h, http.MethodGet, "/api/sessions/tram_skye_restored/status?user_id=other", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("restored status = %d", w.Code)
	}
}

func TestHealthz(t *testing.T) {
	h := newTestRouter(t, Deps{})
	w, body := doJSON(t, h, http.MethodGet, "/healthz", nil)
	if w.Code != http.StatusOK || body["db"] != "disabled" {
		t.Fatalf("healthz = %d %v", w.Code, body)
	}

	h = newTestRouter(t, Deps{Pinger: downPinger{}})
	w, body = doJSON(t, h, http.MethodGet, "/healthz", nil)
	if w.Code != http.StatusServiceUnavailable || body["db"] != "down" {
		t.Fatalf("healthz down = %d %v", w.Code, body)
	}
}

func TestSnapshotsDisabled(t *testing.T) {
	h := newTestRouter(t, Deps{})
	w, body := doJSON(t, h, http.MethodGet, "/api/snapshots", nil)
	if w.Code != http.StatusNotImplemented || body["error"] != "snapshots_disabled" {
		t.Fatalf("snapshots = %d %v", w.Code, body)
	}
}

func TestForgetMemory(t *testing.T) {
	mem := &fakeMemory{}
	h := newTestRouter(t, Deps{Config: config.ServerConfig{AdminAPIKey: "s3cret"}, Memory: mem})

	w, _ := doJSON(t, h, http.MethodDelete, "/api/memory/skye", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("forget without key = %d", w.Code)
	}
	w, body := doJSON(t, h, http.MethodDelete, "/api/memory/skye", nil, "X-Admin-Key", "s3cret")
	if w.Code != http.StatusOK || body["removed"] != float64(3) {
		t.Fatalf("forget = %d %v", w.Code, body)
	}
	if len(mem.forgotten) != 1 || mem.forgotten[0] != "skye" {
		t.Fatalf("forgotten = %v", mem.forgotten)
	}

	h = newTestRouter(t, Deps{})
	w, body = doJSON(t, h, http.MethodDelete, "/api/memory/skye", nil)
	if w.Code != http.StatusNotImplemented || body["error"] != "memory_disabled" {
		t.Fatalf("forget disabled = %d %v", w.Code, body)
	}
}
