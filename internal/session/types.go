package session

import (
	"maps"
	"time"
)

type Mode string

const (
	ModeSolo  Mode = "solo"
	ModeParty Mode = "party"
)

func (m Mode) Valid() bool {
	return m == ModeSolo || m == ModeParty
}

type Status string

const (
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusPaused || s == StatusCompleted
}

const OpeningScene = "opening"

type SessionInfo struct {
	ID           string    `json:"session_id"`
	ChannelID    string    `json:"channel_id"`
	Mode         Mode      `json:"mode"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
	UserIDs      []string  `json:"user_ids"`
	TurnCount    int       `json:"turn_count"`
	SceneCount   int       `json:"scene_count"`
}

func (s SessionInfo) clone() SessionInfo {
	s.UserIDs = append([]string(nil), s.UserIDs...)
	return s
}

func (s SessionInfo) HasUser(user string) bool {
	for _, u := range s.UserIDs {
		if u == user {
			return true
		}
	}
	return false
}

type NPC struct {
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

type Event struct {
	Type        string         `json:"type"`
	Description string         `json:"description"`
	Timestamp   time.Time      `json:"timestamp"`
	Metadata    map[string]any `json:"metadata"`
}

type GameState struct {
	SessionID        string         `json:"session_id"`
	CurrentScene     string         `json:"current_scene"`
	SceneDescription string         `json:"scene_description"`
	AvailableChoices []string       `json:"available_choices"`
	NPCs             map[string]NPC `json:"npcs"`
	Locations        []string       `json:"locations"`
	Events           []Event        `json:"events"`
	ContextSummary   string         `json:"context_summary"`
}

func (g GameState) clone() GameState {
	g.AvailableChoices = append([]string(nil), g.AvailableChoices...)
	g.Locations = append([]string(nil), g.Locations...)
	npcs := make(map[string]NPC, len(g.NPCs))
	for k, n := range g.NPCs {
		n.Attributes = maps.Clone(n.Attributes)
		npcs[k] = n
	}
	g.NPCs = npcs
	g.Events = cloneEvents(g.Events)
	return g
}

func cloneEvents(in []Event) []Event {
	if in == nil {
		return nil
	}
	out := make([]Event, len(in))
	for i, ev := range in {
		ev.Metadata = maps.Clone(ev.Metadata)
		out[i] = ev
	}
	return out
}
