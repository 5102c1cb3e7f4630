package session

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"nexus-gm/internal/character"
)

// Snapshot is a plain dump of a session for cold-start recovery. It carries
// no compatibility guarantee across versions.
type Snapshot struct {
	Session    SessionInfo                  `json:"session"`
	GameState  GameState                    `json:"game_state"`
	Characters map[string]character.Summary `json:"characters"`
}

func (s *Store) Export(id string) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[id]
	if !ok {
		return Snapshot{}, ErrSessionNotFound
	}
	chars := make(map[string]character.Summary, len(e.characters))
	for user, c := range e.characters {
		chars[user] = c.Summary()
	}
	return Snapshot{
		Session:    e.info.clone(),
		GameState:  e.state.clone(),
		Characters: chars,
	}, nil
}

// Import registers a session from a snapshot. Existing ids are refused.
func (s *Store) Import(snap Snapshot) (string, error) {
	id := snap.Session.ID
	if id == "" || !snap.Session.Mode.Valid() || !snap.Session.Status.Valid() {
		return "", ErrInvalidSnapshot
	}
	if snap.GameState.SessionID != "" && snap.GameState.SessionID != id {
		return "", fmt.Errorf("%w: game state belongs to %q", ErrInvalidSnapshot, snap.GameState.SessionID)
	}

	state := snap.GameState.clone()
	state.SessionID = id
	if state.CurrentScene == "" {
		state.CurrentScene = OpeningScene
	}
	if state.AvailableChoices == nil {
		state.AvailableChoices = []string{}
	}
	if len(state.Events) > s.retention {
		state.Events = state.Events[len(state.Events)-s.retention:]
	}

	chars := make(map[string]*character.Character, len(snap.Characters))
	for user, sum := range snap.Characters {
		chars[user] = character.FromSummary(sum)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; ok {
		return "", ErrSessionExists
	}
	s.sessions[id] = &entry{
		info:       snap.Session.clone(),
		state:      state,
		characters: chars,
	}
	s.order = append(s.order, id)
	log.Info().Str("session_id", id).Int("characters", len(chars)).Msg("session imported")
	return id, nil
}
