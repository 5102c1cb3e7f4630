// Package session keeps the in-memory registry of game sessions, their
// game state and the characters playing in them.
package session

import (
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"nexus-gm/internal/character"
)

const DefaultEventRetention = 500

type Options struct {
	// EventRetention caps the per-session event log; oldest events drop first.
	EventRetention int
	Now            func() time.Time
}

type entry struct {
	info       SessionInfo
	state      GameState
	characters map[string]*character.Character
	turnMu     sync.Mutex
}

// Store is safe for concurrent use. The registry lock guards maps and
// state; turn serialisation uses a separate lock per session.
type Store struct {
	mu        sync.RWMutex
	sessions  map[string]*entry
	order     []string
	retention int
	now       func() time.Time
}

func NewStore(opts Options) *Store {
	if opts.EventRetention <= 0 {
		opts.EventRetention = DefaultEventRetention
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Store{
		sessions:  map[string]*entry{},
		retention: opts.EventRetention,
		now:       opts.Now,
	}
}

func (s *Store) Create(id, channel, creator string, mode Mode) (SessionInfo, error) {
	if !mode.Valid() {
		return SessionInfo{}, ErrInvalidMode
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; ok {
		return SessionInfo{}, ErrSessionExists
	}
	if _, ok := s.findLocked(creator, channel); ok {
		return SessionInfo{}, ErrUserInSession
	}
	now := s.now()
	e := &entry{
		info: SessionInfo{
			ID:           id,
			ChannelID:    channel,
			Mode:         mode,
			Status:       StatusActive,
			CreatedAt:    now,
			LastActivity: now,
			UserIDs:      []string{creator},
		},
		state: GameState{
			SessionID:        id,
			CurrentScene:     OpeningScene,
			AvailableChoices: []string{},
			NPCs:             map[string]NPC{},
		},
		characters: map[string]*character.Character{},
	}
	s.sessions[id] = e
	s.order = append(s.order, id)
	log.Info().Str("session_id", id).Str("channel_id", channel).Str("user_id", creator).Str("mode", string(mode)).Msg("session created")
	return e.info.clone(), nil
}

// FindForUser returns the first active session, in creation order, that
// contains user. An empty channel matches any channel.
func (s *Store) FindForUser(user, channel string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findLocked(user, channel)
}

func (s *Store) findLocked(user, channel string) (string, bool) {
	for _, id := range s.order {
		e := s.sessions[id]
		if e.info.Status != StatusActive {
			continue
		}
		if channel != "" && e.info.ChannelID != channel {
			continue
		}
		if e.info.HasUser(user) {
			return id, true
		}
	}
	return "", false
}

func (s *Store) Session(id string) (SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[id]
	if !ok {
		return SessionInfo{}, ErrSessionNotFound
	}
	return e.info.clone(), nil
}

func (s *Store) GameState(id string) (GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[id]
	if !ok {
		return GameState{}, ErrSessionNotFound
	}
	return e.state.clone(), nil
}

func (s *Store) ActiveSessions() []SessionInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]SessionInfo, 0, len(s.order))
	for _, id := range s.order {
		if e := s.sessions[id]; e.info.Status == StatusActive {
			out = append(out, e.info.clone())
		}
	}
	return out
}

// AddPlayer joins user to a party session. It reports false when the user
// is already a member.
func (s *Store) AddPlayer(id, user string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return false, ErrSessionNotFound
	}
	if e.info.Mode != ModeParty {
		log.Warn().Str("session_id", id).Str("user_id", user).Msg("join refused for non-party session")
		return false, ErrNotPartySession
	}
	if e.info.Status == StatusCompleted {
		return false, ErrInvalidTransition
	}
	if e.info.HasUser(user) {
		return false, nil
	}
	if other, ok := s.findLocked(user, e.info.ChannelID); ok && other != id {
		return false, ErrUserInSession
	}
	e.info.UserIDs = append(e.info.UserIDs, user)
	e.info.LastActivity = s.now()
	log.Info().Str("session_id", id).Str("user_id", user).Msg("player joined session")
	return true, nil
}

func (s *Store) SetCharacter(id, user string, c *character.Character) error {
	if c == nil {
		return ErrNoCharacter
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	e.characters[user] = c.Clone()
	log.Info().Str("session_id", id).Str("user_id", user).Str("character", c.Name).Msg("character set")
	return nil
}

// Character returns a copy of the user's character.
func (s *Store) Character(id, user string) (*character.Character, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	c, ok := e.characters[user]
	if !ok {
		return nil, ErrNoCharacter
	}
	return c.Clone(), nil
}

// UpdateCharacter runs fn against the stored character under the registry
// lock. fn must not call back into the Store.
func (s *Store) UpdateCharacter(id, user string, fn func(*character.Character) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	c, ok := e.characters[user]
	if !ok {
		return ErrNoCharacter
	}
	return fn(c)
}

// UpdateGameState commits a turn. The summary is kept when summary is empty.
// Unknown ids are logged and ignored so a turn loop never fails here.
func (s *Store) UpdateGameState(id, scene, description string, choices []string, summary string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		log.Error().Str("session_id", id).Msg("no game state for session")
		return
	}
	e.state.CurrentScene = scene
	e.state.SceneDescription = description
	e.state.AvailableChoices = append([]string{}, choices...)
	if summary != "" {
		e.state.ContextSummary = summary
	}
	e.info.LastActivity = s.now()
	e.info.TurnCount++
	e.info.SceneCount++
}

func (s *Store) AddEvent(id, typ, description string, metadata map[string]any) (Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return Event{}, ErrSessionNotFound
	}
	if metadata == nil {
		metadata = map[string]any{}
	}
	ev := Event{
		Type:        typ,
		Description: description,
		Timestamp:   s.now(),
		Metadata:    metadata,
	}
	e.state.Events = append(e.state.Events, ev)
	if len(e.state.Events) > s.retention {
		e.state.Events = slices.Clone(e.state.Events[len(e.state.Events)-s.retention:])
	}
	return ev, nil
}

// Events returns the last n events, or all of them when n <= 0.
func (s *Store) Events(id string, n int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	evs := e.state.Events
	if n > 0 && len(evs) > n {
		evs = evs[len(evs)-n:]
	}
	return cloneEvents(evs), nil
}

func (s *Store) AddNPC(id string, npc NPC) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	e.state.NPCs[npc.Name] = npc
	return nil
}

func (s *Store) NPC(id, name string) (NPC, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[id]
	if !ok {
		return NPC{}, false
	}
	n, ok := e.state.NPCs[name]
	return n, ok
}

func (s *Store) AddLocation(id, location string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	if !slices.Contains(e.state.Locations, location) {
		e.state.Locations = append(e.state.Locations, location)
	}
	return nil
}

func (s *Store) Pause(id string) error {
	return s.transition(id, func(e *entry) error {
		if e.info.Status == StatusCompleted {
			return ErrInvalidTransition
		}
		e.info.Status = StatusPaused
		e.info.LastActivity = s.now()
		return nil
	}, "session paused")
}

// Resume succeeds only from paused.
func (s *Store) Resume(id string) error {
	return s.transition(id, func(e *entry) error {
		if e.info.Status != StatusPaused {
			return ErrInvalidTransition
		}
		e.info.Status = StatusActive
		e.info.LastActivity = s.now()
		return nil
	}, "session resumed")
}

// End completes a session. Ending a completed session is a no-op.
func (s *Store) End(id string) error {
	return s.transition(id, func(e *entry) error {
		if e.info.Status == StatusCompleted {
			return nil
		}
		e.info.Status = StatusCompleted
		e.info.LastActivity = s.now()
		return nil
	}, "session ended")
}

func (s *Store) transition(id string, apply func(*entry) error, msg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	if err := apply(e); err != nil {
		return err
	}
	log.Info().Str("session_id", id).Str("status", string(e.info.Status)).Msg(msg)
	return nil
}

func (e *entry) expired(now time.Time, maxAge time.Duration) bool {
	return e.info.Status != StatusActive && now.Sub(e.info.LastActivity) > maxAge
}

// Expired lists the sessions the next Cleanup with the same maxAge would
// drop, so callers can snapshot them first.
func (s *Store) Expired(maxAge time.Duration) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := s.now()
	var out []string
	for _, id := range s.order {
		if s.sessions[id].expired(now, maxAge) {
			out = append(out, id)
		}
	}
	return out
}

// Cleanup drops non-active sessions idle longer than maxAge and returns
// their ids. Active sessions are never reaped.
func (s *Store) Cleanup(maxAge time.Duration) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	var removed []string
	kept := s.order[:0]
	for _, id := range s.order {
		e := s.sessions[id]
		if e.expired(now, maxAge) {
			delete(s.sessions, id)
			removed = append(removed, id)
			log.Info().Str("session_id", id).Msg("cleaned up old session")
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
	return removed
}

// BeginTurn serialises turns on one session. The returned func releases
// the turn and must be called exactly once.
func (s *Store) BeginTurn(id string) (func(), error) {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	e.turnMu.Lock()
	var once sync.Once
	return func() { once.Do(e.turnMu.Unlock) }, nil
}
