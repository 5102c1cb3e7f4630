// Package gm runs the game-master loop: sessions, characters, narrated
// turns and dice rolls.
package gm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"nexus-gm/internal/character"
	"nexus-gm/internal/illustration"
	"nexus-gm/internal/narrator"
	"nexus-gm/internal/rules"
	"nexus-gm/internal/session"
)

// Illustrator queues key-moment illustrations. *illustration.Manager
// satisfies it.
type Illustrator interface {
	Enqueue(req illustration.Request) bool
}

// Snapshotter persists session exports.
type Snapshotter interface {
	SaveSnapshot(ctx context.Context, snap session.Snapshot) error
}

type Deps struct {
	Store    *session.Store
	Rules    *rules.Engine
	Narrator narrator.Narrator
	Builder  character.Builder
	// Optional.
	Illustrations Illustrator
	Snapshots     Snapshotter

	NarratorTimeout time.Duration
}

type Engine struct {
	store         *session.Store
	rules         *rules.Engine
	narrator      narrator.Narrator
	builder       character.Builder
	illustrations Illustrator
	snapshots     Snapshotter
	timeout       time.Duration
}

func New(d Deps) *Engine {
	if d.Store == nil {
		d.Store = session.NewStore(session.Options{})
	}
	if d.Rules == nil {
		d.Rules = rules.NewEngine(nil)
	}
	if d.NarratorTimeout <= 0 {
		d.NarratorTimeout = defaultNarratorTimeout
	}
	return &Engine{
		store:         d.Store,
		rules:         d.Rules,
		narrator:      d.Narrator,
		builder:       d.Builder,
		illustrations: d.Illustrations,
		snapshots:     d.Snapshots,
		timeout:       d.NarratorTimeout,
	}
}

func (e *Engine) Store() *session.Store { return e.store }

func (e *Engine) CreateSession(ctx context.Context, channel, user string, mode session.Mode) (session.SessionInfo, error) {
	channel, user = strings.TrimSpace(channel), strings.TrimSpace(user)
	if channel == "" || user == "" {
		return session.SessionInfo{}, ErrMissingField
	}
	if mode == "" {
		mode = session.ModeSolo
	}
	info, err := e.store.Create(session.NewSessionID(channel, user), channel, user, mode)
	if err != nil {
		return session.SessionInfo{}, err
	}
	metricSessionCreateTotal.Add(1)
	return info, nil
}

// SessionForUser finds the user's active session; an empty channel
// matches any channel.
func (e *Engine) SessionForUser(user, channel string) (session.SessionInfo, error) {
	id, ok := e.store.FindForUser(user, channel)
	if !ok {
		return session.SessionInfo{}, session.ErrSessionNotFound
	}
	return e.store.Session(id)
}

// JoinSession adds user to a party session. joined is false when the user
// was already a member.
func (e *Engine) JoinSession(ctx context.Context, id, user string) (info session.SessionInfo, joined bool, err error) {
	if strings.TrimSpace(user) == "" {
		return session.SessionInfo{}, false, ErrMissingField
	}
	joined, err = e.store.AddPlayer(id, user)
	if err != nil {
		return session.SessionInfo{}, false, err
	}
	info, err = e.store.Session(id)
	return info, joined, err
}

func (e *Engine) CreateCharacter(ctx context.Context, id, user string, in character.BuildInput) (*character.Character, error) {
	if _, err := e.member(id, user); err != nil {
		return nil, err
	}
	c, err := e.builder.Build(in)
	if err != nil {
		return nil, err
	}
	if err := e.store.SetCharacter(id, user, c); err != nil {
		return nil, err
	}
	if _, err := e.store.AddEvent(id, "character", "Character created: "+c.Name+", "+c.String(), map[string]any{
		"user_id": user,
		"tier":    c.Stats.Tier,
	}); err != nil {
		return nil, err
	}
	return c.Clone(), nil
}

func (e *Engine) Character(id, user string) (*character.Character, error) {
	return e.store.Character(id, user)
}

func (e *Engine) RegisterNPC(ctx context.Context, id string, npc session.NPC) error {
	if strings.TrimSpace(npc.Name) == "" {
		return ErrMissingField
	}
	return e.store.AddNPC(id, npc)
}

func (e *Engine) AddLocation(ctx context.Context, id, location string) error {
	if strings.TrimSpace(location) == "" {
		return ErrMissingField
	}
	return e.store.AddLocation(id, location)
}

// GameStatus returns copies of the session, its state and, when user has
// one, the user's character.
func (e *Engine) GameStatus(id, user string) (Status, error) {
	info, err := e.store.Session(id)
	if err != nil {
		return Status{}, err
	}
	state, err := e.store.GameState(id)
	if err != nil {
		return Status{}, err
	}
	out := Status{Session: info, State: state}
	if user == "" {
		return out, nil
	}
	c, err := e.store.Character(id, user)
	switch {
	case err == nil:
		summary := c.Summary()
		out.Character = &summary
		out.Sheet = c.Describe()
	case !errors.Is(err, session.ErrNoCharacter):
		return Status{}, err
	}
	return out, nil
}

func (e *Engine) Pause(ctx context.Context, id string) error {
	return e.store.Pause(id)
}

func (e *Engine) Resume(ctx context.Context, id string) error {
	return e.store.Resume(id)
}

// EndSession completes the session and, when a Snapshotter is configured,
// saves its export. Snapshot failures are logged only.
func (e *Engine) EndSession(ctx context.Context, id string) error {
	if err := e.store.End(id); err != nil {
		return err
	}
	if e.snapshots == nil {
		return nil
	}
	e.saveSnapshot(ctx, id)
	return nil
}

func (e *Engine) Export(id string) (session.Snapshot, error) {
	return e.store.Export(id)
}

func (e *Engine) Import(snap session.Snapshot) (string, error) {
	return e.store.Import(snap)
}

func (e *Engine) Cleanup(maxAge time.Duration) []string {
	return e.store.Cleanup(maxAge)
}

// StartJanitor reaps idle sessions every interval until ctx ends. With a
// non-nil snap, each session is exported before it is dropped.
func (e *Engine) StartJanitor(ctx context.Context, interval, maxAge time.Duration, snap Snapshotter) {
	if interval <= 0 {
		interval = defaultJanitorInterval
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				e.reap(ctx, maxAge, snap)
			}
		}
	}()
}

func (e *Engine) reap(ctx context.Context, maxAge time.Duration, snap Snapshotter) []string {
	if snap != nil {
		for _, id := range e.store.Expired(maxAge) {
			s, err := e.store.Export(id)
			if err != nil {
				continue
			}
			if err := snap.SaveSnapshot(ctx, s); err != nil {
				log.Warn().Err(err).Str("session_id", id).Msg("janitor snapshot failed")
			}
		}
	}
	removed := e.store.Cleanup(maxAge)
	if len(removed) > 0 {
		metricJanitorReaped.Add(int64(len(removed)))
		log.Info().Int("removed", len(removed)).Msg("janitor reaped sessions")
	}
	return removed
}

func (e *Engine) saveSnapshot(ctx context.Context, id string) {
	s, err := e.store.Export(id)
	if err != nil {
		log.Warn().Err(err).Str("session_id", id).Msg("export for snapshot failed")
		return
	}
	if err := e.snapshots.SaveSnapshot(ctx, s); err != nil {
		log.Warn().Err(err).Str("session_id", id).Msg("snapshot save failed")
	}
}

func (e *Engine) member(id, user string) (session.SessionInfo, error) {
	info, err := e.store.Session(id)
	if err != nil {
		return session.SessionInfo{}, err
	}
	if !info.HasUser(user) {
		return session.SessionInfo{}, ErrNotInSession
	}
	return info, nil
}

func (e *Engine) activeMember(id, user string) (session.SessionInfo, error) {
	info, err := e.member(id, user)
	if err != nil {
		return info, err
	}
	if info.Status != session.StatusActive {
		return session.SessionInfo{}, ErrSessionNotActive
	}
	return info, nil
}

// narrate detaches from the caller's cancellation so an abandoned request
// still completes its turn, bounded by the engine timeout.
func (e *Engine) narrate(ctx context.Context, req narrator.Request) (string, error) {
	if e.narrator == nil {
		return "", narrator.ErrNoProviders
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
	defer cancel()
	start := time.Now()
	text, err := e.narrator.Generate(ctx, req)
	if err != nil {
		metricNarratorFailures.Add(1)
		return "", err
	}
	log.Debug().Str("user_id", req.UserID).Dur("elapsed", time.Since(start)).Bool("memory", req.UseMemory).Msg("narrator responded")
	return text, nil
}
