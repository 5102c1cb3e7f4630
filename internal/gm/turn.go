package gm

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"nexus-gm/internal/character"
	"nexus-gm/internal/illustration"
	"nexus-gm/internal/narrative"
	"nexus-gm/internal/narrator"
	"nexus-gm/internal/session"
)

// BeginTurn generates and commits the opening scene. A narrator failure
// commits the built-in opening instead, so the session always has a scene
// and choices to act on.
func (e *Engine) BeginTurn(ctx context.Context, id, user, theme string) (TurnResult, error) {
	if _, err := e.activeMember(id, user); err != nil {
		return TurnResult{}, err
	}
	release, err := e.store.BeginTurn(id)
	if err != nil {
		return TurnResult{}, err
	}
	defer release()

	ch, err := e.optionalCharacter(id, user)
	if err != nil {
		return TurnResult{}, err
	}
	line := ""
	if ch != nil {
		line = ch.String()
	}

	res := TurnResult{SessionID: id, SceneID: session.OpeningScene}
	text, err := e.narrate(ctx, narrator.Request{
		System: narrative.SystemPrompt(),
		Prompt: narrative.OpeningPrompt(line, strings.TrimSpace(theme)),
		UserID: user,
	})
	if err != nil {
		metricOpeningFallback.Add(1)
		log.Error().Err(err).Str("session_id", id).Str("user_id", user).Msg("opening scene generation failed, using fallback")
		res.Scene = fallbackOpeningScene
		res.Choices = append([]string(nil), fallbackOpeningChoices...)
		res.Fallback = true
		e.store.UpdateGameState(id, session.OpeningScene, res.Scene, res.Choices, "")
		return res, nil
	}

	parsed := narrative.ParseResponse(text)
	e.store.UpdateGameState(id, session.OpeningScene, parsed.Scene, parsed.Choices, "")
	if _, err := e.store.AddEvent(id, "scene", "Opening scene generated", nil); err != nil {
		return TurnResult{}, err
	}
	metricOpeningTotal.Add(1)
	res.Scene = parsed.Scene
	res.Choices = parsed.Choices
	log.Info().Str("session_id", id).Str("user_id", user).Int("choices", len(res.Choices)).Msg("opening scene generated")
	return res, nil
}

// ApplyAction resolves a numbered choice or free-form action into the next
// scene. Turns on one session are serialised. A narrator failure returns a
// Failed result with the previous choices and commits nothing.
func (e *Engine) ApplyAction(ctx context.Context, id, user, raw string) (TurnResult, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return TurnResult{}, ErrEmptyAction
	}
	if _, err := e.member(id, user); err != nil {
		return TurnResult{}, err
	}
	release, err := e.store.BeginTurn(id)
	if err != nil {
		return TurnResult{}, err
	}
	defer release()

	// Re-read under the turn lock; a previous turn may have moved things on.
	info, err := e.store.Session(id)
	if err != nil {
		return TurnResult{}, err
	}
	if info.Status != session.StatusActive {
		return TurnResult{}, ErrSessionNotActive
	}
	state, err := e.store.GameState(id)
	if err != nil {
		return TurnResult{}, err
	}

	action := raw
	if n, ok := narrative.ParseChoiceIndex(raw); ok {
		if n < 1 || n > len(state.AvailableChoices) {
			metricActionRejected.Add(1)
			return TurnResult{}, &ChoiceError{Max: len(state.AvailableChoices)}
		}
		action = state.AvailableChoices[n-1]
	}

	ch, err := e.optionalCharacter(id, user)
	if err != nil {
		return TurnResult{}, err
	}

	text, err := e.narrate(ctx, narrator.Request{
		System:    narrative.SystemPrompt(),
		Prompt:    narrative.ActionPrompt(action, narrative.SceneContext(sceneInput(state, ch))),
		UserID:    user,
		UseMemory: true,
	})
	if err != nil {
		log.Error().Err(err).Str("session_id", id).Str("user_id", user).Msg("processing player action failed")
		return TurnResult{
			SessionID: id,
			SceneID:   state.CurrentScene,
			Scene:     narratorErrorPrefix + err.Error(),
			Choices:   state.AvailableChoices,
			Failed:    true,
		}, nil
	}

	parsed := narrative.ParseResponse(text)
	moment, _ := narrative.Classify(parsed.Scene)
	sceneID := fmt.Sprintf("scene_%d", info.SceneCount+1)
	summary := narrative.UpdateSummary(state.ContextSummary, action, parsed.Scene)
	e.store.UpdateGameState(id, sceneID, parsed.Scene, parsed.Choices, summary)

	var keyMoment any
	if moment != "" {
		keyMoment = string(moment)
	}
	if _, err := e.store.AddEvent(id, "action", "Player action: "+action, map[string]any{"key_moment": keyMoment}); err != nil {
		return TurnResult{}, err
	}
	metricActionTotal.Add(1)

	res := TurnResult{
		SessionID: id,
		SceneID:   sceneID,
		Scene:     parsed.Scene,
		Choices:   parsed.Choices,
		KeyMoment: moment,
	}
	if narrative.ShouldIllustrate(moment) && e.illustrations != nil {
		name := ""
		if ch != nil {
			name = ch.Name
		}
		res.Illustrated = e.illustrations.Enqueue(illustration.Request{
			SessionID:     id,
			UserID:        user,
			Moment:        string(moment),
			Scene:         parsed.Scene,
			Prompt:        narrative.IllustrationPrompt(moment, parsed.Scene, name),
			CharacterName: name,
		})
		if res.Illustrated {
			metricIllustrationQueued.Add(1)
		}
	}
	log.Info().Str("session_id", id).Str("user_id", user).Str("scene", sceneID).Str("key_moment", string(moment)).Msg("player action processed")
	return res, nil
}

func (e *Engine) optionalCharacter(id, user string) (*character.Character, error) {
	ch, err := e.store.Character(id, user)
	if errors.Is(err, session.ErrNoCharacter) {
		return nil, nil
	}
	return ch, err
}

func sceneInput(state session.GameState, ch *character.Character) narrative.SceneInput {
	in := narrative.SceneInput{Summary: state.ContextSummary}
	events := state.Events
	if len(events) > recentEventsForContext {
		events = events[len(events)-recentEventsForContext:]
	}
	for _, ev := range events {
		in.RecentEvents = append(in.RecentEvents, ev.Description)
	}
	names := make([]string, 0, len(state.NPCs))
	for name := range state.NPCs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		in.NPCs = append(in.NPCs, narrative.NPCLine{Name: name, Description: state.NPCs[name].Description})
	}
	if ch != nil {
		in.Character = ch.String()
		in.Pools = ch.PoolLine()
	}
	return in
}
