package narrator

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	recallLimit      = 5
	rememberMaxRunes = 500
)

// Recall is the optional context-memory capability.
type Recall interface {
	RecentContext(ctx context.Context, userID string, limit int) ([]string, error)
	Remember(ctx context.Context, userID, content, kind string) error
}

// Memory adds recalled context to the system prompt when a request asks for
// it and then records the exchange. Memory failures are logged only.
type Memory struct {
	next   Narrator
	recall Recall
}

func WithMemory(next Narrator, recall Recall) Narrator {
	if recall == nil {
		return next
	}
	return &Memory{next: next, recall: recall}
}

func (m *Memory) Name() string { return nameOf(m.next) }

func (m *Memory) Generate(ctx context.Context, req Request) (string, error) {
	if req.UseMemory && req.UserID != "" {
		recent, err := m.recall.RecentContext(ctx, req.UserID, recallLimit)
		if err != nil {
			log.Warn().Err(err).Str("user_id", req.UserID).Msg("memory recall failed")
		} else if len(recent) > 0 {
			req.System = req.System + "\n\nContext from previous conversations:\n- " + strings.Join(recent, "\n- ")
		}
	}

	text, err := m.next.Generate(ctx, req)
	if err != nil {
		return "", err
	}

	if req.UseMemory && req.UserID != "" {
		entry := "Player: " + clip(req.Prompt) + "\nGM: " + clip(text)
		if err := m.recall.Remember(ctx, req.UserID, entry, "exchange"); err != nil {
			log.Warn().Err(err).Str("user_id", req.UserID).Msg("memory store failed")
		}
	}
	return text, nil
}

func clip(s string) string {
	r := []rune(s)
	if len(r) <= rememberMaxRunes {
		return s
	}
	return string(r[:rememberMaxRunes])
}
