package narrator

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
)

// Chain tries providers in order and returns the first success.
type Chain struct {
	providers []Narrator
}

func NewChain(providers ...Narrator) *Chain {
	return &Chain{providers: providers}
}

func (c *Chain) Name() string { return "chain" }

func (c *Chain) Generate(ctx context.Context, req Request) (string, error) {
	if len(c.providers) == 0 {
		return "", ErrNoProviders
	}
	var errs []error
	for _, p := range c.providers {
		text, err := p.Generate(ctx, req)
		if err == nil {
			return text, nil
		}
		errs = append(errs, err)
		log.Warn().Err(err).Str("provider", nameOf(p)).Str("user_id", req.UserID).Msg("narrator provider failed")
		if ctx.Err() != nil {
			break
		}
	}
	return "", errors.Join(errs...)
}
