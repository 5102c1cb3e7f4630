package narrator

import (
	"context"

	"golang.org/x/time/rate"
)

// Limited throttles calls to the wrapped narrator.
type Limited struct {
	next    Narrator
	limiter *rate.Limiter
}

// NewLimited allows rps calls per second with the given burst. rps <= 0
// disables throttling.
func NewLimited(next Narrator, rps float64, burst int) *Limited {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &Limited{next: next, limiter: rate.NewLimiter(limit, burst)}
}

func (l *Limited) Name() string { return nameOf(l.next) }

func (l *Limited) Generate(ctx context.Context, req Request) (string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return l.next.Generate(ctx, req)
}
