// Package narrator generates scene prose from LLM backends.
package narrator

import (
	"context"
	"errors"
)

var (
	ErrEmptyResponse = errors.New("narrator_empty_response")
	ErrNoProviders   = errors.New("narrator_no_providers")
)

type Request struct {
	System string
	Prompt string
	UserID string
	// UseMemory asks memory-aware wrappers to add recalled context.
	UseMemory bool
}

// Narrator may fail; callers degrade rather than surface the error.
type Narrator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Func adapts a plain function to Narrator.
type Func func(ctx context.Context, req Request) (string, error)

func (f Func) Generate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

type named interface {
	Name() string
}

func nameOf(n Narrator) string {
	if nn, ok := n.(named); ok {
		return nn.Name()
	}
	return "narrator"
}
