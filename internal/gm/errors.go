package gm

import (
	"errors"
	"fmt"
)

var (
	ErrSessionNotActive = errors.New("session_not_active")
	ErrNotInSession     = errors.New("user_not_in_session")
	ErrMissingField     = errors.New("missing_field")
	ErrEmptyAction      = errors.New("empty_action")
	ErrInvalidAmount    = errors.New("invalid_amount")

	// ErrCypherUnavailable means no unused cypher with that name is held.
	ErrCypherUnavailable = errors.New("cypher_unavailable")
)

// ChoiceError reports a numbered choice outside 1..Max.
type ChoiceError struct {
	Max int
}

func (e *ChoiceError) Error() string {
	return fmt.Sprintf("Invalid choice number. Please pick 1-%d.", e.Max)
}
