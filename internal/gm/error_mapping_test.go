package gm

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"nexus-gm/internal/character"
	"nexus-gm/internal/rules"
	"nexus-gm/internal/session"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{session.ErrSessionNotFound, http.StatusNotFound, "session_not_found"},
		{fmt.Errorf("wrapped: %w", session.ErrUserInSession), http.StatusConflict, "user_already_in_session"},
		{ErrSessionNotActive, http.StatusConflict, "session_not_active"},
		{ErrNotInSession, http.StatusForbidden, "user_not_in_session"},
		{ErrCypherUnavailable, http.StatusConflict, "cypher_unavailable"},
		{&ChoiceError{Max: 3}, http.StatusBadRequest, "invalid_choice"},
		{fmt.Errorf("difficulty: %w", rules.ErrOutOfRange), http.StatusBadRequest, "out_of_range"},
		{fmt.Errorf("%w: %q", character.ErrUnknownType, "bard"), http.StatusBadRequest, "unknown_character_type"},
		{errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range tests {
		status, code := MapError(tc.err)
		if status != tc.status || code != tc.code {
			t.Fatalf("MapError(%v) = %d %q, want %d %q", tc.err, status, code, tc.status, tc.code)
		}
	}
}
