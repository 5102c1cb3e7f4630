package gm

import (
	"errors"
	"net/http"

	"nexus-gm/internal/character"
	"nexus-gm/internal/rules"
	"nexus-gm/internal/session"
)

var errorStatus = []struct {
	err    error
	status int
}{
	{session.ErrSessionNotFound, http.StatusNotFound},
	{session.ErrNoCharacter, http.StatusNotFound},
	{session.ErrSessionExists, http.StatusConflict},
	{session.ErrUserInSession, http.StatusConflict},
	{session.ErrInvalidTransition, http.StatusConflict},
	{ErrSessionNotActive, http.StatusConflict},
	{ErrCypherUnavailable, http.StatusConflict},
	{ErrNotInSession, http.StatusForbidden},
	{session.ErrInvalidMode, http.StatusBadRequest},
	{session.ErrNotPartySession, http.StatusBadRequest},
	{session.ErrInvalidSnapshot, http.StatusBadRequest},
	{ErrMissingField, http.StatusBadRequest},
	{ErrEmptyAction, http.StatusBadRequest},
	{ErrInvalidAmount, http.StatusBadRequest},
	{rules.ErrUnknownPool, http.StatusBadRequest},
	{rules.ErrOutOfRange, http.StatusBadRequest},
	{character.ErrUnknownType, http.StatusBadRequest},
	{character.ErrUnknownDescriptor, http.StatusBadRequest},
	{character.ErrUnknownFocus, http.StatusBadRequest},
	{character.ErrInvalidTier, http.StatusBadRequest},
	{character.ErrInvalidName, http.StatusBadRequest},
}

// MapError converts an engine error to an HTTP status and error code.
// Codes are the sentinel error strings.
func MapError(err error) (int, string) {
	var ce *ChoiceError
	if errors.As(err, &ce) {
		return http.StatusBadRequest, "invalid_choice"
	}
	for _, row := range errorStatus {
		if errors.Is(err, row.err) {
			return row.status, row.err.Error()
		}
	}
	return http.StatusInternalServerError, "internal_error"
}
