package session

import "errors"

var (
	ErrSessionExists     = errors.New("session_exists")
	ErrSessionNotFound   = errors.New("session_not_found")
	ErrInvalidMode       = errors.New("invalid_mode")
	ErrUserInSession     = errors.New("user_already_in_session")
	ErrInvalidTransition = errors.New("invalid_status_transition")
	ErrNotPartySession   = errors.New("not_party_session")
	ErrNoCharacter       = errors.New("character_not_found")
	ErrInvalidSnapshot   = errors.New("invalid_snapshot")
)
