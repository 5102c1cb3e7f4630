package character

import "errors"

var (
	ErrUnknownType       = errors.New("unknown_character_type")
	ErrUnknownDescriptor = errors.New("unknown_descriptor")
	ErrUnknownFocus      = errors.New("unknown_focus")
	ErrInvalidTier       = errors.New("invalid_tier")
	ErrInvalidName       = errors.New("invalid_name")
)
