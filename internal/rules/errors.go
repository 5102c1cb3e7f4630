package rules

import "errors"

var (
	ErrUnknownPool = errors.New("unknown_pool")
	ErrOutOfRange  = errors.New("out_of_range")
)
