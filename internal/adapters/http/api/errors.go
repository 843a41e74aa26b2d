package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrInvalidID = errors.New("invalid id")
)
