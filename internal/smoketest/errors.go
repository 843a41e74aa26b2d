package smoketest

import "errors"

// Sentinel errors returned by Run.
var (
	ErrRequest          = errors.New("request failed")
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrEmptyCollection  = errors.New("collection is empty")
	ErrUnknownResource  = errors.New("unknown resource")
	ErrDecode           = errors.New("decode response")
)
