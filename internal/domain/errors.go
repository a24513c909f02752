package domain

import "errors"

// Sentinel errors shared across services and repositories. Services wrap
// infrastructure failures with fmt.Errorf("...: %w", err); controllers map
// these sentinels to HTTP status codes with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
)
