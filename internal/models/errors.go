package models

import "errors"

// Shared error taxonomy. Handlers map these to HTTP codes; everything else
// wraps them with fmt.Errorf("...: %w", err) and matches with errors.Is.
var (
	ErrFileTooLarge   = errors.New("file too large")
	ErrNotAnImage     = errors.New("not an image")
	ErrRateLimited    = errors.New("upstream rate limited")
	ErrBillingFailure = errors.New("upstream billing failure")
	ErrUpstream       = errors.New("upstream failure")
	ErrNotFound       = errors.New("not found")
	ErrInvalidState   = errors.New("invalid state")
)
