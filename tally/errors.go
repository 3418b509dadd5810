package tally

import "errors"

var (
	// ErrStorageUnavailable is what callers see for any backend failure.
	// The underlying cause is logged, never returned.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrAuthFailed means the provided reset key did not match.
	ErrAuthFailed = errors.New("reset key mismatch")
)
