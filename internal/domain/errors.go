package domain

import "errors"

var (
	// ErrNotFound is returned when the backend has no such record.
	ErrNotFound = errors.New("not found")
	// ErrMalformedRecord marks a backend record that does not match the expected shape.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrInvalidInput marks caller input rejected before reaching the backend.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUpstream marks a backend that failed or could not be reached.
	ErrUpstream = errors.New("upstream unavailable")
)
