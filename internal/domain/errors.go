package domain

import "errors"

var (
	// ErrNotFound covers both missing records and records owned by
	// another user; callers cannot tell the two apart.
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
)
