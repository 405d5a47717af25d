package service

import "errors"

var (
	// ErrNotFound is returned when a referenced user, slot, game or current
	// match does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyMatched is returned when a user already holds a current match.
	ErrAlreadyMatched = errors.New("user already has a current match")

	ErrInvalidRequest = errors.New("invalid request")
)
