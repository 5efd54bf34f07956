package repository

import "errors"

var (
	// ErrNotFound is returned when a requested record doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrUnavailable is returned when the backing store cannot be reached
	ErrUnavailable = errors.New("store unavailable")

	// ErrInvalidInput is returned when a record cannot be encoded or decoded
	ErrInvalidInput = errors.New("invalid input")
)
