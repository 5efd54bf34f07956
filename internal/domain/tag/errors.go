package tag

import "errors"

var (
	// ErrTagNotFound indicates the tag doesn't exist.
	ErrTagNotFound = errors.New("tag not found")
	// ErrInvalidInput indicates invalid tag input.
	ErrInvalidInput = errors.New("invalid tag input")
)
