package domain

import "errors"

// Client-visible failures. "Not yours" and "does not exist" are deliberately
// the same error so existence never leaks across owners.
var (
	ErrDuplicateName      = errors.New("name already registered")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrValidation         = errors.New("validation failed")
)
