package core

import "errors"

// Sentinel errors shared across the service. The HTTP layer maps these to
// status codes; everything else is surfaced as an internal error.
var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingUserHeader  = errors.New("X-User-Email header required with API key")

	ErrInvalidAmount      = errors.New("invalid amount")
	ErrMissingAmount      = errors.New("amount is required")
	ErrMissingCategory    = errors.New("category is required")
	ErrMissingDescription = errors.New("description is required")
	ErrMissingName        = errors.New("name is required")
	ErrInvalidFrequency   = errors.New("invalid frequency")
	ErrInvalidPriority    = errors.New("priority must be between 1 and 5")
	ErrInvalidMonth       = errors.New("month must be between 1 and 12")
	ErrInvalidYear        = errors.New("year is required")
)
