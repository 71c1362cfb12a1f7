package domain

import "errors"

// Error taxonomy shared by services and mapped to HTTP statuses at the API layer.
var (
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation failed")
	ErrAlreadyFinalized = errors.New("charge already finalized")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrRateLimited      = errors.New("too many attempts, try again later")
)
