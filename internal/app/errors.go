package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrIdentityRequired = errors.New("identity required")
	ErrDayNotFound      = errors.New("day not found")
	ErrGuessingClosed   = errors.New("guessing closed")
	ErrNotStarted       = errors.New("service not started")
)
