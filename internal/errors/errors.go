package errors

import (
	"errors"
)

// Common error types
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNoPrivileges = errors.New("no privileges")
	ErrNoGuild      = errors.New("not in a guild")
	ErrNoActor      = errors.New("actor snapshot unavailable")
)
