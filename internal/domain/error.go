package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrGroupNotFound      = errors.New("group not found")
	ErrUserBanned         = errors.New("user is banned")
	ErrBotDisabled        = errors.New("bot is disabled")
	ErrAccessDenied       = errors.New("access denied")
	ErrInvalidExecContext = errors.New("invalid executor context")
)
