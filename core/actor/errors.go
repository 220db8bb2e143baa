package actor

import "errors"

var (
	// Runtime errors
	ErrInitFailure = errors.New("actor init failed")
	ErrDeadActor   = errors.New("actor unavailable")
	ErrStopped     = errors.New("actor stopped")
	ErrSelfCall    = errors.New("actor called itself")

	// Handler errors
	ErrHandlerFailure   = errors.New("actor handler failed")
	ErrMalformedRequest = errors.New("malformed request")

	// Registry errors
	ErrNameTaken = errors.New("actor name already registered")
	ErrNameEmpty = errors.New("actor name is required")
)
