package errors

import "errors"

// Coordinator-level kinds. Callers match them with errors.Is; the detail travels in the wrap.
var (
	ErrUnauthorizedAction = errors.New("unauthorized action")
	ErrBadRequest         = errors.New("bad request")
	ErrRepository         = errors.New("repository error")
	ErrEventBroker        = errors.New("event broker error")
	ErrMessageBroker      = errors.New("message broker error")
	ErrNotSubscribed      = errors.New("not subscribed")
)

// Event broker kinds. Every broker failure also wraps ErrBroker.
var (
	ErrBroker            = errors.New("broker failure")
	ErrAlreadySubscribed = errors.New("already subscribed")
	ErrUsage             = errors.New("broker usage error")
)

// Repository kinds.
var (
	ErrRepositoryRequest  = errors.New("repository request error")
	ErrRepositoryDatabase = errors.New("repository database error")
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
)

var (
	ErrWorkerPanic  = errors.New("worker panic")
	ErrInvalidToken = errors.New("invalid token")
)
