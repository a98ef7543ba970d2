package errors

import "errors"

func Is(err, target error) bool { return errors.Is(err, target) }

// Code maps an error chain to the short code reported to clients and used as a metric label.
// The most specific kind wins.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthorizedAction):
		return "unauthorized"
	case errors.Is(err, ErrBadRequest):
		return "bad_request"
	case errors.Is(err, ErrNotSubscribed):
		return "not_subscribed"
	case errors.Is(err, ErrAlreadySubscribed):
		return "already_subscribed"
	case errors.Is(err, ErrRepository):
		return "repository"
	case errors.Is(err, ErrEventBroker):
		return "event_broker"
	case errors.Is(err, ErrMessageBroker):
		return "message_broker"
	case errors.Is(err, ErrInvalidToken):
		return "invalid_token"
	default:
		return "internal"
	}
}
