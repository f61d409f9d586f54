package readstate

import "errors"

var (
	ErrBootstrapFailed = errors.New("failed to load unread count")
	ErrDrainFailed     = errors.New("failed to mark inbox as read")
)
