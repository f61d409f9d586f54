package confession

import "errors"

var (
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrInvalidLength     = errors.New("confession must be between 1 and 1000 characters")
	// ErrPersistFailed: chi tiết chỉ được log, sender chỉ thấy message chung
	ErrPersistFailed = errors.New("failed to send")
)

// User-facing messages cho trang confess
const (
	MsgInvalidLength = "Confession must be between 1 and 1000 characters."
	MsgPersistFailed = "Failed to send. Please try again."
)
