package account

import "errors"

// Repository-level errors
var (
	ErrAccountNotFound = errors.New("account not found")
)

// Service-level errors
var (
	// ErrInvalidToken: token không tồn tại, hết hạn, đã dùng hoặc sai type
	ErrInvalidToken = errors.New("invalid or expired link")
	ErrNoSession    = errors.New("no active session")
	ErrInvalidEmail = errors.New("invalid email format")
)
