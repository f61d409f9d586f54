package profile

import "errors"

// Repository-level errors
var (
	ErrProfileNotFound = errors.New("profile not found")

	// ErrSlugTaken: unique violation trên slug
	ErrSlugTaken = errors.New("slug already taken")
	// ErrProfileExists: unique violation trên id, account đã có profile
	ErrProfileExists = errors.New("profile already exists")
)

// Service-level errors
var (
	ErrConflict           = errors.New("username or slug already taken")
	ErrInvalidDisplayName = errors.New("display name must be between 3 and 50 characters")
)
