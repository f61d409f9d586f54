package profile

import (
	"time"

	"github.com/google/uuid"
)

// Profile là public identity của account; một account có đúng một profile
type Profile struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Slug        string    `json:"slug"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewProfile tạo profile cho account. Profile.ID luôn bằng Account.ID.
func NewProfile(accountID uuid.UUID, email, displayName, slug string) *Profile {
	return &Profile{
		ID:          accountID,
		Email:       email,
		DisplayName: displayName,
		Slug:        slug,
	}
}
