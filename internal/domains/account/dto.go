package account

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

// SignUpRequest - gửi one-time link tới email (dùng cho cả sign up lẫn sign in)
type SignUpRequest struct {
	Email string `json:"email" form:"email"`
}

// Normalize trim + lowercase email
func (r *SignUpRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r SignUpRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			is.Email.Error("invalid email format"),
			validation.Length(3, 254),
		),
	)
}

type SignUpResponse struct {
	Email   string `json:"email"`
	Message string `json:"message"`
}

type AccountDTO struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

func (a *Account) ToDTO() AccountDTO {
	return AccountDTO{ID: a.ID, Email: a.Email}
}
