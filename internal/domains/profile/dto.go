package profile

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// SetupRequest - chọn display name lần đầu sau khi xác nhận email
type SetupRequest struct {
	DisplayName string `json:"display_name" form:"display_name"`
}

func (r *SetupRequest) Normalize() {
	r.DisplayName = strings.TrimSpace(r.DisplayName)
}

func (r SetupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DisplayName,
			validation.Required.Error("display name is required"),
			validation.RuneLength(3, 50).Error(ErrInvalidDisplayName.Error()),
		),
	)
}

// UpdateProfileRequest - đổi display name, slug giữ nguyên
type UpdateProfileRequest = SetupRequest

// ProfileDTO trả về cho chủ profile
type ProfileDTO struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Slug        string    `json:"slug"`
	ShareLink   string    `json:"share_link"`
}

// PublicProfileDTO trả về cho người gửi ẩn danh
type PublicProfileDTO struct {
	DisplayName string `json:"display_name"`
	Slug        string `json:"slug"`
}

func (p *Profile) ToDTO(shareLink string) ProfileDTO {
	return ProfileDTO{
		ID:          p.ID,
		Email:       p.Email,
		DisplayName: p.DisplayName,
		Slug:        p.Slug,
		ShareLink:   shareLink,
	}
}

func (p *Profile) ToPublicDTO() PublicProfileDTO {
	return PublicProfileDTO{DisplayName: p.DisplayName, Slug: p.Slug}
}
