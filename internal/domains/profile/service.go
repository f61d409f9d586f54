package profile

import (
	"context"

	"github.com/google/uuid"
)

// Service chứa business logic của profile
type Service interface {
	// AllocateSlug chuẩn hóa display name và trả về slug chưa được dùng
	AllocateSlug(ctx context.Context, displayName string) (string, error)

	// EnsureProfile idempotent: profile có sẵn được trả về nguyên vẹn
	EnsureProfile(ctx context.Context, accountID uuid.UUID, email, displayName string) (*Profile, error)

	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)

	// GetBySlug resolve recipient cho trang confess (có cache)
	GetBySlug(ctx context.Context, slug string) (*Profile, error)

	UpdateDisplayName(ctx context.Context, id uuid.UUID, displayName string) (*Profile, error)

	// ShareLink trả về URL công khai để nhận confession
	ShareLink(slug string) string
}
