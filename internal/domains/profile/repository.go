package profile

import (
	"context"

	"github.com/google/uuid"
)

// Repository định nghĩa data access cho bảng profiles
type Repository interface {
	// Create insert profile.
	// Returns: ErrSlugTaken hoặc ErrProfileExists khi vi phạm unique constraint
	Create(ctx context.Context, p *Profile) error

	// FindByID returns ErrProfileNotFound nếu account chưa có profile
	FindByID(ctx context.Context, id uuid.UUID) (*Profile, error)

	FindBySlug(ctx context.Context, slug string) (*Profile, error)

	// ExistsBySlug là read-only probe, không reserve slug
	ExistsBySlug(ctx context.Context, slug string) (bool, error)

	UpdateDisplayName(ctx context.Context, id uuid.UUID, displayName string) (*Profile, error)
}
