package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"confession-backend/internal/domains/profile"
	"confession-backend/internal/infrastructure/database"
)

const (
	constraintProfilePKey = "profiles_pkey"
	constraintProfileSlug = "profiles_slug_key"
)

const profileColumns = `id, email, display_name, slug, created_at, updated_at`

type postgresRepository struct {
	db database.DBTX
}

func NewPostgresRepository(db database.DBTX) profile.Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, p *profile.Profile) error {
	query := `
		INSERT INTO profiles (id, email, display_name, slug, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, p.ID, p.Email, p.DisplayName, p.Slug).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if err == nil {
		return nil
	}

	if constraint, ok := database.UniqueViolation(err); ok {
		switch constraint {
		case constraintProfilePKey:
			return profile.ErrProfileExists
		case constraintProfileSlug:
			return profile.ErrSlugTaken
		default:
			return fmt.Errorf("%w: %s", profile.ErrSlugTaken, constraint)
		}
	}
	return fmt.Errorf("insert profile: %w", err)
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *postgresRepository) FindBySlug(ctx context.Context, slug string) (*profile.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE slug = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, slug))
}

func (r *postgresRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM profiles WHERE slug = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, slug).Scan(&exists); err != nil {
		return false, fmt.Errorf("probe slug: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) UpdateDisplayName(ctx context.Context, id uuid.UUID, displayName string) (*profile.Profile, error) {
	query := `
		UPDATE profiles
		SET display_name = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + profileColumns

	return r.scanOne(r.db.QueryRow(ctx, query, id, displayName))
}

func (r *postgresRepository) scanOne(row pgx.Row) (*profile.Profile, error) {
	var p profile.Profile
	err := row.Scan(&p.ID, &p.Email, &p.DisplayName, &p.Slug, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, profile.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan profile: %w", err)
	}
	return &p, nil
}
