package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"confession-backend/internal/domains/profile"
	"confession-backend/pkg/cache"
)

const (
	// maxProvisionAttempts: lần đầu + một lần retry sau slug conflict
	maxProvisionAttempts = 2

	profileCacheTTL = 15 * time.Minute
)

func slugCacheKey(slug string) string {
	return "profile:slug:" + slug
}

type profileService struct {
	repo      profile.Repository
	allocator *SlugAllocator
	cache     cache.Cache
	shareBase string
}

// NewProfileService; cache có thể nil. shareBase là SITE_URL + confess path.
func NewProfileService(repo profile.Repository, c cache.Cache, shareBase string) profile.Service {
	return &profileService{
		repo:      repo,
		allocator: NewSlugAllocator(repo),
		cache:     c,
		shareBase: strings.TrimRight(shareBase, "/"),
	}
}

func (s *profileService) AllocateSlug(ctx context.Context, displayName string) (string, error) {
	return s.allocator.AllocateSlug(ctx, displayName)
}

func (s *profileService) EnsureProfile(ctx context.Context, accountID uuid.UUID, email, displayName string) (*profile.Profile, error) {
	// STEP 1: profile có sẵn → trả về, không write
	existing, err := s.repo.FindByID(ctx, accountID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, profile.ErrProfileNotFound) {
		return nil, fmt.Errorf("lookup profile: %w", err)
	}

	name := strings.TrimSpace(displayName)

	// STEP 2: allocate + insert, retry khi slug bị chiếm giữa probe và insert
	for attempt := 1; attempt <= maxProvisionAttempts; attempt++ {
		slug, err := s.allocator.AllocateSlug(ctx, name)
		if err != nil {
			return nil, err
		}

		p := profile.NewProfile(accountID, email, name, slug)
		err = s.repo.Create(ctx, p)
		switch {
		case err == nil:
			log.Info().
				Str("account_id", accountID.String()).
				Str("slug", slug).
				Msg("Profile provisioned")
			return p, nil

		case errors.Is(err, profile.ErrProfileExists):
			// Concurrent provisioning đã thắng
			return s.repo.FindByID(ctx, accountID)

		case errors.Is(err, profile.ErrSlugTaken):
			log.Warn().
				Str("slug", slug).
				Int("attempt", attempt).
				Msg("Slug taken during provisioning, retrying")

		default:
			return nil, fmt.Errorf("create profile: %w", err)
		}
	}

	return nil, profile.ErrConflict
}

func (s *profileService) GetByID(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	return s.repo.FindByID(ctx, id)
}

// GetBySlug dùng cache-aside; lỗi cache chỉ được log
func (s *profileService) GetBySlug(ctx context.Context, slug string) (*profile.Profile, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, profile.ErrProfileNotFound
	}

	key := slugCacheKey(slug)
	if s.cache != nil {
		var cached profile.Profile
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Profile cache read failed")
		} else if found {
			return &cached, nil
		}
	}

	p, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, p, profileCacheTTL); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Profile cache write failed")
		}
	}
	return p, nil
}

func (s *profileService) UpdateDisplayName(ctx context.Context, id uuid.UUID, displayName string) (*profile.Profile, error) {
	p, err := s.repo.UpdateDisplayName(ctx, id, strings.TrimSpace(displayName))
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, slugCacheKey(p.Slug)); err != nil {
			log.Warn().Err(err).Str("slug", p.Slug).Msg("Profile cache invalidation failed")
		}
	}
	return p, nil
}

func (s *profileService) ShareLink(slug string) string {
	return s.shareBase + "/" + slug
}
