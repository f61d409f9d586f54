package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"confession-backend/internal/domains/confession"
	"confession-backend/internal/domains/profile"
	"confession-backend/internal/infrastructure/realtime"
	"confession-backend/internal/observability/metrics"
)

type confessionService struct {
	repo       confession.Repository
	recipients confession.RecipientResolver
	publisher  confession.Publisher
}

func NewConfessionService(
	repo confession.Repository,
	recipients confession.RecipientResolver,
	publisher confession.Publisher,
) confession.Service {
	return &confessionService{
		repo:       repo,
		recipients: recipients,
		publisher:  publisher,
	}
}

// Submit: resolve → validate → persist → publish.
// Slug không tồn tại luôn là ErrRecipientNotFound, bất kể body.
func (s *confessionService) Submit(ctx context.Context, recipientSlug, rawBody string) error {
	// STEP 1: resolve recipient
	recipient, err := s.recipients.GetBySlug(ctx, recipientSlug)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			metrics.ConfessionsSubmittedTotal.WithLabelValues("not_found").Inc()
			return confession.ErrRecipientNotFound
		}
		log.Error().Err(err).Str("slug", recipientSlug).Msg("Failed to resolve recipient")
		metrics.ConfessionsSubmittedTotal.WithLabelValues("persist_failed").Inc()
		return confession.ErrPersistFailed
	}

	// STEP 2: validate body
	body := confession.NormalizeBody(rawBody)
	if err := confession.ValidateBody(body); err != nil {
		metrics.ConfessionsSubmittedTotal.WithLabelValues("invalid").Inc()
		return confession.ErrInvalidLength
	}

	// STEP 3: persist
	msg := &confession.Message{
		ID:        uuid.New(),
		ProfileID: recipient.ID,
		Body:      body,
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		log.Error().Err(err).Str("profile_id", recipient.ID.String()).Msg("Failed to persist confession")
		metrics.ConfessionsSubmittedTotal.WithLabelValues("persist_failed").Inc()
		return confession.ErrPersistFailed
	}

	metrics.ConfessionsSubmittedTotal.WithLabelValues("accepted").Inc()

	// STEP 4: notify live sessions; lỗi feed không làm fail submission
	err = s.publisher.Publish(ctx, realtime.Event{
		Type:       realtime.EventInserted,
		ProfileID:  recipient.ID,
		MessageID:  msg.ID.String(),
		OccurredAt: msg.CreatedAt,
	})
	if err != nil {
		log.Warn().Err(err).Str("profile_id", recipient.ID.String()).Msg("Failed to publish insert event")
	}

	return nil
}

func (s *confessionService) ListInbox(ctx context.Context, profileID uuid.UUID) ([]confession.Message, error) {
	messages, err := s.repo.ListByProfile(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("list inbox: %w", err)
	}
	return messages, nil
}
