package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"confession-backend/internal/infrastructure/email"
	"confession-backend/internal/shared"
)

// ============================================
// Magic Link Email Handler
// ============================================

type MagicLinkEmailHandler struct {
	emailService email.EmailService
}

func NewMagicLinkEmailHandler(emailService email.EmailService) *MagicLinkEmailHandler {
	return &MagicLinkEmailHandler{
		emailService: emailService,
	}
}

func (h *MagicLinkEmailHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.MagicLinkEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal MagicLinkEmail payload")
		// Sai format payload, retry cũng vô ích
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	log.Info().
		Str("email", payload.Email).
		Str("link_type", payload.LinkType).
		Msg("Processing magic link email")

	err := h.emailService.SendMagicLinkEmail(ctx, email.MagicLinkEmailData{
		Email:     payload.Email,
		Link:      payload.Link,
		LinkType:  payload.LinkType,
		ExpiresIn: payload.ExpiresIn,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to send magic link email")
		return fmt.Errorf("send magic link email: %w", err)
	}

	log.Info().
		Str("email", payload.Email).
		Msg("Magic link email sent successfully")

	return nil
}
