package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"confession-backend/internal/shared"
)

// Drainer là phần của readstate.Reconciler mà worker dùng
type Drainer interface {
	DrainNow(ctx context.Context, profileID uuid.UUID) error
}

// ============================================
// Drain Inbox Handler
// ============================================

type DrainInboxHandler struct {
	drainer Drainer
}

func NewDrainInboxHandler(drainer Drainer) *DrainInboxHandler {
	return &DrainInboxHandler{drainer: drainer}
}

func (h *DrainInboxHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.DrainInboxPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal DrainInbox payload")
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	profileID, err := uuid.Parse(payload.ProfileID)
	if err != nil {
		return fmt.Errorf("invalid profile id %q: %w", payload.ProfileID, asynq.SkipRetry)
	}

	if err := h.drainer.DrainNow(ctx, profileID); err != nil {
		// asynq retry với backoff
		return fmt.Errorf("drain inbox: %w", err)
	}
	return nil
}
