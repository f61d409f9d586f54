package readstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"confession-backend/internal/infrastructure/queue"
	"confession-backend/internal/shared"
)

const drainRetryDelay = 5 * time.Second

// AsynqDrainScheduler enqueue task confession:drain_inbox.
// Mỗi profile chỉ có tối đa một retry đang chờ (TaskID theo profile).
type AsynqDrainScheduler struct {
	queue    queue.TaskEnqueuer
	maxRetry int
}

func NewAsynqDrainScheduler(enqueuer queue.TaskEnqueuer, maxRetry int) *AsynqDrainScheduler {
	if maxRetry <= 0 {
		maxRetry = 5
	}
	return &AsynqDrainScheduler{queue: enqueuer, maxRetry: maxRetry}
}

func (s *AsynqDrainScheduler) ScheduleDrain(ctx context.Context, profileID uuid.UUID) error {
	payload, err := json.Marshal(shared.DrainInboxPayload{ProfileID: profileID.String()})
	if err != nil {
		return fmt.Errorf("marshal drain payload: %w", err)
	}

	task := asynq.NewTask(shared.TypeDrainInbox, payload)
	info, err := s.queue.EnqueueContext(ctx, task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(s.maxRetry),
		asynq.ProcessIn(drainRetryDelay),
		asynq.TaskID("drain:"+profileID.String()),
	)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return fmt.Errorf("enqueue drain retry: %w", err)
	}

	log.Info().
		Str("task_id", info.ID).
		Str("profile_id", profileID.String()).
		Msg("Drain retry scheduled")
	return nil
}
