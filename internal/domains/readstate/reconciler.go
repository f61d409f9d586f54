package readstate

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"confession-backend/internal/infrastructure/realtime"
	"confession-backend/internal/observability/metrics"
)

// dedupWindow: insert event của row đã có trong bootstrap count chỉ có thể
// đến trong khoảng này sau khi row được tạo
const dedupWindow = time.Minute

// Store là phần của confession repository mà reconciler cần
type Store interface {
	CountUnread(ctx context.Context, profileID uuid.UUID) (int, error)
	CountUnreadWithRecentIDs(ctx context.Context, profileID uuid.UUID, recent time.Duration) (int, []string, error)
	MarkAllRead(ctx context.Context, profileID uuid.UUID) (int64, error)
}

// Feed là change feed đã filter theo recipient
type Feed interface {
	Subscribe(ctx context.Context, profileID uuid.UUID) (realtime.Subscription, error)
	Publish(ctx context.Context, event realtime.Event) error
}

// RetryScheduler đưa drain thất bại vào background retry
type RetryScheduler interface {
	ScheduleDrain(ctx context.Context, profileID uuid.UUID) error
}

type Reconciler struct {
	store     Store
	feed      Feed
	scheduler RetryScheduler
}

func NewReconciler(store Store, feed Feed, scheduler RetryScheduler) *Reconciler {
	return &Reconciler{store: store, feed: feed, scheduler: scheduler}
}

// Bootstrap đếm unread hiện tại và seed counter
func (r *Reconciler) Bootstrap(ctx context.Context, profileID uuid.UUID, counter *Counter) (Snapshot, error) {
	n, err := r.store.CountUnread(ctx, profileID)
	if err != nil {
		log.Error().Err(err).Str("profile_id", profileID.String()).Msg("Unread bootstrap failed")
		return counter.Snapshot(), fmt.Errorf("%w: %v", ErrBootstrapFailed, err)
	}
	return counter.Seed(n), nil
}

// Watch subscribe trước rồi mới bootstrap, để insert xảy ra giữa hai bước
// không bị mất. Event của row đã nằm trong bootstrap count (theo MessageID)
// bị bỏ qua nên không đếm hai lần.
//
// onChange được gọi với snapshot ban đầu và sau mỗi event. Watch return nil
// khi feed đóng (counter giữ nguyên giá trị) hoặc ctx bị cancel.
func (r *Reconciler) Watch(ctx context.Context, profileID uuid.UUID, counter *Counter, onChange func(Snapshot)) error {
	sub, err := r.feed.Subscribe(ctx, profileID)
	if err != nil {
		return fmt.Errorf("subscribe unread feed: %w", err)
	}
	defer sub.Close()

	n, recent, err := r.store.CountUnreadWithRecentIDs(ctx, profileID, dedupWindow)
	if err != nil {
		log.Error().Err(err).Str("profile_id", profileID.String()).Msg("Unread bootstrap failed")
		return fmt.Errorf("%w: %v", ErrBootstrapFailed, err)
	}

	counted := make(map[string]struct{}, len(recent))
	for _, id := range recent {
		counted[id] = struct{}{}
	}
	onChange(counter.Seed(n))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-sub.Events():
			if !ok {
				log.Debug().Str("profile_id", profileID.String()).Msg("Unread feed closed, counter frozen")
				return nil
			}
			if event.ProfileID != profileID {
				continue
			}

			switch event.Type {
			case realtime.EventInserted:
				if _, dup := counted[event.MessageID]; dup && event.MessageID != "" {
					delete(counted, event.MessageID)
					continue
				}
				onChange(counter.Increment())
			case realtime.EventDrained:
				// Row cũ đã read, không còn gì để dedup
				counted = map[string]struct{}{}
				onChange(counter.Reset())
			}
		}
	}
}

// Drain reset counter của mọi session đang mở ngay (publish drained trước),
// rồi mới chạy batched update. Drain không phụ thuộc vòng đời request:
// client ngắt kết nối giữa chừng vẫn không làm mất update hay retry.
// Lỗi update được đưa vào retry queue và trả về ErrDrainFailed;
// counter không bị rollback.
func (r *Reconciler) Drain(ctx context.Context, profileID uuid.UUID, counter *Counter) error {
	ctx = context.WithoutCancel(ctx)

	if counter != nil {
		counter.Reset()
	}
	r.publishDrained(ctx, profileID)

	if err := r.markAllRead(ctx, profileID); err != nil {
		if schedErr := r.scheduler.ScheduleDrain(ctx, profileID); schedErr != nil {
			log.Error().Err(schedErr).Str("profile_id", profileID.String()).Msg("Failed to schedule drain retry")
		}
		return err
	}
	return nil
}

// DrainNow chạy UPDATE và publish drained khi thành công. Worker gọi trực tiếp.
func (r *Reconciler) DrainNow(ctx context.Context, profileID uuid.UUID) error {
	if err := r.markAllRead(ctx, profileID); err != nil {
		return err
	}
	r.publishDrained(ctx, profileID)
	return nil
}

func (r *Reconciler) markAllRead(ctx context.Context, profileID uuid.UUID) error {
	updated, err := r.store.MarkAllRead(ctx, profileID)
	if err != nil {
		metrics.InboxDrainsTotal.WithLabelValues("failed").Inc()
		log.Error().Err(err).Str("profile_id", profileID.String()).Msg("Mark all read failed")
		return fmt.Errorf("%w: %v", ErrDrainFailed, err)
	}
	metrics.InboxDrainsTotal.WithLabelValues("ok").Inc()

	log.Info().
		Str("profile_id", profileID.String()).
		Int64("updated", updated).
		Msg("Inbox drained")
	return nil
}

func (r *Reconciler) publishDrained(ctx context.Context, profileID uuid.UUID) {
	if err := r.feed.Publish(ctx, realtime.Event{Type: realtime.EventDrained, ProfileID: profileID}); err != nil {
		log.Warn().Err(err).Str("profile_id", profileID.String()).Msg("Failed to publish drain event")
	}
}
