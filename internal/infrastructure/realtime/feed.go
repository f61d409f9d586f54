package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type EventType string

const (
	// EventInserted: một confession mới được lưu cho recipient
	EventInserted EventType = "inserted"
	// EventDrained: inbox của recipient vừa được mark all read
	EventDrained EventType = "drained"
)

// Event là payload publish trên channel của từng recipient
type Event struct {
	Type       EventType `json:"type"`
	ProfileID  uuid.UUID `json:"profile_id"`
	MessageID  string    `json:"message_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Subscription là một luồng events đã được filter theo recipient.
// Events() đóng khi subscription bị Close, ctx bị cancel hoặc connection rớt.
type Subscription interface {
	Events() <-chan Event
	Close() error
}

// ChannelName trả về channel redis của một recipient; filter nằm ở phía server
func ChannelName(profileID uuid.UUID) string {
	return "confessions:" + profileID.String()
}

// RedisFeed dùng redis pub/sub làm change feed cho bảng confessions
type RedisFeed struct {
	client *redis.Client
}

func NewRedisFeed(client *redis.Client) *RedisFeed {
	return &RedisFeed{client: client}
}

func (f *RedisFeed) Publish(ctx context.Context, event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal feed event: %w", err)
	}

	if err := f.client.Publish(ctx, ChannelName(event.ProfileID), payload).Err(); err != nil {
		return fmt.Errorf("publish feed event: %w", err)
	}
	return nil
}

func (f *RedisFeed) Subscribe(ctx context.Context, profileID uuid.UUID) (Subscription, error) {
	ps := f.client.Subscribe(ctx, ChannelName(profileID))

	// Đợi confirmation để không bỏ lỡ events publish ngay sau khi return
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("subscribe %s: %w", ChannelName(profileID), err)
	}

	sub := &redisSubscription{
		ps:     ps,
		events: make(chan Event, eventBuffer),
		done:   make(chan struct{}),
	}
	go sub.pump(ctx)
	return sub, nil
}

const eventBuffer = 16

type redisSubscription struct {
	ps        *redis.PubSub
	events    chan Event
	done      chan struct{}
	closeOnce sync.Once
}

func (s *redisSubscription) Events() <-chan Event {
	return s.events
}

func (s *redisSubscription) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.ps.Close()
	})
	return err
}

func (s *redisSubscription) pump(ctx context.Context) {
	defer close(s.events)
	defer s.Close()

	ch := s.ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}

			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Warn().Err(err).Str("channel", msg.Channel).Msg("Dropping malformed feed event")
				continue
			}

			// Consumer đã bỏ đi thì Close phải gỡ được send đang chờ
			select {
			case s.events <- event:
			case <-ctx.Done():
				return
			case <-s.done:
				return
			}
		}
	}
}
