package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFeed(t *testing.T) *RedisFeed {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisFeed(client)
}

func receive(t *testing.T, sub Subscription) Event {
	t.Helper()
	select {
	case ev, ok := <-sub.Events():
		require.True(t, ok, "subscription closed unexpectedly")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for feed event")
	}
	return Event{}
}

func TestRedisFeed_DeliversOnlyRecipientEvents(t *testing.T) {
	feed := newTestFeed(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	alice := uuid.New()
	bob := uuid.New()

	sub, err := feed.Subscribe(ctx, alice)
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, feed.Publish(ctx, Event{Type: EventInserted, ProfileID: bob, MessageID: "m-bob"}))
	require.NoError(t, feed.Publish(ctx, Event{Type: EventInserted, ProfileID: alice, MessageID: "m-alice"}))

	ev := receive(t, sub)
	assert.Equal(t, EventInserted, ev.Type)
	assert.Equal(t, alice, ev.ProfileID)
	assert.Equal(t, "m-alice", ev.MessageID)
	assert.False(t, ev.OccurredAt.IsZero())
}

func TestRedisFeed_CancelClosesEvents(t *testing.T) {
	feed := newTestFeed(t)
	ctx, cancel := context.WithCancel(context.Background())

	sub, err := feed.Subscribe(ctx, uuid.New())
	require.NoError(t, err)

	cancel()

	select {
	case _, ok := <-sub.Events():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("events channel not closed after cancel")
	}
}

func TestRedisFeed_CloseUnblocksFullBuffer(t *testing.T) {
	feed := newTestFeed(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	alice := uuid.New()
	sub, err := feed.Subscribe(ctx, alice)
	require.NoError(t, err)

	// Không ai đọc: buffer đầy và pump kẹt ở send
	for i := 0; i < eventBuffer+4; i++ {
		require.NoError(t, feed.Publish(ctx, Event{Type: EventInserted, ProfileID: alice}))
	}
	require.Eventually(t, func() bool {
		return len(sub.Events()) == eventBuffer
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, sub.Close())
	// pump phải thoát trước khi consumer đọc lại
	time.Sleep(100 * time.Millisecond)

	// ctx vẫn còn sống; Close phải đủ để pump thoát và đóng channel
	received := 0
	timeout := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-sub.Events():
			if !ok {
				assert.LessOrEqual(t, received, eventBuffer)
				return
			}
			received++
		case <-timeout:
			t.Fatal("events channel not closed after Close")
		}
	}
}

func TestChannelName(t *testing.T) {
	id := uuid.MustParse("6f1c1c7e-8a43-4c5e-9d8a-0a3f2d9b1c11")
	assert.Equal(t, "confessions:6f1c1c7e-8a43-4c5e-9d8a-0a3f2d9b1c11", ChannelName(id))
}
