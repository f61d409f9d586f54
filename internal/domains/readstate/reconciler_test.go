package readstate

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"confession-backend/internal/infrastructure/realtime"
	"confession-backend/internal/shared"
)

// ============================================
// Fakes
// ============================================

type fakeStore struct {
	mu       sync.Mutex
	unread   map[uuid.UUID]int
	recent   map[uuid.UUID][]string
	countErr error
	markErr  error
	marks    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{unread: map[uuid.UUID]int{}, recent: map[uuid.UUID][]string{}}
}

func (s *fakeStore) CountUnread(_ context.Context, id uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.countErr != nil {
		return 0, s.countErr
	}
	return s.unread[id], nil
}

func (s *fakeStore) CountUnreadWithRecentIDs(_ context.Context, id uuid.UUID, _ time.Duration) (int, []string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.countErr != nil {
		return 0, nil, s.countErr
	}
	return s.unread[id], s.recent[id], nil
}

// MarkAllRead fail như pgx khi ctx đã bị cancel
func (s *fakeStore) MarkAllRead(ctx context.Context, id uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marks++
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s.markErr != nil {
		return 0, s.markErr
	}
	n := s.unread[id]
	s.unread[id] = 0
	return int64(n), nil
}

type fakeSubscription struct {
	events chan realtime.Event
	once   sync.Once
}

func (s *fakeSubscription) Events() <-chan realtime.Event { return s.events }

func (s *fakeSubscription) Close() error { return nil }

func (s *fakeSubscription) drop() { s.once.Do(func() { close(s.events) }) }

type fakeFeed struct {
	mu        sync.Mutex
	sub       *fakeSubscription
	published []realtime.Event
	subErr    error
}

func (f *fakeFeed) Subscribe(context.Context, uuid.UUID) (realtime.Subscription, error) {
	if f.subErr != nil {
		return nil, f.subErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sub = &fakeSubscription{events: make(chan realtime.Event, 8)}
	return f.sub, nil
}

func (f *fakeFeed) Publish(_ context.Context, e realtime.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, e)
	return nil
}

type fakeScheduler struct {
	scheduled []uuid.UUID
	ctxErrs   []error
}

func (s *fakeScheduler) ScheduleDrain(ctx context.Context, id uuid.UUID) error {
	s.ctxErrs = append(s.ctxErrs, ctx.Err())
	if ctx.Err() != nil {
		return ctx.Err()
	}
	s.scheduled = append(s.scheduled, id)
	return nil
}

// ============================================
// Bootstrap / Drain
// ============================================

func TestBootstrapThenDrain(t *testing.T) {
	store := newFakeStore()
	feed := &fakeFeed{}
	sched := &fakeScheduler{}
	r := NewReconciler(store, feed, sched)

	alice := uuid.New()
	store.unread[alice] = 3
	counter := NewCounter()

	snap, err := r.Bootstrap(context.Background(), alice, counter)
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Count)

	require.NoError(t, r.Drain(context.Background(), alice, counter))
	assert.Equal(t, 0, counter.Snapshot().Count)

	snap, err = r.Bootstrap(context.Background(), alice, NewCounter())
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Count)

	require.Len(t, feed.published, 1)
	assert.Equal(t, realtime.EventDrained, feed.published[0].Type)
	assert.Empty(t, sched.scheduled)
}

func TestBootstrapFailureKeepsCounter(t *testing.T) {
	store := newFakeStore()
	store.countErr = errors.New("timeout")
	r := NewReconciler(store, &fakeFeed{}, &fakeScheduler{})

	counter := NewCounter()
	counter.Seed(2)

	snap, err := r.Bootstrap(context.Background(), uuid.New(), counter)
	assert.ErrorIs(t, err, ErrBootstrapFailed)
	assert.Equal(t, 2, snap.Count)
}

func TestDrainFailureSchedulesRetry(t *testing.T) {
	store := newFakeStore()
	store.markErr = errors.New("deadlock detected")
	feed := &fakeFeed{}
	sched := &fakeScheduler{}
	r := NewReconciler(store, feed, sched)

	alice := uuid.New()
	store.unread[alice] = 2
	counter := NewCounter()
	counter.Seed(2)

	err := r.Drain(context.Background(), alice, counter)
	assert.ErrorIs(t, err, ErrDrainFailed)

	// optimistic reset không bị rollback, các session khác cũng được reset
	assert.Equal(t, 0, counter.Snapshot().Count)
	assert.Equal(t, []uuid.UUID{alice}, sched.scheduled)
	require.Len(t, feed.published, 1)
	assert.Equal(t, realtime.EventDrained, feed.published[0].Type)

	// lần bootstrap sau vẫn thấy authority
	snap, err := r.Bootstrap(context.Background(), alice, NewCounter())
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Count)
}

func TestDrain_SurvivesCancelledRequest(t *testing.T) {
	alice := uuid.New()

	t.Run("update still runs", func(t *testing.T) {
		store := newFakeStore()
		store.unread[alice] = 2
		r := NewReconciler(store, &fakeFeed{}, &fakeScheduler{})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		require.NoError(t, r.Drain(ctx, alice, nil))
		n, err := store.CountUnread(context.Background(), alice)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("failed update is still retried", func(t *testing.T) {
		store := newFakeStore()
		store.markErr = errors.New("db down")
		sched := &fakeScheduler{}
		r := NewReconciler(store, &fakeFeed{}, sched)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.ErrorIs(t, r.Drain(ctx, alice, nil), ErrDrainFailed)
		assert.Equal(t, []uuid.UUID{alice}, sched.scheduled)
		assert.Equal(t, []error{nil}, sched.ctxErrs)
	})
}

// ============================================
// Watch
// ============================================

func TestWatch_AppliesFeedEvents(t *testing.T) {
	store := newFakeStore()
	feed := &fakeFeed{}
	r := NewReconciler(store, feed, &fakeScheduler{})

	alice := uuid.New()
	store.unread[alice] = 1
	counter := NewCounter()

	var mu sync.Mutex
	var snaps []Snapshot
	done := make(chan error, 1)

	go func() {
		done <- r.Watch(context.Background(), alice, counter, func(s Snapshot) {
			mu.Lock()
			snaps = append(snaps, s)
			mu.Unlock()
		})
	}()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(snaps) == 1
	}, time.Second, 5*time.Millisecond)

	feed.mu.Lock()
	sub := feed.sub
	feed.mu.Unlock()

	sub.events <- realtime.Event{Type: realtime.EventInserted, ProfileID: alice}
	sub.events <- realtime.Event{Type: realtime.EventInserted, ProfileID: uuid.New()} // không phải của alice
	sub.events <- realtime.Event{Type: realtime.EventInserted, ProfileID: alice}
	sub.events <- realtime.Event{Type: realtime.EventDrained, ProfileID: alice}
	sub.drop()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watch did not return after feed closed")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, snaps, 4)
	assert.Equal(t, Snapshot{Count: 1, HasNew: false, Badge: "1"}, snaps[0])
	assert.Equal(t, Snapshot{Count: 2, HasNew: true, Badge: "2"}, snaps[1])
	assert.Equal(t, Snapshot{Count: 3, HasNew: true, Badge: "3"}, snaps[2])
	assert.Equal(t, Snapshot{Count: 0, HasNew: false, Badge: ""}, snaps[3])
}

func TestWatch_SkipsEventsAlreadyCounted(t *testing.T) {
	store := newFakeStore()
	feed := &fakeFeed{}
	r := NewReconciler(store, feed, &fakeScheduler{})

	alice := uuid.New()
	// m-1 được insert ngay trước bootstrap: đã nằm trong count
	store.unread[alice] = 1
	store.recent[alice] = []string{"m-1"}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snaps := make(chan Snapshot, 4)
	go func() {
		_ = r.Watch(ctx, alice, NewCounter(), func(s Snapshot) { snaps <- s })
	}()
	assert.Equal(t, 1, (<-snaps).Count)

	feed.mu.Lock()
	sub := feed.sub
	feed.mu.Unlock()
	sub.events <- realtime.Event{Type: realtime.EventInserted, ProfileID: alice, MessageID: "m-1"}
	sub.events <- realtime.Event{Type: realtime.EventInserted, ProfileID: alice, MessageID: "m-2"}

	snap := <-snaps
	assert.Equal(t, 2, snap.Count)
	assert.True(t, snap.HasNew)

	select {
	case extra := <-snaps:
		t.Fatalf("unexpected snapshot %+v", extra)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWatch_BootstrapError(t *testing.T) {
	store := newFakeStore()
	store.countErr = errors.New("timeout")
	r := NewReconciler(store, &fakeFeed{}, &fakeScheduler{})

	called := false
	err := r.Watch(context.Background(), uuid.New(), NewCounter(), func(Snapshot) { called = true })
	assert.ErrorIs(t, err, ErrBootstrapFailed)
	assert.False(t, called)
}

func TestWatch_BadgeCapsAt99(t *testing.T) {
	store := newFakeStore()
	feed := &fakeFeed{}
	r := NewReconciler(store, feed, &fakeScheduler{})

	alice := uuid.New()
	store.unread[alice] = 99
	counter := NewCounter()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	last := make(chan Snapshot, 4)
	go func() {
		_ = r.Watch(ctx, alice, counter, func(s Snapshot) { last <- s })
	}()

	assert.Equal(t, "99", (<-last).Badge)

	feed.mu.Lock()
	sub := feed.sub
	feed.mu.Unlock()
	sub.events <- realtime.Event{Type: realtime.EventInserted, ProfileID: alice}

	snap := <-last
	assert.Equal(t, 100, snap.Count)
	assert.Equal(t, "99+", snap.Badge)
}

func TestWatch_CancelReturnsNil(t *testing.T) {
	r := NewReconciler(newFakeStore(), &fakeFeed{}, &fakeScheduler{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- r.Watch(ctx, uuid.New(), NewCounter(), func(Snapshot) {})
	}()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watch did not return after cancel")
	}
}

func TestWatch_SubscribeError(t *testing.T) {
	r := NewReconciler(newFakeStore(), &fakeFeed{subErr: errors.New("redis down")}, &fakeScheduler{})

	called := false
	err := r.Watch(context.Background(), uuid.New(), NewCounter(), func(Snapshot) { called = true })
	assert.Error(t, err)
	assert.False(t, called)
}

// ============================================
// Asynq scheduler
// ============================================

type captureEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (c *captureEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	c.tasks = append(c.tasks, task)
	if c.err != nil {
		return nil, c.err
	}
	return &asynq.TaskInfo{ID: "drain:x", Queue: shared.QueueLow}, nil
}

func TestAsynqDrainScheduler(t *testing.T) {
	id := uuid.New()

	t.Run("enqueues drain task", func(t *testing.T) {
		q := &captureEnqueuer{}
		s := NewAsynqDrainScheduler(q, 5)

		require.NoError(t, s.ScheduleDrain(context.Background(), id))
		require.Len(t, q.tasks, 1)
		assert.Equal(t, shared.TypeDrainInbox, q.tasks[0].Type())
		assert.JSONEq(t, `{"profile_id":"`+id.String()+`"}`, string(q.tasks[0].Payload()))
	})

	t.Run("pending retry is not an error", func(t *testing.T) {
		s := NewAsynqDrainScheduler(&captureEnqueuer{err: asynq.ErrTaskIDConflict}, 5)
		assert.NoError(t, s.ScheduleDrain(context.Background(), id))
	})

	t.Run("enqueue failure surfaces", func(t *testing.T) {
		s := NewAsynqDrainScheduler(&captureEnqueuer{err: errors.New("redis down")}, 5)
		assert.Error(t, s.ScheduleDrain(context.Background(), id))
	})
}
