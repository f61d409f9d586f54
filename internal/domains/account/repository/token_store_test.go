package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"confession-backend/internal/domains/account"
)

func newRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestTokenStore_ConsumeOnce(t *testing.T) {
	client, _ := newRedis(t)
	store := NewRedisTokenStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "hash-1", account.OneTimeToken{Email: "alice@example.com", Type: account.LinkTypeSignup}, time.Hour))

	tok, err := store.Consume(ctx, "hash-1", account.LinkTypeSignup)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", tok.Email)

	_, err = store.Consume(ctx, "hash-1", account.LinkTypeSignup)
	assert.ErrorIs(t, err, account.ErrInvalidToken)
}

func TestTokenStore_TypeMismatchKeepsToken(t *testing.T) {
	client, _ := newRedis(t)
	store := NewRedisTokenStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "hash-2", account.OneTimeToken{Email: "bob@example.com", Type: account.LinkTypeMagicLink}, time.Hour))

	_, err := store.Consume(ctx, "hash-2", account.LinkTypeSignup)
	assert.ErrorIs(t, err, account.ErrInvalidToken)

	// "email" chấp nhận mọi type
	tok, err := store.Consume(ctx, "hash-2", account.LinkTypeEmail)
	require.NoError(t, err)
	assert.Equal(t, account.LinkTypeMagicLink, tok.Type)
}

func TestTokenStore_Expired(t *testing.T) {
	client, mr := newRedis(t)
	store := NewRedisTokenStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "hash-3", account.OneTimeToken{Email: "c@example.com", Type: account.LinkTypeSignup}, time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := store.Consume(ctx, "hash-3", account.LinkTypeSignup)
	assert.ErrorIs(t, err, account.ErrInvalidToken)
}

func TestTokenStore_DoesNotStorePlainHash(t *testing.T) {
	client, mr := newRedis(t)
	store := NewRedisTokenStore(client)

	require.NoError(t, store.Save(context.Background(), "plain-hash", account.OneTimeToken{Email: "d@example.com", Type: account.LinkTypeSignup}, time.Hour))

	assert.False(t, mr.Exists(tokenKeyPrefix+"plain-hash"))
	assert.True(t, mr.Exists(tokenKey("plain-hash")))
}

func TestTokenStore_ConcurrentConsumeHasSingleWinner(t *testing.T) {
	client, _ := newRedis(t)
	store := NewRedisTokenStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "race", account.OneTimeToken{Email: "e@example.com", Type: account.LinkTypeSignup}, time.Hour))

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.Consume(ctx, "race", account.LinkTypeSignup); err == nil {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins)
}

func TestSessionStore_Revoke(t *testing.T) {
	client, mr := newRedis(t)
	store := NewRedisSessionStore(client)
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Minute))
	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Minute)
	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}
