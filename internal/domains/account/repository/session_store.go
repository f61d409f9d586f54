package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"confession-backend/internal/domains/account"
)

const revokedSessionPrefix = "session:revoked:"

type redisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) account.SessionStore {
	return &redisSessionStore{client: client}
}

// Revoke giữ jti trong redis tới khi token tự hết hạn
func (s *redisSessionStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, revokedSessionPrefix+jti, 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (s *redisSessionStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedSessionPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("check revoked session: %w", err)
	}
	return n > 0, nil
}
