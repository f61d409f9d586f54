package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"confession-backend/internal/domains/account"
)

const tokenKeyPrefix = "otp:"

type redisTokenStore struct {
	client *redis.Client
}

func NewRedisTokenStore(client *redis.Client) account.TokenStore {
	return &redisTokenStore{client: client}
}

// tokenKey không lưu token_hash dạng plain trong redis
func tokenKey(tokenHash string) string {
	sum := sha256.Sum256([]byte(tokenHash))
	return tokenKeyPrefix + hex.EncodeToString(sum[:])
}

func (s *redisTokenStore) Save(ctx context.Context, tokenHash string, token account.OneTimeToken, ttl time.Duration) error {
	raw, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("marshal one-time token: %w", err)
	}

	// NX: không ghi đè token đang tồn tại
	ok, err := s.client.SetNX(ctx, tokenKey(tokenHash), raw, ttl).Result()
	if err != nil {
		return fmt.Errorf("save one-time token: %w", err)
	}
	if !ok {
		return fmt.Errorf("save one-time token: key collision")
	}
	return nil
}

func (s *redisTokenStore) Consume(ctx context.Context, tokenHash string, linkType account.LinkType) (*account.OneTimeToken, error) {
	key := tokenKey(tokenHash)

	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, account.ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("load one-time token: %w", err)
	}

	var token account.OneTimeToken
	if err := json.Unmarshal(raw, &token); err != nil {
		return nil, fmt.Errorf("decode one-time token: %w", err)
	}

	if !linkType.Accepts(token.Type) {
		return nil, account.ErrInvalidToken
	}

	// DEL trả về số key đã xóa; chỉ request xóa được key mới thắng
	deleted, err := s.client.Del(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("consume one-time token: %w", err)
	}
	if deleted == 0 {
		return nil, account.ErrInvalidToken
	}

	return &token, nil
}
