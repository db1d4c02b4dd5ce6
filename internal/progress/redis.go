package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultTTL keeps abandoned checkouts around long enough for a user to come
// back, without accumulating records forever.
const DefaultTTL = 7 * 24 * time.Hour

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewRedisStore(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl, log: log}
}

func progressKey(userID int64) string {
	return fmt.Sprintf("checkout:progress:%d", userID)
}

func (s *RedisStore) Load(ctx context.Context, userID int64) (Progress, error) {
	data, err := s.client.Get(ctx, progressKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Default(), ErrNotFound
	}
	if err != nil {
		return Default(), fmt.Errorf("redis get failed: %w", err)
	}

	var p Progress
	if err := json.Unmarshal(data, &p); err != nil {
		// Corrupt record: start over rather than wedge the session.
		s.log.Warn("discarding unreadable checkout progress",
			zap.Int64("user_id", userID),
			zap.Error(err))
		return Default(), nil
	}
	if !p.Step.Valid() {
		s.log.Warn("discarding checkout progress with invalid step",
			zap.Int64("user_id", userID),
			zap.Int("step", int(p.Step)))
		return Default(), nil
	}
	return p, nil
}

func (s *RedisStore) Save(ctx context.Context, userID int64, p Progress) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal progress failed: %w", err)
	}
	if err := s.client.Set(ctx, progressKey(userID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, userID int64) error {
	if err := s.client.Del(ctx, progressKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}
