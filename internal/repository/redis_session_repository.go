package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/dsa-enrollment-api/internal/models"
	appErrors "github.com/noah-isme/dsa-enrollment-api/pkg/errors"
)

// RedisSessionRepository stores form sessions in Redis with a sliding TTL.
type RedisSessionRepository struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisSessionRepository constructs a Redis-backed session store.
func NewRedisSessionRepository(client *redis.Client, prefix string, ttl time.Duration, logger *zap.Logger) *RedisSessionRepository {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisSessionRepository{client: client, prefix: prefix, ttl: ttl, logger: logger}
}

func (r *RedisSessionRepository) key(kind models.FormKind, id string) string {
	return r.prefix + sessionKey(kind, id)
}

// Get loads a session into dest. Missing or expired sessions yield ErrCacheMiss.
func (r *RedisSessionRepository) Get(ctx context.Context, kind models.FormKind, id string, dest interface{}) error {
	key := r.key(kind, id)
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return appErrors.ErrCacheMiss
		}
		return fmt.Errorf("redis get %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unmarshal session %s: %w", key, err)
	}
	return nil
}

// Save stores value and refreshes its expiry.
func (r *RedisSessionRepository) Save(ctx context.Context, kind models.FormKind, id string, value interface{}) error {
	key := r.key(kind, id)
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", key, err)
	}

	if err := r.client.Set(ctx, key, payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (r *RedisSessionRepository) Close() error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Close(); err != nil {
		r.logger.Warn("closing redis session store", zap.Error(err))
		return err
	}
	return nil
}
