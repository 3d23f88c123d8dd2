package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/allisson/gatekeeper/internal/errors"
)

// redisExpiryGrace absorbs clock skew between instances sharing a counter.
const redisExpiryGrace = 5 * time.Second

// RedisCounterStore shares window counters between instances through Redis.
type RedisCounterStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisCounterStore creates a store whose keys are prefixed with keyPrefix
// (e.g. "gatekeeper:ratelimit:").
func NewRedisCounterStore(client redis.UniversalClient, keyPrefix string) *RedisCounterStore {
	return &RedisCounterStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Increment runs INCR and EXPIREAT in one MULTI/EXEC transaction.
func (r *RedisCounterStore) Increment(ctx context.Context, key string, expiresAt time.Time) (int64, error) {
	fullKey := r.keyPrefix + key

	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, fullKey)
		pipe.ExpireAt(ctx, fullKey, expiresAt.Add(redisExpiryGrace))
		return nil
	})
	if err != nil {
		return 0, apperrors.WrapStorage(err, "failed to increment rate limit counter")
	}
	return incr.Val(), nil
}

// Ping checks the Redis connection.
func (r *RedisCounterStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return apperrors.WrapStorage(err, "failed to ping redis")
	}
	return nil
}

// Close closes the underlying client.
func (r *RedisCounterStore) Close() error {
	return r.client.Close()
}
