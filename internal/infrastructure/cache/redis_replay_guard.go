package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/domain/shared"
)

// RedisReplayGuard implements shared.ReplayGuard using Redis.
// Payment return callbacks carry a gateway transaction reference; the guard
// remembers handled references so a replayed redirect cannot complete the
// same order twice. Suitable for multi-instance deployments.
type RedisReplayGuard struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisReplayGuard creates a guard backed by an existing Redis client
func NewRedisReplayGuard(client *redis.Client, keyPrefix string) *RedisReplayGuard {
	if keyPrefix == "" {
		keyPrefix = "payment:return:"
	}
	return &RedisReplayGuard{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// MarkProcessed implements shared.ReplayGuard.
// Uses SETNX so checking and marking happen in one atomic operation.
func (g *RedisReplayGuard) MarkProcessed(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	key := g.keyPrefix + id

	result, err := g.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark payment return as processed: %w", err)
	}

	return result, nil
}

var _ shared.ReplayGuard = (*RedisReplayGuard)(nil)
