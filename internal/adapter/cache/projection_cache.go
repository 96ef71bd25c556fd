package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"cadence/internal/core/domain"
	"cadence/internal/core/ports"
)

const projectionTTL = 5 * time.Minute

// ProjectionCache keeps serialized schedule projections in redis, keyed
// per user and date range. It is strictly best-effort: any redis error
// degrades to a recompute, never to a request failure.
type ProjectionCache struct {
	client *redis.Client
}

func NewProjectionCache(client *redis.Client) *ProjectionCache {
	return &ProjectionCache{client: client}
}

var _ ports.ProjectionCache = (*ProjectionCache)(nil)

func (c *ProjectionCache) Get(ctx context.Context, userID string, start, end domain.Date) ([]byte, bool) {
	payload, err := c.client.Get(ctx, projectionKey(userID, start, end)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		zap.L().Debug("projection cache read failed", zap.Error(err))
		return nil, false
	}
	return payload, true
}

func (c *ProjectionCache) Set(ctx context.Context, userID string, start, end domain.Date, payload []byte) {
	if err := c.client.Set(ctx, projectionKey(userID, start, end), payload, projectionTTL).Err(); err != nil {
		zap.L().Debug("projection cache write failed", zap.Error(err))
	}
}

// Invalidate drops every cached range for the user. Mutations don't
// know which ranges a client has viewed, so all of them go.
func (c *ProjectionCache) Invalidate(ctx context.Context, userID string) {
	pattern := fmt.Sprintf("proj:%s:*", userID)
	keys, err := c.client.Keys(ctx, pattern).Result()
	if err != nil {
		zap.L().Debug("projection cache scan failed", zap.Error(err))
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		zap.L().Debug("projection cache invalidation failed", zap.Error(err))
	}
}

func projectionKey(userID string, start, end domain.Date) string {
	return fmt.Sprintf("proj:%s:%s:%s", userID, start.Key(), end.Key())
}
