package api

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type redisRateCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

func incrWithTTL(ctx context.Context, client redisRateCounter, key string, ttl time.Duration) (int64, error) {
	count, err := client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		_ = client.Expire(ctx, key, ttl).Err()
	}
	return count, nil
}

const idempotencyKeyPrefix = "idem:create:"
const idempotencyKeyTTL = 24 * time.Hour

// ensureIdempotent reserves the optional X-Request-ID header so a double-
// submitted create does not insert twice. A replay is answered 409. Without
// the header creates stay at-least-once, as they always were.
func ensureIdempotent(c *gin.Context, client redis.UniversalClient) bool {
	requestID := strings.TrimSpace(c.GetHeader("X-Request-ID"))
	if requestID == "" || client == nil {
		return true
	}

	key := idempotencyKeyPrefix + requestID
	claimed, err := client.SetNX(c.Request.Context(), key, "1", idempotencyKeyTTL).Result()
	if err != nil {
		// Degrade to at-least-once rather than blocking writes on redis.
		return true
	}
	if !claimed {
		Conflict(c, "duplicate request")
		return false
	}
	return true
}
