package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"careerpath/career-advisor/internal/logger"
)

// RateDecision is the outcome of one Allow call.
type RateDecision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

type RateLimiter interface {
	Allow(ctx context.Context, key string) (RateDecision, error)
}

type redisRateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
}

// NewRedisRateLimiter counts requests per key in fixed windows of length window.
func NewRedisRateLimiter(client *redis.Client, limit int, window time.Duration) RateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &redisRateLimiter{
		client: client,
		limit:  limit,
		window: window,
		prefix: "ratelimit:analyze:",
	}
}

// Allow implements RateLimiter. The counter expires with its window. A limit of zero or less
// disables limiting.
func (r *redisRateLimiter) Allow(ctx context.Context, key string) (RateDecision, error) {
	if r.limit <= 0 {
		return RateDecision{Allowed: true}, nil
	}

	redisKey := r.prefix + key
	var incr *redis.IntCmd
	// EXPIRE NX runs with every INCR so a counter left without a TTL still gets one.
	if _, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.ExpireNX(ctx, redisKey, r.window)
		return nil
	}); err != nil {
		return RateDecision{}, fmt.Errorf("failed to update rate limit counter: %w", err)
	}

	count := int(incr.Val())
	if count > r.limit {
		retry, err := r.client.PTTL(ctx, redisKey).Result()
		if err != nil || retry <= 0 {
			retry = r.window
		}
		logger.Warn().Str("key", key).Int("count", count).Msg("⚠️ Rate limit exceeded")
		return RateDecision{Allowed: false, RetryAfter: retry}, nil
	}

	return RateDecision{Allowed: true, Remaining: r.limit - count}, nil
}
