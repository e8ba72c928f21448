package factory

import (
	"context"
	"time"

	"github.com/akeren/go-waitlist-api/pkg/ratelimit"
	"github.com/go-redis/redis/v8"
)

type RedisClientProvider interface {
	GetClient() *redis.Client
}

type RateLimiterFactory interface {
	CreateRateLimiter(requests int, window time.Duration) ratelimit.RateLimiter
	UsesRedis() bool
}

// DefaultRateLimiterFactory builds every limiter of the process against the
// same backend so per-endpoint limits share the Redis connection when present.
type DefaultRateLimiterFactory struct {
	redisClient *redis.Client
	logger      ratelimit.Logger
}

// NewDefaultRateLimiterFactory probes the Redis client once; an unreachable
// Redis results in in-memory limiters.
func NewDefaultRateLimiterFactory(cache any, logger ratelimit.Logger) *DefaultRateLimiterFactory {
	var redisClient *redis.Client
	if provider, ok := cache.(RedisClientProvider); ok && provider != nil {
		redisClient = provider.GetClient()
	}

	if redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			if logger != nil {
				logger.Warn("Failed to connect to Redis for rate limiting, falling back to in-memory", "error", err)
			}
			redisClient = nil
		}
	}

	return &DefaultRateLimiterFactory{
		redisClient: redisClient,
		logger:      logger,
	}
}

func (f *DefaultRateLimiterFactory) CreateRateLimiter(requests int, window time.Duration) ratelimit.RateLimiter {
	return ratelimit.NewRateLimiter(&ratelimit.RateLimitConfig{
		Requests: requests,
		Window:   window,
		Redis:    f.redisClient,
		Logger:   f.logger,
	})
}

func (f *DefaultRateLimiterFactory) UsesRedis() bool {
	return f.redisClient != nil
}
