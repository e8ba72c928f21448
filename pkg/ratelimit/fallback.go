package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/akeren/go-waitlist-api/pkg/circuitbreaker"
)

// FallbackRateLimiter consults the primary limiter through a circuit breaker
// and answers from the fallback limiter while the circuit is open or the
// primary errors.
type FallbackRateLimiter struct {
	primary  RateLimiter
	fallback RateLimiter
	breaker  circuitbreaker.CircuitBreaker
	logger   Logger
}

func NewFallbackRateLimiter(primary, fallback RateLimiter, logger Logger, breakerConfig *circuitbreaker.Config) *FallbackRateLimiter {
	if breakerConfig == nil {
		breakerConfig = circuitbreaker.DefaultConfig()
	}

	if logger != nil && breakerConfig.OnStateChange == nil {
		breakerConfig.OnStateChange = func(from, to circuitbreaker.CircuitState) {
			logger.Warn("Rate limiter circuit changed state", "from", from.String(), "to", to.String())
		}
	}

	return &FallbackRateLimiter{
		primary:  primary,
		fallback: fallback,
		breaker:  circuitbreaker.NewCircuitBreaker(breakerConfig),
		logger:   logger,
	}
}

func (f *FallbackRateLimiter) GetLimitDetails() (int, time.Duration) {
	return f.primary.GetLimitDetails()
}

func (f *FallbackRateLimiter) IsLimited(ctx context.Context, key string) (bool, error) {
	var limited bool

	err := f.breaker.Call(func() error {
		var callErr error
		limited, callErr = f.primary.IsLimited(ctx, key)
		return callErr
	})
	if err == nil {
		return limited, nil
	}

	if f.logger != nil && !errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		f.logger.Warn("Primary rate limiter failed; using fallback", "error", err)
	}

	return f.fallback.IsLimited(ctx, key)
}

func (f *FallbackRateLimiter) Close() error {
	return errors.Join(f.primary.Close(), f.fallback.Close())
}
