package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig() *Config {
	return &Config{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Multiplier: 2}
}

func TestExponentialBackoff_SucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	retries := 0

	cfg := fastConfig()
	cfg.OnRetry = func(int, time.Duration, error) { retries++ }

	err := NewExponentialBackoff(cfg).Execute(context.Background(), func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 2, retries)
}

func TestExponentialBackoff_StopsOnPermanentError(t *testing.T) {
	attempts := 0
	permanent := errors.New("password authentication failed")

	err := NewExponentialBackoff(fastConfig()).Execute(context.Background(), func(context.Context) error {
		attempts++
		return permanent
	})

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, attempts)
	assert.False(t, IsMaxRetriesExceeded(err))
}

func TestExponentialBackoff_ExhaustsAttempts(t *testing.T) {
	transient := errors.New("i/o timeout")

	err := NewExponentialBackoff(fastConfig()).Execute(context.Background(), func(context.Context) error {
		return transient
	})

	assert.True(t, IsMaxRetriesExceeded(err))
	assert.ErrorIs(t, err, transient)
}

func TestExponentialBackoff_HonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := NewExponentialBackoff(fastConfig()).Execute(ctx, func(context.Context) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestCalculateDelay_CapsAtMaxDelay(t *testing.T) {
	eb := NewExponentialBackoff(&Config{MaxAttempts: 10, BaseDelay: time.Second, MaxDelay: 3 * time.Second, Multiplier: 2})

	assert.Equal(t, time.Second, eb.calculateDelay(1))
	assert.Equal(t, 2*time.Second, eb.calculateDelay(2))
	assert.Equal(t, 3*time.Second, eb.calculateDelay(3))
	assert.Equal(t, 3*time.Second, eb.calculateDelay(8))
}
