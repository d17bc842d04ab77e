package videosource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(5, 2)
	require.NotNil(t, limiter)
	assert.InDelta(t, 2, limiter.Tokens(), 0.1)
}

func TestRateLimiter_Allow(t *testing.T) {
	t.Run("allows within burst", func(t *testing.T) {
		limiter := NewRateLimiter(1, 2)

		assert.True(t, limiter.Allow())
		assert.True(t, limiter.Allow())
		assert.False(t, limiter.Allow())
	})
}

func TestRateLimiter_Wait(t *testing.T) {
	t.Run("returns immediately when tokens available", func(t *testing.T) {
		limiter := NewRateLimiter(100, 1)

		start := time.Now()
		err := limiter.Wait(context.Background())
		require.NoError(t, err)
		assert.Less(t, time.Since(start), 100*time.Millisecond)
	})

	t.Run("returns error on canceled context", func(t *testing.T) {
		limiter := NewRateLimiter(0.1, 1)
		limiter.Allow() // drain the bucket

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := limiter.Wait(ctx)
		assert.Error(t, err)
	})
}

func TestRateLimiter_SetRate(t *testing.T) {
	limiter := NewRateLimiter(1, 1)
	limiter.SetRate(50)

	limiter.Allow() // drain

	start := time.Now()
	err := limiter.Wait(context.Background())
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}
