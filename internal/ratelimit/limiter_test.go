package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, limit int, window time.Duration) (*Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewLimiterWithConfig(client, limit, window), mr
}

func TestLimiterUnderLimit(t *testing.T) {
	limiter, _ := newTestLimiter(t, 3, time.Minute)
	ctx := context.Background()

	exceeded, err := limiter.CheckIPRateLimitWithPurpose(ctx, "10.0.0.1", "login")
	require.NoError(t, err)
	assert.False(t, exceeded, "fresh IP must not be limited")

	require.NoError(t, limiter.RecordIPRequestWithPurpose(ctx, "10.0.0.1", "login"))
	require.NoError(t, limiter.RecordIPRequestWithPurpose(ctx, "10.0.0.1", "login"))

	exceeded, err = limiter.CheckIPRateLimitWithPurpose(ctx, "10.0.0.1", "login")
	require.NoError(t, err)
	assert.False(t, exceeded)
}

func TestLimiterAtLimit(t *testing.T) {
	limiter, _ := newTestLimiter(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.RecordIPRequestWithPurpose(ctx, "10.0.0.2", "register"))
	}

	exceeded, err := limiter.CheckIPRateLimitWithPurpose(ctx, "10.0.0.2", "register")
	require.NoError(t, err)
	assert.True(t, exceeded)
}

func TestLimiterScopedByPurposeAndIP(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	require.NoError(t, limiter.RecordIPRequestWithPurpose(ctx, "10.0.0.3", "login"))

	exceeded, err := limiter.CheckIPRateLimitWithPurpose(ctx, "10.0.0.3", "login")
	require.NoError(t, err)
	assert.True(t, exceeded)

	// Same IP, different purpose.
	exceeded, err = limiter.CheckIPRateLimitWithPurpose(ctx, "10.0.0.3", "register")
	require.NoError(t, err)
	assert.False(t, exceeded)

	// Different IP, same purpose.
	exceeded, err = limiter.CheckIPRateLimitWithPurpose(ctx, "10.0.0.4", "login")
	require.NoError(t, err)
	assert.False(t, exceeded)
}

func TestLimiterWindowExpiry(t *testing.T) {
	limiter, mr := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	require.NoError(t, limiter.RecordIPRequestWithPurpose(ctx, "10.0.0.5", "login"))

	exceeded, err := limiter.CheckIPRateLimitWithPurpose(ctx, "10.0.0.5", "login")
	require.NoError(t, err)
	assert.True(t, exceeded)

	mr.FastForward(2 * time.Minute)

	exceeded, err = limiter.CheckIPRateLimitWithPurpose(ctx, "10.0.0.5", "login")
	require.NoError(t, err)
	assert.False(t, exceeded, "budget must reset after the window expires")
}
