package ratelimit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/quoteflow/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDisabledLimiterAllowsEverything(t *testing.T) {
	l, err := NewQuoteSubmitLimiter(nil, config.Config{}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, l.Enabled())

	res, err := l.AllowClient(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	lease, ok, err := l.TryLockSession(context.Background(), "1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, lease.Held())
	assert.NoError(t, l.ReleaseSession(context.Background(), lease))

	var nilLimiter *QuoteSubmitLimiter
	assert.False(t, nilLimiter.Enabled())
}

func TestEnabledLimiterValidatesConfig(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.RateLimitConfig
	}{
		{"missing addr", config.RateLimitConfig{Enabled: true, QuoteSubmitRate: 1, QuoteSubmitBurst: 1, QuoteSubmitLockTTLSecs: 1}},
		{"zero rate", config.RateLimitConfig{Enabled: true, RedisAddr: "localhost:6379", QuoteSubmitBurst: 1, QuoteSubmitLockTTLSecs: 1}},
		{"zero burst", config.RateLimitConfig{Enabled: true, RedisAddr: "localhost:6379", QuoteSubmitRate: 1, QuoteSubmitLockTTLSecs: 1}},
		{"zero lock ttl", config.RateLimitConfig{Enabled: true, RedisAddr: "localhost:6379", QuoteSubmitRate: 1, QuoteSubmitBurst: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewQuoteSubmitLimiter(nil, config.Config{RateLimit: tc.cfg}, zap.NewNop())
			assert.Error(t, err)
		})
	}
}

func TestBuildResultRetryAfter(t *testing.T) {
	res := buildResult(false, 0.5, 1_000, 0.25, 3)
	assert.False(t, res.Allowed)
	assert.Equal(t, 2*time.Second, res.RetryAfter)
	assert.Equal(t, 3, res.Limit)

	ok := buildResult(true, 2, 1_000, 0.25, 3)
	assert.Zero(t, ok.RetryAfter)
	assert.Equal(t, 2, ok.Remaining)
}

func TestDefaultBucketTTL(t *testing.T) {
	assert.Equal(t, 30*time.Second, defaultBucketTTL(0.2, 3))
	assert.Equal(t, time.Second, defaultBucketTTL(100, 1))
	assert.Equal(t, time.Second, defaultBucketTTL(0, 0))
}

func TestCasts(t *testing.T) {
	assert.Equal(t, int64(1), castToInt(int64(1)))
	assert.Equal(t, int64(0), castToInt("x"))
	assert.Equal(t, 1.5, castToFloat("1.5"))
	assert.Equal(t, float64(2), castToFloat(int64(2)))
}

func TestZeroLeaseIsNotHeld(t *testing.T) {
	assert.False(t, Lease{}.Held())
	assert.False(t, Lease{Key: "k"}.Held())
	assert.True(t, Lease{Key: "k", Token: "t"}.Held())
}

func TestNilHelpersReportNotConfigured(t *testing.T) {
	var bucket *TokenBucket
	res, err := bucket.Allow(context.Background(), "k", 1, 1)
	assert.Error(t, err)
	assert.False(t, res.Allowed)

	var locker *Locker
	_, _, err = locker.TryLock(context.Background(), "k", time.Second)
	assert.ErrorIs(t, err, ErrLockNotConfigured)
	assert.NoError(t, locker.Release(context.Background(), Lease{Key: "k", Token: "t"}))
}

// Runs against a live redis when RATE_LIMIT_TEST_REDIS_ADDR is set.
func TestRedisBucketAndLock(t *testing.T) {
	addr := os.Getenv("RATE_LIMIT_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("RATE_LIMIT_TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	ctx := context.Background()

	key := "test:bucket:" + uuid.NewString()
	bucket := NewTokenBucket(client)
	for i := 0; i < 2; i++ {
		res, err := bucket.Allow(ctx, key, 0.01, 2)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
	}
	res, err := bucket.Allow(ctx, key, 0.01, 2)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Positive(t, res.RetryAfter)

	locker := NewLocker(client)
	lockKey := "test:lock:" + uuid.NewString()
	lease, ok, err := locker.TryLock(ctx, lockKey, 5*time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, lease.Held())

	_, ok, err = locker.TryLock(ctx, lockKey, 5*time.Second)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, locker.Release(ctx, Lease{Key: lockKey, Token: "stale"}))
	_, ok, err = locker.TryLock(ctx, lockKey, 5*time.Second)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, locker.Release(ctx, lease))
	_, ok, err = locker.TryLock(ctx, lockKey, 5*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}
