package ratelimit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLimiterFixedWindow(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	require.NoError(t, client.Ping(ctx).Err())

	l := NewRedisLimiter(client, 2, 300*time.Millisecond, "vacantes-test:"+uuid.NewString())
	key := "msg:STUDENT:1"

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, key)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := l.Allow(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.Eventually(t, func() bool {
		ok, err := l.Allow(ctx, key)
		return err == nil && ok
	}, 2*time.Second, 50*time.Millisecond, "window expires")
}

func TestRedisLimiterReportsUnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	l := NewRedisLimiter(client, 1, time.Minute, "vacantes-test")
	ok, err := l.Allow(context.Background(), "msg:STUDENT:1")
	assert.Error(t, err)
	assert.True(t, ok, "callers may fail open")
}

func TestRedisLimiterDisabledSettings(t *testing.T) {
	ok, err := NewRedisLimiter(nil, 1, time.Minute, "").Allow(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, ok)
}
