package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiterBurstThenDeny(t *testing.T) {
	l := NewMemoryLimiter(0.001, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "msg:STUDENT:1")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, _ := l.Allow(ctx, "msg:STUDENT:1")
	assert.False(t, ok)

	ok, _ = l.Allow(ctx, "msg:STUDENT:2")
	assert.True(t, ok, "keys are independent")
}

func TestMemoryLimiterPrunesIdleKeys(t *testing.T) {
	l := NewMemoryLimiter(1, 1)
	current := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return current }

	_, _ = l.Allow(context.Background(), "a")
	_, _ = l.Allow(context.Background(), "b")
	assert.Equal(t, 2, l.Len())

	current = current.Add(time.Hour)
	_, _ = l.Allow(context.Background(), "c")
	assert.Equal(t, 1, l.Len())
}

func TestRedisLimiterWithoutClientAllows(t *testing.T) {
	l := NewRedisLimiter(nil, 5, time.Minute, "vacantes")
	ok, err := l.Allow(context.Background(), "msg:PROFESSOR:3")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = Noop{}.Allow(context.Background(), "x")
	assert.True(t, ok)
}
