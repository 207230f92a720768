package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// fixed window: the first hit in a window sets its expiry
const fixedWindowScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

// RedisLimiter is a fixed-window counter shared by every API instance.
type RedisLimiter struct {
	client  redis.Scripter
	limit   int
	window  time.Duration
	prefix  string
	timeout time.Duration
	script  *redis.Script
}

// NewRedisLimiter builds a limiter allowing limit actions per window and key.
func NewRedisLimiter(client redis.Scripter, limit int, window time.Duration, prefix string) *RedisLimiter {
	return &RedisLimiter{
		client:  client,
		limit:   limit,
		window:  window,
		prefix:  prefix,
		timeout: 250 * time.Millisecond,
		script:  redis.NewScript(fixedWindowScript),
	}
}

// Allow runs the counter script. Redis failures are returned to the caller,
// which decides whether to fail open.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if l == nil || l.client == nil || l.limit <= 0 || l.window <= 0 || key == "" {
		return true, nil
	}

	redisKey := key
	if l.prefix != "" {
		redisKey = l.prefix + ":" + key
	}
	ttl := l.window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	allowed, err := l.script.Run(ctx, l.client, []string{redisKey}, ttl, l.limit).Int64()
	if err != nil {
		return true, fmt.Errorf("rate limit script: %w", err)
	}
	return allowed == 1, nil
}
