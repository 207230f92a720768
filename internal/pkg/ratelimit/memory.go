package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryLimiter keeps one token bucket per key inside the process.
// Idle buckets are pruned lazily on access.
type MemoryLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     rate.Limit
	burst    int
	idleTTL  time.Duration
	lastGC   time.Time
	now      func() time.Time
}

// NewMemoryLimiter allows perSecond actions per key with the given burst.
func NewMemoryLimiter(perSecond float64, burst int) *MemoryLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &MemoryLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate.Limit(perSecond),
		burst:    burst,
		idleTTL:  10 * time.Minute,
		now:      time.Now,
	}
}

// Allow consumes one token for key.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.pruneLocked(now)

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1), nil
}

func (l *MemoryLimiter) pruneLocked(now time.Time) {
	if now.Sub(l.lastGC) < l.idleTTL {
		return
	}
	for key, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.idleTTL {
			delete(l.visitors, key)
		}
	}
	l.lastGC = now
}

// Len reports how many keys are tracked.
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}
