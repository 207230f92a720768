// Package ratelimit throttles per-caller actions such as message sends.
package ratelimit

import "context"

// Limiter decides whether one more action under key is allowed right now.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Noop allows everything. Used when rate limiting is disabled.
type Noop struct{}

// Allow always returns true
func (Noop) Allow(context.Context, string) (bool, error) { return true, nil }
