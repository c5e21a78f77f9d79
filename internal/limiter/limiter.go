// Package limiter defines interfaces and implementations for login rate limiting.
package limiter

import (
	"context"
	"time"
)

// Limiter throttles login attempts per client address. Identity is not known
// before the code exchange, so the key is the address alone.
type Limiter interface {
	// Allow reports whether a login attempt is currently allowed and an
	// optional retry-after.
	Allow(ctx context.Context, ipHash string) (bool, time.Duration, error)
	// Success resets counters after a successful login.
	Success(ctx context.Context, ipHash string) error
	// Failure records a failed attempt; may place a temporary block.
	Failure(ctx context.Context, ipHash string) (bool, time.Duration, error)
}
