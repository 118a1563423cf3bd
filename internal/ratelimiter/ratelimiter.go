// Package ratelimiter provides token-bucket throttling for the
// scenario runner, so scripted workloads can be paced at a configured
// sustained operation rate instead of running flat out.
package ratelimiter

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter wraps golang.org/x/time/rate with the treefs defaults:
// a sustained operations-per-second rate plus a burst capacity, with
// zero meaning unlimited.
//
// All methods are safe for concurrent use.
type RateLimiter struct {
	limiter *rate.Limiter
}

// New creates a RateLimiter allowing opsPerSecond sustained operations
// with the given burst capacity (bucket size). A zero opsPerSecond
// disables limiting entirely; a zero burst with a nonzero rate allows
// no burst above the sustained rate.
func New(opsPerSecond, burst uint) *RateLimiter {
	if opsPerSecond == 0 {
		return &RateLimiter{limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	if burst == 0 {
		burst = 1
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(opsPerSecond), int(burst)),
	}
}

// Allow reports whether one operation may proceed right now, consuming
// a token if so. It never blocks; use it to reject rather than pace.
func (r *RateLimiter) Allow() bool {
	return r.limiter.Allow()
}

// Wait blocks until a token is available or the context is cancelled,
// returning the context's error in the latter case. Use it to pace
// operations rather than reject them.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}

// Tokens returns the current number of available tokens, which may be
// fractional and may change immediately after the call. Useful for
// monitoring only.
func (r *RateLimiter) Tokens() float64 {
	return r.limiter.Tokens()
}
