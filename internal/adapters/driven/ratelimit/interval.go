// Package ratelimit spaces out calls to rate-limited remote APIs.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/lpdp-faq/internal/core/ports/driven"
	"github.com/custodia-labs/lpdp-faq/internal/logger"
)

// DefaultRequestsPerMinute matches the free-tier generation quota.
const DefaultRequestsPerMinute = 5

var _ driven.RateLimiter = (*IntervalLimiter)(nil)

// IntervalLimiter admits one call at a time with at least Interval between
// consecutive admitted calls. The first call is admitted immediately.
//
// It is safe for concurrent use: the underlying token bucket has a burst of
// one, so reservations made by concurrent callers are serialised exactly
// one interval apart.
type IntervalLimiter struct {
	mu       sync.Mutex
	limiter  *rate.Limiter
	interval time.Duration
	lastCall time.Time
}

// NewIntervalLimiter creates a limiter allowing requestsPerMinute calls per
// minute. Non-positive values fall back to DefaultRequestsPerMinute.
func NewIntervalLimiter(requestsPerMinute int) *IntervalLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = DefaultRequestsPerMinute
	}
	return NewWithInterval(time.Minute / time.Duration(requestsPerMinute))
}

// NewWithInterval creates a limiter with an explicit minimum interval.
func NewWithInterval(interval time.Duration) *IntervalLimiter {
	return &IntervalLimiter{
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
		interval: interval,
	}
}

// Wait blocks until the interval since the previous admitted call has
// elapsed. A cancelled wait gives its slot back.
func (l *IntervalLimiter) Wait(ctx context.Context) error {
	r := l.limiter.Reserve()
	if delay := r.Delay(); delay > 0 {
		logger.Info("Rate limiting: waiting %.1fs", delay.Seconds())

		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			r.Cancel()
			return ctx.Err()
		case <-timer.C:
		}
	}

	l.mu.Lock()
	l.lastCall = time.Now()
	l.mu.Unlock()
	return nil
}

// Interval returns the minimum spacing between admitted calls.
func (l *IntervalLimiter) Interval() time.Duration {
	return l.interval
}

// LastCall returns when the most recent call was admitted, or the zero time.
func (l *IntervalLimiter) LastCall() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastCall
}
