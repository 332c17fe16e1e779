package tmdb

import (
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// RateLimiter grants a fixed quota of permits per window, partitioned by an
// arbitrary key (a search query, a movie id, or a category token such as
// "discover"). It is a pure accounting structure: Consume never blocks and
// never schedules a retry. Idle keys expire with their window.
type RateLimiter struct {
	quota   int
	window  time.Duration
	mu      sync.Mutex
	buckets *gocache.Cache
}

// NewRateLimiter creates a limiter allowing quota permits per window per key
func NewRateLimiter(quota int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		quota:   quota,
		window:  window,
		buckets: gocache.New(window, 2*window),
	}
}

// Consume takes one permit for the key. Returns ErrTooManyRequests when the
// key's quota for the current window is already spent.
func (l *RateLimiter) Consume(key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	used, found := l.buckets.Get(key)
	if !found {
		l.buckets.Set(key, 1, gocache.DefaultExpiration)
		return nil
	}

	if used.(int) >= l.quota {
		return fmt.Errorf("quota of %d per %s exhausted for key %q: %w", l.quota, l.window, key, ErrTooManyRequests)
	}

	// IncrementInt keeps the expiration of the original Set, so the window
	// stays anchored to the key's first request
	if _, err := l.buckets.IncrementInt(key, 1); err != nil {
		// Entry expired between Get and Increment; start a fresh window
		l.buckets.Set(key, 1, gocache.DefaultExpiration)
	}
	return nil
}
