package tmdb

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestRateLimiterQuotaExhaustion(t *testing.T) {
	limiter := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if err := limiter.Consume("inception"); err != nil {
			t.Fatalf("Consume %d should succeed, got %v", i+1, err)
		}
	}

	err := limiter.Consume("inception")
	if err == nil {
		t.Fatal("Consume beyond quota should fail")
	}
	if !errors.Is(err, ErrTooManyRequests) {
		t.Errorf("Expected ErrTooManyRequests, got %v", err)
	}
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute)

	if err := limiter.Consume("alpha"); err != nil {
		t.Fatalf("First consume for alpha should succeed, got %v", err)
	}
	if err := limiter.Consume("alpha"); !errors.Is(err, ErrTooManyRequests) {
		t.Errorf("Second consume for alpha should be rejected, got %v", err)
	}

	// A different key has its own untouched quota
	if err := limiter.Consume("beta"); err != nil {
		t.Errorf("First consume for beta should succeed, got %v", err)
	}
}

func TestRateLimiterWindowExpiry(t *testing.T) {
	limiter := NewRateLimiter(1, 50*time.Millisecond)

	if err := limiter.Consume("discover"); err != nil {
		t.Fatalf("First consume should succeed, got %v", err)
	}
	if err := limiter.Consume("discover"); !errors.Is(err, ErrTooManyRequests) {
		t.Fatalf("Second consume in window should be rejected, got %v", err)
	}

	time.Sleep(60 * time.Millisecond)

	if err := limiter.Consume("discover"); err != nil {
		t.Errorf("Consume after window expiry should succeed, got %v", err)
	}
}

func TestRateLimiterConcurrentConsume(t *testing.T) {
	const quota = 50
	limiter := NewRateLimiter(quota, time.Minute)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		granted  int
		rejected int
	)

	for i := 0; i < 2*quota; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := limiter.Consume("shared")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				granted++
			} else {
				rejected++
			}
		}()
	}
	wg.Wait()

	if granted != quota {
		t.Errorf("Expected exactly %d grants, got %d", quota, granted)
	}
	if rejected != quota {
		t.Errorf("Expected exactly %d rejections, got %d", quota, rejected)
	}
}
