package safety

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// RateLimiter implements token bucket rate limiting
type RateLimiter struct {
	capacity   int        // Maximum number of tokens
	tokens     int        // Current number of tokens
	refillRate int        // Tokens added per second
	lastRefill time.Time  // Last time tokens were added
	mutex      sync.Mutex // Protects token count
	name       string
	now        func() time.Time
}

// NewRateLimiter creates a new rate limiter that starts full
func NewRateLimiter(name string, capacity, refillRate int) *RateLimiter {
	if capacity <= 0 {
		capacity = 1
	}
	if refillRate <= 0 {
		refillRate = 1
	}
	return &RateLimiter{
		capacity:   capacity,
		tokens:     capacity,
		refillRate: refillRate,
		lastRefill: time.Now(),
		name:       name,
		now:        time.Now,
	}
}

// AllowN takes n tokens if they are available
func (rl *RateLimiter) AllowN(n int) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	rl.refillTokens()

	if rl.tokens >= n {
		rl.tokens -= n
		return true
	}

	return false
}

// WaitN blocks until n tokens are taken or ctx is done. Requests larger than
// the bucket are clamped to its capacity.
func (rl *RateLimiter) WaitN(ctx context.Context, n int) error {
	if n > rl.capacity {
		n = rl.capacity
	}
	for {
		if rl.AllowN(n) {
			return nil
		}

		timer := time.NewTimer(rl.calculateWaitTime(n))
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%s: %w", rl.name, ctx.Err())
		case <-timer.C:
		}
	}
}

// refillTokens adds whole tokens for every full second elapsed. Caller holds the mutex.
func (rl *RateLimiter) refillTokens() {
	now := rl.now()
	elapsed := now.Sub(rl.lastRefill)

	if elapsed < time.Second {
		return
	}

	tokensToAdd := int(elapsed.Seconds()) * rl.refillRate
	if tokensToAdd > 0 {
		rl.tokens += tokensToAdd
		if rl.tokens > rl.capacity {
			rl.tokens = rl.capacity
		}
		rl.lastRefill = now
	}
}

func (rl *RateLimiter) calculateWaitTime(n int) time.Duration {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	rl.refillTokens()

	if rl.tokens >= n {
		return 0
	}

	tokensNeeded := n - rl.tokens
	secondsToWait := float64(tokensNeeded) / float64(rl.refillRate)

	// small buffer for timer precision
	return time.Duration(secondsToWait*1000+100) * time.Millisecond
}
