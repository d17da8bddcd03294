package worker

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Throttle enforces a regeneration floor per transcript path. Watch mode
// uses it so a hot-looping editor save cannot make the generator spin on one
// file, while edits to other files still regenerate immediately.
type Throttle struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	interval time.Duration
}

// NewThrottle creates a throttle allowing one regeneration per minInterval
// for each distinct path.
func NewThrottle(minInterval time.Duration) *Throttle {
	if minInterval <= 0 {
		minInterval = time.Second
	}

	return &Throttle{
		limiters: make(map[string]*rate.Limiter),
		interval: minInterval,
	}
}

// Wait blocks until path may regenerate or ctx is done.
func (t *Throttle) Wait(ctx context.Context, path string) error {
	return t.getLimiter(path).Wait(ctx)
}

// Allow reports whether path may regenerate right now without blocking.
func (t *Throttle) Allow(path string) bool {
	return t.getLimiter(path).Allow()
}

// getLimiter returns the limiter for a path
func (t *Throttle) getLimiter(path string) *rate.Limiter {
	t.mu.RLock()
	limiter, exists := t.limiters[path]
	t.mu.RUnlock()

	if exists {
		return limiter
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := t.limiters[path]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(rate.Every(t.interval), 1)
	t.limiters[path] = limiter

	return limiter
}
