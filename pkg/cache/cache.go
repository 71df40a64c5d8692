// Package cache memoizes the task listing for a short window.
package cache

import (
	"sync"
	"time"
)

// Clock returns the current time. Tests swap it for a fixed clock.
type Clock func() time.Time

// TTL holds a single value for a fixed duration after it was stored.
type TTL[T any] struct {
	ttl   time.Duration
	now   Clock
	mu    sync.RWMutex
	value T
	at    time.Time
	valid bool
}

// NewTTL returns an empty cache. A nil clock means time.Now; a ttl <= 0
// disables caching entirely.
func NewTTL[T any](ttl time.Duration, now Clock) *TTL[T] {
	if now == nil {
		now = time.Now
	}
	return &TTL[T]{ttl: ttl, now: now}
}

// Get returns the cached value if it is still fresh.
func (c *TTL[T]) Get() (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var zero T
	if !c.valid || c.ttl <= 0 {
		return zero, false
	}
	if c.now().Sub(c.at) >= c.ttl {
		return zero, false
	}
	return c.value, true
}

// Set stores value and restarts the window.
func (c *TTL[T]) Set(value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = value
	c.at = c.now()
	c.valid = true
}

// Invalidate drops the cached value.
func (c *TTL[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	c.value = zero
	c.valid = false
}
