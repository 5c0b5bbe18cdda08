package availability

import (
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// CachedChecker memoizes another Checker. The wrapped function is pure, so
// caching changes nothing observable; it only saves repeated hash or remote
// lookups when the same (participant, minute) pair is probed across days.
//
// Bounded mode (maxSize > 0) drops the whole cache when full rather than
// tracking recency: entries are request-scoped in practice and the reset is
// cheaper than bookkeeping.
type CachedChecker struct {
	mu      sync.RWMutex
	inner   Checker
	entries map[string]bool
	maxSize int
	size    atomic.Int64
}

// CacheOption applies a configuration option to the CachedChecker.
type CacheOption func(*CachedChecker)

// WithCacheSize bounds the number of memoized pairs. maxSize <= 0 means
// unbounded.
func WithCacheSize(maxSize int) CacheOption {
	return func(c *CachedChecker) {
		c.maxSize = maxSize
	}
}

// NewCachedChecker wraps inner with a memoizing layer.
func NewCachedChecker(inner Checker, opts ...CacheOption) *CachedChecker {
	c := &CachedChecker{
		inner:   inner,
		maxSize: 50000,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.entries = make(map[string]bool)
	return c
}

// IsAvailable returns the cached answer when present, otherwise consults the
// wrapped checker and records the result.
func (c *CachedChecker) IsAvailable(email string, slotStart time.Time) bool {
	key := cacheKey(email, slotStart)

	c.mu.RLock()
	v, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return v
	}

	v = c.inner.IsAvailable(email, slotStart)

	c.mu.Lock()
	if c.maxSize > 0 && len(c.entries) >= c.maxSize {
		c.entries = make(map[string]bool)
		c.size.Store(0)
	}
	if _, exists := c.entries[key]; !exists {
		c.entries[key] = v
		c.size.Add(1)
	}
	c.mu.Unlock()

	return v
}

// Size returns the current number of memoized pairs.
func (c *CachedChecker) Size() int64 {
	return c.size.Load()
}

func cacheKey(email string, slotStart time.Time) string {
	return strings.ToLower(strings.TrimSpace(email)) + "|" +
		strconv.FormatInt(slotStart.Truncate(time.Minute).Unix(), 10)
}
