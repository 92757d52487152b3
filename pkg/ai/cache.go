package ai

import (
	"sync"
	"time"
)

type cacheEntry struct {
	value   string
	expires time.Time
}

// SettingsCache is a TTL key/value cache for admin-managed AI settings.
// One instance is constructed at startup and shared; the clock is injected
// so tests can advance time without sleeping.
type SettingsCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

func NewSettingsCache(ttl time.Duration, now func() time.Time) *SettingsCache {
	if now == nil {
		now = time.Now
	}
	return &SettingsCache{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the cached value for key, or false when absent or expired.
// Expired entries are removed on access.
func (c *SettingsCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if c.now().After(e.expires) {
		delete(c.entries, key)
		return "", false
	}
	return e.value, true
}

func (c *SettingsCache) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value, expires: c.now().Add(c.ttl)}
}

func (c *SettingsCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}
