package gallery

import (
	"sync"
	"time"

	"looma-api/internal/models"
)

// Cache is a TTL blob cache fronting library file reads. It is an explicit
// object injected into the Store so its lifetime and invalidation are
// visible to the owner, not tied to package initialization.
type Cache struct {
	entries         map[string]*models.CacheEntry
	mu              sync.RWMutex
	ttl             time.Duration
	cleanupInterval time.Duration
	done            chan struct{}
	stopOnce        sync.Once
}

func NewCache(ttl, cleanupInterval time.Duration) *Cache {
	c := &Cache{
		entries:         make(map[string]*models.CacheEntry),
		ttl:             ttl,
		cleanupInterval: cleanupInterval,
		done:            make(chan struct{}),
	}

	go c.cleanupExpired()

	return c
}

// Stop terminates the background cleanup goroutine. Safe to call more than
// once; the cache itself stays usable after stopping.
func (c *Cache) Stop() {
	c.stopOnce.Do(func() { close(c.done) })
}

// Get retrieves a cache entry by key, returning false if absent or expired.
func (c *Cache) Get(key string) (*models.CacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if entry.Expires.Before(time.Now()) {
		return nil, false
	}
	return entry, true
}

// Set stores a blob under key; it expires after the configured TTL.
func (c *Cache) Set(key string, data []byte, contentType string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &models.CacheEntry{
		Data:        data,
		ContentType: contentType,
		Expires:     time.Now().Add(c.ttl),
	}
}

// Flush drops every entry. Called when the library is reloaded.
func (c *Cache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*models.CacheEntry)
}

// Periodically removes expired entries. Runs in a background goroutine
// started by NewCache; exits on Stop.
func (c *Cache) cleanupExpired() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for k, v := range c.entries {
				if v.Expires.Before(now) {
					delete(c.entries, k)
				}
			}
			c.mu.Unlock()
		}
	}
}
