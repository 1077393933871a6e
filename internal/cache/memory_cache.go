package cache

import (
	"context"
	"path"
	"sync"
	"sync/atomic"
	"time"
)

// cacheItem represents an item in the memory cache
type cacheItem struct {
	value      []byte
	expiration time.Time
}

// MemoryCache implements Cache interface using in-memory storage
type MemoryCache struct {
	items         map[string]*cacheItem
	mutex         sync.RWMutex
	maxMemory     int64
	currentMemory int64
	hits          int64
	misses        int64
	evictions     int64
	cleanupDone   chan struct{}
	closeOnce     sync.Once
	config        *CacheConfig
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache(config *CacheConfig) *MemoryCache {
	if config == nil {
		config = DefaultCacheConfig()
	}

	cache := &MemoryCache{
		items:       make(map[string]*cacheItem),
		maxMemory:   config.MaxMemory,
		cleanupDone: make(chan struct{}),
		config:      config,
	}

	go cache.startCleanup()

	return cache
}

// Get retrieves a value from cache
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mutex.RLock()
	item, exists := c.items[key]
	c.mutex.RUnlock()

	if !exists {
		atomic.AddInt64(&c.misses, 1)
		return nil, ErrKeyNotFound
	}

	if time.Now().After(item.expiration) {
		atomic.AddInt64(&c.misses, 1)
		c.mutex.Lock()
		c.removeItem(key)
		c.mutex.Unlock()
		return nil, ErrKeyNotFound
	}

	atomic.AddInt64(&c.hits, 1)
	result := make([]byte, len(item.value))
	copy(result, item.value)
	return result, nil
}

// Set stores a value in cache with expiration
func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.config.TTL
	}

	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	newItem := &cacheItem{
		value:      valueCopy,
		expiration: time.Now().Add(ttl),
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if old, exists := c.items[key]; exists {
		c.currentMemory -= itemSize(key, old)
	}
	c.items[key] = newItem
	c.currentMemory += itemSize(key, newItem)

	c.evictIfNeeded()
	return nil
}

// Delete removes a value from cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.removeItem(key)
	return nil
}

// DeletePattern removes all keys matching the given pattern (supports * wildcard)
func (c *MemoryCache) DeletePattern(ctx context.Context, pattern string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for key := range c.items {
		if matched, _ := path.Match(pattern, key); matched {
			c.removeItem(key)
		}
	}
	return nil
}

// Exists checks if a key exists in cache
func (c *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.items[key]
	if !exists {
		return false, nil
	}
	return !time.Now().After(item.expiration), nil
}

// Close stops the cleanup goroutine
func (c *MemoryCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.cleanupDone)
	})
	return nil
}

// Stats returns cache statistics
func (c *MemoryCache) Stats() CacheStats {
	c.mutex.RLock()
	keys := int64(len(c.items))
	c.mutex.RUnlock()

	return CacheStats{
		Hits:      atomic.LoadInt64(&c.hits),
		Misses:    atomic.LoadInt64(&c.misses),
		Evictions: atomic.LoadInt64(&c.evictions),
		Keys:      keys,
	}
}

// removeItem deletes an entry and updates memory accounting. Caller must hold the write lock.
func (c *MemoryCache) removeItem(key string) {
	if item, exists := c.items[key]; exists {
		delete(c.items, key)
		c.currentMemory -= itemSize(key, item)
	}
}

// evictIfNeeded drops expired entries first, then arbitrary entries, until
// memory usage is back under the limit. Caller must hold the write lock.
func (c *MemoryCache) evictIfNeeded() {
	if c.maxMemory <= 0 || c.currentMemory <= c.maxMemory {
		return
	}

	now := time.Now()
	for key, item := range c.items {
		if now.After(item.expiration) {
			c.removeItem(key)
			atomic.AddInt64(&c.evictions, 1)
			if c.currentMemory <= c.maxMemory {
				return
			}
		}
	}

	for key := range c.items {
		c.removeItem(key)
		atomic.AddInt64(&c.evictions, 1)
		if c.currentMemory <= c.maxMemory {
			return
		}
	}
}

// startCleanup periodically removes expired entries.
func (c *MemoryCache) startCleanup() {
	interval := c.config.CleanupInterval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			c.mutex.Lock()
			for key, item := range c.items {
				if now.After(item.expiration) {
					c.removeItem(key)
				}
			}
			c.mutex.Unlock()
		case <-c.cleanupDone:
			return
		}
	}
}

func itemSize(key string, item *cacheItem) int64 {
	return int64(len(key) + len(item.value))
}
