package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/YuumiDiary/MaaBackendCenter/internal/pkg/log"
)

// GenericCacheService provides a JSON-marshalling caching layer shared by services
type GenericCacheService struct {
	cache  Cache
	config *CacheConfig
	stats  *serviceStats
}

// serviceStats tracks cache service statistics with atomic operations for thread safety
type serviceStats struct {
	hits    int64
	misses  int64
	errors  int64
	sets    int64
	deletes int64
}

// NewGenericCacheService creates a new generic cache service
func NewGenericCacheService(cache Cache, config *CacheConfig) *GenericCacheService {
	if config == nil {
		config = DefaultCacheConfig()
	}

	return &GenericCacheService{
		cache:  cache,
		config: config,
		stats:  &serviceStats{},
	}
}

// IsEnabled reports whether the underlying cache can serve requests.
func (gcs *GenericCacheService) IsEnabled() bool {
	return gcs != nil && gcs.config.Enabled && gcs.cache != nil
}

// GetCached retrieves and unmarshals cached data into the target interface
func (gcs *GenericCacheService) GetCached(ctx context.Context, key string, target interface{}) error {
	if !gcs.IsEnabled() {
		// IsEnabled tolerates a nil receiver, so the counters must too.
		if gcs != nil {
			atomic.AddInt64(&gcs.stats.misses, 1)
		}
		return ErrCacheDisabled
	}

	fullKey := gcs.buildKey(key)

	data, err := gcs.cache.Get(ctx, fullKey)
	if err != nil {
		if err == ErrKeyNotFound {
			atomic.AddInt64(&gcs.stats.misses, 1)
		} else {
			atomic.AddInt64(&gcs.stats.errors, 1)
			log.Error("Cache get error for key %s: %v", fullKey, err)
		}
		return err
	}

	if err := json.Unmarshal(data, target); err != nil {
		atomic.AddInt64(&gcs.stats.errors, 1)
		log.Error("Cache data unmarshal error for key %s: %v", fullKey, err)
		return fmt.Errorf("%w: %v", ErrDeserializationFailed, err)
	}

	atomic.AddInt64(&gcs.stats.hits, 1)
	return nil
}

// CacheData marshals and stores data under the given key
func (gcs *GenericCacheService) CacheData(ctx context.Context, key string, data interface{}, ttl time.Duration) error {
	if !gcs.IsEnabled() {
		return ErrCacheDisabled
	}

	payload, err := json.Marshal(data)
	if err != nil {
		atomic.AddInt64(&gcs.stats.errors, 1)
		return fmt.Errorf("failed to marshal data for cache: %w", err)
	}

	if ttl <= 0 {
		ttl = gcs.config.TTL
	}

	fullKey := gcs.buildKey(key)
	if err := gcs.cache.Set(ctx, fullKey, payload, ttl); err != nil {
		atomic.AddInt64(&gcs.stats.errors, 1)
		return err
	}

	atomic.AddInt64(&gcs.stats.sets, 1)
	return nil
}

// Invalidate removes a single cached entry
func (gcs *GenericCacheService) Invalidate(ctx context.Context, key string) error {
	if !gcs.IsEnabled() {
		return ErrCacheDisabled
	}

	if err := gcs.cache.Delete(ctx, gcs.buildKey(key)); err != nil {
		atomic.AddInt64(&gcs.stats.errors, 1)
		return err
	}

	atomic.AddInt64(&gcs.stats.deletes, 1)
	return nil
}

// InvalidatePattern removes all cached entries matching the given pattern
func (gcs *GenericCacheService) InvalidatePattern(ctx context.Context, pattern string) error {
	if !gcs.IsEnabled() {
		return ErrCacheDisabled
	}

	if err := gcs.cache.DeletePattern(ctx, gcs.buildKey(pattern)); err != nil {
		atomic.AddInt64(&gcs.stats.errors, 1)
		return err
	}

	atomic.AddInt64(&gcs.stats.deletes, 1)
	return nil
}

// Stats returns a snapshot of the service counters.
func (gcs *GenericCacheService) Stats() map[string]int64 {
	if gcs == nil {
		return map[string]int64{}
	}
	return map[string]int64{
		"hits":    atomic.LoadInt64(&gcs.stats.hits),
		"misses":  atomic.LoadInt64(&gcs.stats.misses),
		"errors":  atomic.LoadInt64(&gcs.stats.errors),
		"sets":    atomic.LoadInt64(&gcs.stats.sets),
		"deletes": atomic.LoadInt64(&gcs.stats.deletes),
	}
}

// buildKey prepends the configured prefix to a cache key.
func (gcs *GenericCacheService) buildKey(key string) string {
	if gcs.config.Prefix == "" {
		return key
	}
	return gcs.config.Prefix + ":" + key
}
