package cache

import (
	"github.com/YuumiDiary/MaaBackendCenter/internal/pkg/log"
	platformconfig "github.com/YuumiDiary/MaaBackendCenter/internal/platform/config"
)

// FromPlatformConfig converts the application cache configuration to the
// cache-layer configuration.
func FromPlatformConfig(cfg *platformconfig.CacheConfig, keyspace string) *CacheConfig {
	out := DefaultCacheConfig()
	if cfg == nil {
		out.Prefix = keyspace
		return out
	}

	out.Enabled = cfg.Enabled
	out.Backend = CacheType(cfg.Backend)
	out.TTL = cfg.TTL
	out.MaxMemory = cfg.MaxMemory
	out.Redis = RedisConfig{
		Address:  cfg.Redis.Address,
		Password: cfg.Redis.Password,
		Database: cfg.Redis.Database,
		PoolSize: cfg.Redis.PoolSize,
	}

	out.Prefix = keyspace
	if cfg.Prefix != "" {
		out.Prefix = cfg.Prefix + ":" + keyspace
	}

	return out
}

// NewGenericCacheServiceFor creates a GenericCacheService for a keyspace using
// app config, isolated in the cache layer. A backend failure degrades to a
// disabled cache rather than failing service startup.
func NewGenericCacheServiceFor(cfg *platformconfig.CacheConfig, keyspace string) *GenericCacheService {
	cacheConfig := FromPlatformConfig(cfg, keyspace)
	if !cacheConfig.Enabled {
		return NewGenericCacheService(nil, cacheConfig)
	}

	backend, err := NewCache(cacheConfig)
	if err != nil {
		log.Warn("Cache backend %s unavailable, continuing without cache: %v", cacheConfig.Backend, err)
		cacheConfig.Enabled = false
		return NewGenericCacheService(nil, cacheConfig)
	}

	return NewGenericCacheService(backend, cacheConfig)
}
