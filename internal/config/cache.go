package config

import "time"

// CacheConfig defines settings for the JSON response cache middleware.
// When Enabled is false or no Redis client is configured, caching is
// disabled. TTL bounds the lifetime of an entry; entries are also dropped
// whenever a write bumps the cache generation. Prefix namespaces the keys
// and MaxBodyBytes skips caching of larger responses.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads the CACHE_* variables, using defaults when unset.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		Prefix:       getenv("CACHE_PREFIX", "movieprefs:cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}
