package power

import (
	"time"

	"github.com/Velocidex/ttlcache/v2"
)

const idleKey = "deep_idle"

// CachedGate remembers the oracle's answer for a fixed time so that a
// comparatively expensive query runs at most once per TTL.
type CachedGate struct {
	oracle Oracle
	cache  *ttlcache.Cache
}

// NewCachedGate wraps oracle. A non-positive ttl disables caching.
func NewCachedGate(oracle Oracle, ttl time.Duration) *CachedGate {
	g := &CachedGate{oracle: oracle}
	if ttl > 0 {
		g.cache = ttlcache.NewCache()
		_ = g.cache.SetTTL(ttl)
		g.cache.SkipTTLExtensionOnHit(true)
	}
	return g
}

// IsSystemIdle returns the cached answer or asks the oracle.
func (g *CachedGate) IsSystemIdle() bool {
	if g.cache == nil {
		return g.oracle.IsSystemIdle()
	}
	if v, err := g.cache.Get(idleKey); err == nil {
		if idle, ok := v.(bool); ok {
			return idle
		}
	}
	idle := g.oracle.IsSystemIdle()
	_ = g.cache.Set(idleKey, idle)
	return idle
}

// Invalidate drops the cached answer.
func (g *CachedGate) Invalidate() {
	if g.cache != nil {
		_ = g.cache.Remove(idleKey)
	}
}

// Close stops the cache's expiry goroutine.
func (g *CachedGate) Close() error {
	if g.cache == nil {
		return nil
	}
	return g.cache.Close()
}
