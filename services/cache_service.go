package services

import (
	"context"
	"sync"
	"time"

	"github.com/fenilmodi00/ipo-allotment-tracker/config"
	"github.com/fenilmodi00/ipo-allotment-tracker/models"
	"github.com/sirupsen/logrus"
)

// CacheEntry is a cached value with its expiry
type CacheEntry struct {
	Data      interface{}
	ExpiresAt time.Time
}

func (ce *CacheEntry) isExpiredAt(now time.Time) bool {
	return now.After(ce.ExpiresAt)
}

// CacheService is a size-bounded in-memory TTL cache. Nothing is persisted;
// a restart starts from an empty cache.
type CacheService struct {
	cache      map[string]*CacheEntry
	mutex      sync.RWMutex
	defaultTTL time.Duration
	maxSize    int
	now        func() time.Time
	stop       chan struct{}
	stopOnce   sync.Once
}

// NewCacheService creates a cache and starts its background sweeper
func NewCacheService(cfg config.SimplifiedCacheConfig) *CacheService {
	cs := &CacheService{
		cache:      make(map[string]*CacheEntry),
		defaultTTL: cfg.DefaultTTL,
		maxSize:    cfg.MaxSize,
		now:        time.Now,
		stop:       make(chan struct{}),
	}
	if cs.maxSize <= 0 {
		cs.maxSize = config.DefaultCacheConfig().MaxSize
	}

	go cs.cleanupExpired()

	return cs
}

// Get returns a live entry
func (cs *CacheService) Get(key string) (interface{}, bool) {
	cs.mutex.RLock()
	defer cs.mutex.RUnlock()

	entry, exists := cs.cache[key]
	if !exists || entry.isExpiredAt(cs.now()) {
		return nil, false
	}
	return entry.Data, true
}

// Set stores a value with the default TTL
func (cs *CacheService) Set(key string, value interface{}) {
	cs.SetWithTTL(key, value, cs.defaultTTL)
}

// SetWithTTL stores a value with a custom TTL
func (cs *CacheService) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	cs.mutex.Lock()
	defer cs.mutex.Unlock()

	if _, exists := cs.cache[key]; !exists && len(cs.cache) >= cs.maxSize {
		cs.evictSoonestExpiring()
	}

	cs.cache[key] = &CacheEntry{
		Data:      value,
		ExpiresAt: cs.now().Add(ttl),
	}
}

// evictSoonestExpiring must be called with the write lock held
func (cs *CacheService) evictSoonestExpiring() {
	var victim string
	var victimExpiry time.Time

	for key, entry := range cs.cache {
		if victim == "" || entry.ExpiresAt.Before(victimExpiry) {
			victim = key
			victimExpiry = entry.ExpiresAt
		}
	}

	if victim != "" {
		delete(cs.cache, victim)
	}
}

func (cs *CacheService) Delete(key string) {
	cs.mutex.Lock()
	defer cs.mutex.Unlock()

	delete(cs.cache, key)
}

func (cs *CacheService) Size() int {
	cs.mutex.RLock()
	defer cs.mutex.RUnlock()

	return len(cs.cache)
}

// Close stops the sweeper. Safe to call more than once.
func (cs *CacheService) Close() {
	cs.stopOnce.Do(func() { close(cs.stop) })
}

func (cs *CacheService) cleanupExpired() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-cs.stop:
			return
		case <-ticker.C:
			cs.removeExpired()
		}
	}
}

func (cs *CacheService) removeExpired() int {
	cs.mutex.Lock()
	defer cs.mutex.Unlock()

	now := cs.now()
	removed := 0
	for key, entry := range cs.cache {
		if entry.isExpiredAt(now) {
			delete(cs.cache, key)
			removed++
		}
	}
	if removed > 0 {
		logrus.WithField("removed", removed).Debug("Expired cache entries removed")
	}
	return removed
}

const discoveryCacheKey = "market:discovery"

// CachedDiscoveryService memoizes AI discovery results so repeated API calls
// within the TTL do not hit the AI service again.
type CachedDiscoveryService struct {
	intel MarketIntelligence
	cache *CacheService
	ttl   time.Duration
}

func NewCachedDiscoveryService(intel MarketIntelligence, cache *CacheService, ttl time.Duration) *CachedDiscoveryService {
	return &CachedDiscoveryService{intel: intel, cache: cache, ttl: ttl}
}

func (c *CachedDiscoveryService) Enabled() bool {
	return c.intel.Enabled()
}

// DiscoverIPOs returns cached results when fresh. Errors are never cached.
func (c *CachedDiscoveryService) DiscoverIPOs(ctx context.Context) ([]*models.IPORecord, error) {
	if cached, ok := c.cache.Get(discoveryCacheKey); ok {
		if records, ok := cached.([]*models.IPORecord); ok {
			return records, nil
		}
	}

	records, err := c.intel.DiscoverIPOs(ctx)
	if err != nil {
		return nil, err
	}

	c.cache.SetWithTTL(discoveryCacheKey, records, c.ttl)
	return records, nil
}

// Invalidate drops the cached discovery results
func (c *CachedDiscoveryService) Invalidate() {
	c.cache.Delete(discoveryCacheKey)
}

// GetCacheStats reports cache occupancy for the admin endpoint
func (c *CachedDiscoveryService) GetCacheStats() map[string]interface{} {
	_, cached := c.cache.Get(discoveryCacheKey)
	return map[string]interface{}{
		"cache_size":        c.cache.Size(),
		"discovery_cached":  cached,
		"discovery_ttl_sec": c.ttl.Seconds(),
	}
}
