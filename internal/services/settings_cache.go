package services

import (
	"sync"
	"time"

	"github.com/Adeel3330/agile-next-sub002/internal/models"
)

// SettingsCache memoizes the single settings record for the process.
type SettingsCache interface {
	// Get returns the cached value while it is younger than the TTL.
	Get() (*models.Setting, bool)
	// Generation identifies the current cache epoch. Clear starts a new one.
	Generation() uint64
	// SetIfGeneration stores s only if no Clear happened since gen was read,
	// so a value loaded before a write cannot outlive that write.
	SetIfGeneration(gen uint64, s *models.Setting) bool
	// Clear drops the cached value so the next Get misses.
	Clear()
}

// TTLSettingsCache is a one-slot in-memory SettingsCache.
type TTLSettingsCache struct {
	mu       sync.RWMutex
	ttl      time.Duration
	now      func() time.Time
	value    *models.Setting
	storedAt time.Time
	gen      uint64
}

func NewTTLSettingsCache(ttl time.Duration) *TTLSettingsCache {
	return &TTLSettingsCache{ttl: ttl, now: time.Now}
}

// WithClock swaps the time source, for tests.
func (c *TTLSettingsCache) WithClock(now func() time.Time) *TTLSettingsCache {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
	return c
}

func (c *TTLSettingsCache) Get() (*models.Setting, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.value == nil || c.now().Sub(c.storedAt) >= c.ttl {
		return nil, false
	}
	return c.value.Clone(), true
}

func (c *TTLSettingsCache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen
}

// Set replaces the cached value unconditionally and restarts its age.
func (c *TTLSettingsCache) Set(s *models.Setting) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.value = s.Clone()
	c.storedAt = c.now()
}

func (c *TTLSettingsCache) SetIfGeneration(gen uint64, s *models.Setting) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		return false
	}
	c.value = s.Clone()
	c.storedAt = c.now()
	return true
}

func (c *TTLSettingsCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.value = nil
	c.storedAt = time.Time{}
	c.gen++
}
