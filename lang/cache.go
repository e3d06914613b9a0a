package lang

import (
	"strings"
	"sync"
	"time"

	"github.com/zeebo/xxh3"
)

// Cache defaults applied by New when no options override them.
const (
	DefaultCacheSize = 1000
	DefaultCacheTTL  = 5 * time.Minute
)

// cacheEntry holds one cached operation result.
type cacheEntry struct {
	value      any
	createdAt  time.Time
	accessedAt time.Time
}

// Cache memoizes operation results keyed by fingerprint. Entries expire
// after a TTL (an expired read counts as a miss and evicts the entry), and
// inserting at capacity evicts the least recently accessed entry.
//
// A single mutex guards all state; critical sections are short, so pool
// workers sharing one Cache do not contend meaningfully.
type Cache struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	entries map[string]*cacheEntry
	hits    uint64
	misses  uint64
}

// NewCache creates a Cache holding up to maxSize entries, each valid for ttl.
func NewCache(maxSize int, ttl time.Duration) *Cache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}

	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	return &Cache{
		maxSize: maxSize,
		ttl:     ttl,
		entries: make(map[string]*cacheEntry, maxSize),
	}
}

// Fingerprint derives a stable cache key from an operation name and its
// rendered arguments.
func (c *Cache) Fingerprint(op string, args ...any) string {
	var buf strings.Builder

	buf.WriteString(op)

	for _, arg := range args {
		buf.WriteString("\x00")
		buf.WriteString(formatQuoted(arg))
	}

	h := xxh3.HashString128(buf.String())

	return uitoa16(h.Hi) + uitoa16(h.Lo)
}

// Get returns the cached value for key. Expired entries are evicted and
// reported as misses.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.misses++

		return nil, false
	}

	if time.Since(entry.createdAt) > c.ttl {
		delete(c.entries, key)
		c.misses++

		return nil, false
	}

	entry.accessedAt = time.Now()
	c.hits++

	return entry.value, true
}

// Set stores value under key, evicting the least recently accessed entry
// when the cache is full.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	now := time.Now()
	c.entries[key] = &cacheEntry{
		value:      value,
		createdAt:  now,
		accessedAt: now,
	}
}

// evictOldest removes the least recently accessed entry. Caller holds mu.
func (c *Cache) evictOldest() {
	var (
		oldestKey string
		oldestAt  time.Time
	)

	for key, entry := range c.entries {
		if oldestKey == "" || entry.accessedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = entry.accessedAt
		}
	}

	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Clear drops every entry and resets the hit/miss counters.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cacheEntry, c.maxSize)
	c.hits = 0
	c.misses = 0
}

// CacheStats reports cache effectiveness counters.
type CacheStats struct {
	Size    int
	MaxSize int
	Hits    uint64
	Misses  uint64
	HitRate float64
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := CacheStats{
		Size:    len(c.entries),
		MaxSize: c.maxSize,
		Hits:    c.hits,
		Misses:  c.misses,
	}

	if total := c.hits + c.misses; total > 0 {
		stats.HitRate = float64(c.hits) / float64(total)
	}

	return stats
}

// uitoa16 renders a uint64 as fixed-width lowercase hex.
func uitoa16(v uint64) string {
	const digits = "0123456789abcdef"

	var buf [16]byte
	for i := 15; i >= 0; i-- {
		buf[i] = digits[v&0xf]
		v >>= 4
	}

	return string(buf[:])
}
