package sales

import (
	"sync"
	"time"
)

// Cache holds decoded quarter tables keyed by quarter label. Entries expire
// after ttl; at capacity the least recently read quarter is dropped. The
// catalog is small, so eviction scans every entry.
type Cache struct {
	mu       sync.Mutex
	quarters map[string]*cachedQuarter
	capacity int
	ttl      time.Duration
	now      func() time.Time
	tick     uint64
	hits     int64
	misses   int64
}

type cachedQuarter struct {
	records  []Record
	loadedAt time.Time
	lastRead uint64
}

// CacheStats reports cache occupancy and hit counts.
type CacheStats struct {
	Quarters int   `json:"quarters"`
	Capacity int   `json:"capacity"`
	Hits     int64 `json:"hits"`
	Misses   int64 `json:"misses"`
}

// NewCache creates a Cache. A non-positive capacity disables caching.
func NewCache(capacity int, ttl time.Duration) *Cache {
	return &Cache{
		quarters: make(map[string]*cachedQuarter),
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns the table cached for label. ok is false on a miss or when
// the entry has expired; an empty table is a hit.
func (c *Cache) Get(label string) (records []Record, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	q, found := c.quarters[label]
	if found && c.ttl > 0 && c.now().Sub(q.loadedAt) > c.ttl {
		delete(c.quarters, label)
		found = false
	}
	if !found {
		c.misses++
		return nil, false
	}

	c.tick++
	q.lastRead = c.tick
	c.hits++
	return q.records, true
}

// Put stores the table for label.
func (c *Cache) Put(label string, records []Record) {
	if c.capacity <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.quarters[label]; !ok && len(c.quarters) >= c.capacity {
		c.evictLocked()
	}
	c.tick++
	c.quarters[label] = &cachedQuarter{records: records, loadedAt: c.now(), lastRead: c.tick}
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{
		Quarters: len(c.quarters),
		Capacity: c.capacity,
		Hits:     c.hits,
		Misses:   c.misses,
	}
}

func (c *Cache) evictLocked() {
	var (
		victim string
		oldest uint64
		found  bool
	)
	for label, q := range c.quarters {
		if !found || q.lastRead < oldest {
			victim, oldest, found = label, q.lastRead, true
		}
	}
	if found {
		delete(c.quarters, victim)
	}
}
