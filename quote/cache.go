package quote

import (
	"sync"
	"time"
)

// Clock abstracts time for TTL checks so tests can replay expiry
// without sleeping.
type Clock func() time.Time

type entry struct {
	price float64
	at    time.Time
}

// Cache is a TTL cache of symbol prices, safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     Clock
	entries map[string]entry
}

// NewCache returns a cache keeping values fresh for ttl. A non-positive
// ttl falls back to DefaultTTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

// Get returns the cached price for key when still fresh.
func (c *Cache) Get(key string) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.at) >= c.ttl {
		return 0, false
	}
	return e.price, true
}

// Put stores the price for key, resetting its freshness.
func (c *Cache) Put(key string, price float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{price: price, at: c.now()}
}
