package memory

import (
	"container/list"
	"sync"
	"time"

	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
	"github.com/cloudmeru/codewiki-mcp/internal/core/ports/driven"
)

// Ensure TTLCache implements the interface.
var _ driven.Cache[string] = (*TTLCache[string])(nil)

// TTLCache is a bounded in-memory cache with per-entry expiry.
// When full, the least recently used entry is evicted.
type TTLCache[V any] struct {
	name    string
	ttl     time.Duration
	maxSize int
	now     func() time.Time

	mu     sync.Mutex
	items  map[string]*list.Element
	order  *list.List // front = most recently used
	hits   uint64
	misses uint64
}

type cacheEntry[V any] struct {
	key     string
	value   V
	expires time.Time
}

// NewTTLCache creates a cache holding at most maxSize entries for ttl each.
func NewTTLCache[V any](name string, ttl time.Duration, maxSize int) *TTLCache[V] {
	if maxSize < 1 {
		maxSize = 1
	}
	return &TTLCache[V]{
		name:    name,
		ttl:     ttl,
		maxSize: maxSize,
		now:     time.Now,
		items:   make(map[string]*list.Element),
		order:   list.New(),
	}
}

// WithClock replaces the time source. Used by tests.
func (c *TTLCache[V]) WithClock(now func() time.Time) *TTLCache[V] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
	return c
}

// Get returns the value for key if present and not expired.
func (c *TTLCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	el, ok := c.items[key]
	if !ok {
		c.misses++
		return zero, false
	}
	entry := el.Value.(*cacheEntry[V])
	if !c.now().Before(entry.expires) {
		c.remove(el)
		c.misses++
		return zero, false
	}
	c.order.MoveToFront(el)
	c.hits++
	return entry.value, true
}

// Set stores value under key, resetting its TTL.
func (c *TTLCache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expires := c.now().Add(c.ttl)
	if el, ok := c.items[key]; ok {
		entry := el.Value.(*cacheEntry[V])
		entry.value = value
		entry.expires = expires
		c.order.MoveToFront(el)
		return
	}

	c.purgeExpired()
	for c.order.Len() >= c.maxSize {
		c.remove(c.order.Back())
	}
	c.items[key] = c.order.PushFront(&cacheEntry[V]{key: key, value: value, expires: expires})
}

// Len returns the number of live entries.
func (c *TTLCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.purgeExpired()
	return c.order.Len()
}

// Stats reports size and hit counters.
func (c *TTLCache[V]) Stats() domain.CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.purgeExpired()
	return domain.CacheStats{
		Name:    c.name,
		Size:    c.order.Len(),
		MaxSize: c.maxSize,
		TTL:     c.ttl,
		Hits:    c.hits,
		Misses:  c.misses,
	}
}

// purgeExpired drops every expired entry. Caller holds mu.
func (c *TTLCache[V]) purgeExpired() {
	now := c.now()
	for el := c.order.Back(); el != nil; {
		prev := el.Prev()
		if !now.Before(el.Value.(*cacheEntry[V]).expires) {
			c.remove(el)
		}
		el = prev
	}
}

func (c *TTLCache[V]) remove(el *list.Element) {
	if el == nil {
		return
	}
	c.order.Remove(el)
	delete(c.items, el.Value.(*cacheEntry[V]).key)
}
