// Package cache implements the bounded, TTL-aware file-row cache that fronts
// the Index Store's hot path (get_cached_file).
//
// This is deliberately a hand-rolled bounded map rather than a general-purpose
// LRU library: the cache needs prefix deletion (delete_by_prefix, used when a
// whole subtree is removed from the index) and case-normalizing keys on
// case-insensitive filesystems, neither of which hashicorp/golang-lru or
// groupcache/lru expose. The teacher's own caches (pkg/cache/analysis_cache.go,
// pkg/cache/service.go's fileIndex) are hand-rolled bounded maps for the same
// reason; this follows that precedent.
package cache

import (
	"container/list"
	"strings"
	"sync"
	"time"
)

// Stats summarizes cache occupancy for diagnostics.
type Stats struct {
	Size    int
	MaxSize int
	Hits    uint64
	Misses  uint64
}

type entry struct {
	key       string
	value     any
	timestamp time.Time
}

// Cache is a bounded, insertion-order-evicting, TTL-expiring map keyed by
// filesystem paths. Keys are normalized on every operation: backslashes
// become forward slashes, and (when caseInsensitive is set, auto-detected
// from the host filesystem at construction) the key is lowercased.
type Cache struct {
	mu             sync.Mutex
	maxSize        int
	ttl            time.Duration
	caseInsensitive bool

	order   *list.List // oldest at Front, most-recently-touched at Back
	items   map[string]*list.Element
	hits    uint64
	misses  uint64
}

// Options configures cache construction.
type Options struct {
	MaxSize int
	TTL     time.Duration
	// CaseInsensitive forces key lowercasing. If nil, it is auto-detected
	// from the host (true on Windows and macOS's default filesystem,
	// false on Linux).
	CaseInsensitive *bool
}

// New constructs a Cache. MaxSize <= 0 means unbounded; TTL <= 0 means
// entries never expire by age.
func New(opts Options) *Cache {
	caseInsensitive := detectCaseInsensitiveFS()
	if opts.CaseInsensitive != nil {
		caseInsensitive = *opts.CaseInsensitive
	}
	return &Cache{
		maxSize:         opts.MaxSize,
		ttl:             opts.TTL,
		caseInsensitive: caseInsensitive,
		order:           list.New(),
		items:           make(map[string]*list.Element),
	}
}

// NormalizeKey applies the cache's key-normalization rules: backslashes to
// forward slashes, and lowercasing when the cache is case-insensitive.
func (c *Cache) NormalizeKey(key string) string {
	key = strings.ReplaceAll(key, "\\", "/")
	if c.caseInsensitive {
		key = strings.ToLower(key)
	}
	return key
}

// Get returns the cached value for key, refreshing its TTL timestamp and
// recency position on a hit. The second return is false on a miss (absent
// or TTL-expired).
func (c *Cache) Get(key string) (any, bool) {
	k := c.NormalizeKey(key)

	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[k]
	if !ok {
		c.misses++
		return nil, false
	}
	e := el.Value.(*entry)
	if c.ttl > 0 && time.Since(e.timestamp) > c.ttl {
		c.removeElementLocked(el)
		c.misses++
		return nil, false
	}
	e.timestamp = time.Now()
	c.order.MoveToBack(el)
	c.hits++
	return e.value, true
}

// Has reports whether key is present and not TTL-expired, without affecting
// recency or the hit/miss counters.
func (c *Cache) Has(key string) bool {
	k := c.NormalizeKey(key)

	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[k]
	if !ok {
		return false
	}
	e := el.Value.(*entry)
	if c.ttl > 0 && time.Since(e.timestamp) > c.ttl {
		return false
	}
	return true
}

// Set inserts or replaces the value for key. If the key already exists it is
// removed first so the recency position is recomputed correctly. If the
// cache is at capacity after insertion, the oldest entries (by insertion/
// touch order) are evicted until the cache is back within capacity.
func (c *Cache) Set(key string, value any) {
	k := c.NormalizeKey(key)

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[k]; ok {
		c.removeElementLocked(el)
	}

	el := c.order.PushBack(&entry{key: k, value: value, timestamp: time.Now()})
	c.items[k] = el

	if c.maxSize > 0 {
		for c.order.Len() > c.maxSize {
			oldest := c.order.Front()
			if oldest == nil {
				break
			}
			c.removeElementLocked(oldest)
		}
	}
}

// Delete removes key from the cache, if present.
func (c *Cache) Delete(key string) {
	k := c.NormalizeKey(key)

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[k]; ok {
		c.removeElementLocked(el)
	}
}

// DeleteByPrefix removes every key that starts with the normalized prefix
// and returns the count removed. Used when an entire subtree is dropped from
// the index (remove_path cascades into the cache).
func (c *Cache) DeleteByPrefix(prefix string) int {
	p := c.NormalizeKey(prefix)

	c.mu.Lock()
	defer c.mu.Unlock()

	var toRemove []*list.Element
	for k, el := range c.items {
		if strings.HasPrefix(k, p) {
			toRemove = append(toRemove, el)
		}
	}
	for _, el := range toRemove {
		c.removeElementLocked(el)
	}
	return len(toRemove)
}

// Clear empties the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.items = make(map[string]*list.Element)
}

// Stats returns a point-in-time snapshot of cache occupancy.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Size:    c.order.Len(),
		MaxSize: c.maxSize,
		Hits:    c.hits,
		Misses:  c.misses,
	}
}

// removeElementLocked must be called with mu held.
func (c *Cache) removeElementLocked(el *list.Element) {
	e := el.Value.(*entry)
	delete(c.items, e.key)
	c.order.Remove(el)
}
