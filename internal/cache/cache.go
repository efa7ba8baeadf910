package cache

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

const (
	// DefaultTTL is how long a cached result stays valid.
	DefaultTTL = 5000 * time.Millisecond
	// DefaultCapacity is the entry count above which eviction kicks in.
	DefaultCapacity = 100
)

// Options configures a Cache. Zero values fall back to the defaults.
type Options struct {
	TTL      time.Duration
	Capacity int
}

type entry[V any] struct {
	key      uint64
	value    V
	storedAt time.Time
}

// Cache memoizes query results keyed by Key. Entries expire after the TTL,
// and once the cache grows past capacity the oldest fifth is dropped in one
// pass. That coarse batch policy is intentional; it is not an LRU.
//
// The cache assumes a single writer. Hosts running concurrent queries must
// add their own synchronization.
type Cache[V any] struct {
	opts    Options
	entries map[uint64]*entry[V]

	now func() time.Time
}

func New[V any](opts Options) *Cache[V] {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Capacity <= 0 {
		opts.Capacity = DefaultCapacity
	}
	return &Cache[V]{
		opts:    opts,
		entries: make(map[uint64]*entry[V]),
		now:     time.Now,
	}
}

// Key derives a cache key from the query text and the current document
// count. The count is a deliberately cheap proxy for "has the collection
// changed"; rebuilds clear the cache wholesale so a content hash is not
// needed. Query text is whitespace-normalized so formatting-only edits hit
// the same entry.
func Key(queryText string, docCount int) uint64 {
	normalized := strings.Join(strings.Fields(queryText), " ")
	return xxhash.Sum64String(normalized + "\x00" + strconv.Itoa(docCount))
}

// Get returns the cached value for key if present and within the TTL.
func (c *Cache[V]) Get(key uint64) (V, bool) {
	var zero V
	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if c.now().Sub(e.storedAt) > c.opts.TTL {
		delete(c.entries, key)
		return zero, false
	}
	return e.value, true
}

// Put stores a value, evicting the oldest batch of entries when the cache
// exceeds capacity.
func (c *Cache[V]) Put(key uint64, value V) {
	c.entries[key] = &entry[V]{key: key, value: value, storedAt: c.now()}

	if len(c.entries) <= c.opts.Capacity {
		return
	}

	batch := c.opts.Capacity / 5
	if batch < 1 {
		batch = 1
	}

	oldest := make([]*entry[V], 0, len(c.entries))
	for _, e := range c.entries {
		oldest = append(oldest, e)
	}
	sort.Slice(oldest, func(i, j int) bool {
		return oldest[i].storedAt.Before(oldest[j].storedAt)
	})
	for i := 0; i < batch && i < len(oldest); i++ {
		delete(c.entries, oldest[i].key)
	}
}

// InvalidateAll drops every entry. Called whenever the indexes are rebuilt.
func (c *Cache[V]) InvalidateAll() {
	c.entries = make(map[uint64]*entry[V])
}

func (c *Cache[V]) Len() int {
	return len(c.entries)
}
