package summarycache

import (
	"math"
	"sync"
	"time"
)

// Cache is a bounded in-memory store of AI summaries keyed by a fingerprint
// of the input text and the generation options.
//
// Entries expire lazily: an entry whose age reaches the TTL is removed the
// next time it is looked up, or by ClearExpired. When the cache is full,
// Set evicts the entry with the smallest timestamp until there is room.
//
// All methods hold the mutex for their whole run, so each call observes and
// leaves the cache in a consistent state. Get and Has take the write lock
// because they may delete an expired entry.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
	nextSeq uint64

	maxSize int
	ttl     time.Duration
	now     func() time.Time
	hasher  KeyHasher
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces the wall clock. Used by tests to move time forward
// without sleeping.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithHasher replaces the key fingerprint function.
func WithHasher(h KeyHasher) Option {
	return func(c *Cache) {
		if h != nil {
			c.hasher = h
		}
	}
}

// WithMaxSize overrides DefaultMaxSize. Values below 1 are ignored.
func WithMaxSize(n int) Option {
	return func(c *Cache) {
		if n >= 1 {
			c.maxSize = n
		}
	}
}

// WithTTL overrides DefaultTTL. Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// New creates an empty cache with DefaultMaxSize and DefaultTTL.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]*entry),
		maxSize: DefaultMaxSize,
		ttl:     DefaultTTL,
		now:     time.Now,
		hasher:  DefaultHasher,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key returns the key this cache derives for text and opts.
func (c *Cache) Key(text string, opts Options) string {
	return deriveKey(c.hasher, text, opts)
}

// Get returns the cached summary for text and opts.
// A missing entry is a miss. An entry aged TTL or more is deleted and
// reported as a miss.
func (c *Cache) Get(text string, opts Options) (string, bool) {
	e, ok := c.Lookup(text, opts)
	if !ok {
		return "", false
	}
	return e.Summary, true
}

// Lookup is Get returning the whole entry, including the options it was
// stored with and the time it was written.
func (c *Cache) Lookup(text string, opts Options) (Entry, bool) {
	key := c.Key(text, opts)

	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.validLocked(key)
	if e == nil {
		return Entry{}, false
	}
	return e.toEntry(), true
}

// Has reports whether a valid entry exists for text and opts.
// Like Get, it removes an expired entry it finds.
func (c *Cache) Has(text string, opts Options) bool {
	key := c.Key(text, opts)

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.validLocked(key) != nil
}

// Set stores summary under the key for text and opts with the current time.
// While the cache holds MaxSize or more entries, the entry with the smallest
// timestamp is evicted, one at a time. Eviction runs even when the key is
// already present, so overwriting in a full cache can drop an unrelated entry.
func (c *Cache) Set(text string, opts Options, summary string) {
	key := c.Key(text, opts)

	c.mu.Lock()
	defer c.mu.Unlock()

	for len(c.entries) >= c.maxSize {
		if !c.evictOldestLocked() {
			break
		}
	}

	ts := c.now().UnixMilli()
	if e, ok := c.entries[key]; ok {
		e.summary = summary
		e.timestampMs = ts
		e.options = opts
		return
	}

	c.nextSeq++
	c.entries[key] = &entry{
		summary:     summary,
		timestampMs: ts,
		options:     opts,
		seq:         c.nextSeq,
	}
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*entry)
}

// ClearExpired removes every entry aged TTL or more and returns how many
// were removed.
func (c *Cache) ClearExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	nowMs := c.now().UnixMilli()
	removed := 0
	for key, e := range c.entries {
		if c.expired(e, nowMs) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Stats returns the current size, the limits, and the fill percentage
// rounded to the nearest integer.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	size := len(c.entries)
	return Stats{
		Size:       size,
		MaxSize:    c.maxSize,
		TTL:        c.ttl,
		Percentage: int(math.Round(float64(size) / float64(c.maxSize) * 100)),
	}
}

// validLocked returns the entry for key if it is present and not expired.
// An expired entry is deleted. c.mu must be held.
func (c *Cache) validLocked(key string) *entry {
	e, ok := c.entries[key]
	if !ok {
		return nil
	}
	if c.expired(e, c.now().UnixMilli()) {
		delete(c.entries, key)
		return nil
	}
	return e
}

func (c *Cache) expired(e *entry, nowMs int64) bool {
	return nowMs-e.timestampMs >= c.ttl.Milliseconds()
}

// evictOldestLocked deletes the entry with the smallest timestamp.
// Ties go to the entry inserted first. Returns false when there is nothing
// to evict. c.mu must be held.
func (c *Cache) evictOldestLocked() bool {
	var (
		oldestKey string
		oldest    *entry
	)
	for key, e := range c.entries {
		if oldest == nil ||
			e.timestampMs < oldest.timestampMs ||
			(e.timestampMs == oldest.timestampMs && e.seq < oldest.seq) {
			oldestKey, oldest = key, e
		}
	}
	if oldest == nil {
		return false
	}
	delete(c.entries, oldestKey)
	return true
}
