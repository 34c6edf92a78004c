package summarize

import (
	"sync"
)

const (
	DefaultCacheSize = 50
	cacheKeyRunes    = 200
)

type cacheEntry struct {
	key      string
	summary  string
	source   string
	language string
	latency  float64
}

// Cache keeps the most recent summaries, oldest evicted first.
type Cache struct {
	mu      sync.Mutex
	size    int
	entries []cacheEntry
}

func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &Cache{size: size, entries: make([]cacheEntry, 0, size)}
}

// cacheKey is mode, style and target language plus the first 200 runes of
// the normalized text.
func cacheKey(req Request, text string) string {
	r := []rune(text)
	if len(r) > cacheKeyRunes {
		r = r[:cacheKeyRunes]
	}
	return string(req.Mode) + "|" + string(req.Style) + "|" + req.TargetLanguage + "|" + string(r)
}

func (c *Cache) get(key string) (cacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := len(c.entries) - 1; i >= 0; i-- {
		if c.entries[i].key == key {
			return c.entries[i], true
		}
	}
	return cacheEntry{}, false
}

func (c *Cache) put(e cacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.entries {
		if c.entries[i].key == e.key {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			break
		}
	}
	if len(c.entries) >= c.size {
		c.entries = append(c.entries[:0], c.entries[1:]...)
	}
	c.entries = append(c.entries, e)
}

// Len returns the number of cached summaries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
