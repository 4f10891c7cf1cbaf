package assets

import (
	"sync"

	"github.com/Faultbox/quiet-measure/pkg/formats"
)

// Cache is an in-memory cache of parsed asset documents keyed by path.
// It is safe for concurrent use. A Loader only touches it from the goroutine
// that calls Request and Poll; background reads never do.
type Cache struct {
	data map[string]*formats.GLTF
	mu   sync.Mutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]*formats.GLTF),
	}
}

// Get retrieves a document from the cache.
func (c *Cache) Get(key string) (*formats.GLTF, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return doc, ok
}

// Set stores a document in the cache.
func (c *Cache) Set(key string, doc *formats.GLTF) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = doc
}

// Len returns the number of cached documents.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// Clear empties the cache and resets its statistics.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]*formats.GLTF)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
