package collider

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Faultbox/hullforge/internal/assets"
)

// Cache errors.
var (
	ErrCacheSealed   = errors.New("collider cache is sealed")
	ErrAlreadyCached = errors.New("collider already cached")
)

// Cache maps scene assets to their synthesized compound shape. It is written
// during the synthesis pass and read-only once sealed.
type Cache struct {
	data   map[assets.ID]*Compound
	sealed bool
	mu     sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[assets.ID]*Compound),
	}
}

// Insert stores the collider for a scene. Existing entries are never
// overwritten.
func (c *Cache) Insert(id assets.ID, shape *Compound) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sealed {
		return ErrCacheSealed
	}
	if _, ok := c.data[id]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyCached, id)
	}
	c.data[id] = shape
	return nil
}

// Seal makes the cache read-only.
func (c *Cache) Seal() {
	c.mu.Lock()
	c.sealed = true
	c.mu.Unlock()
}

// Sealed reports whether Seal has been called.
func (c *Cache) Sealed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sealed
}

// Get retrieves the collider of a scene. Callers must Clone before mutating.
func (c *Cache) Get(id assets.ID) (*Compound, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	shape, ok := c.data[id]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return shape, ok
}

// Len returns the number of cached colliders.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
