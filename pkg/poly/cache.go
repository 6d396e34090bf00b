package poly

import "slices"

// Cache keeps every vertex set it has built, keyed by side count. Entries
// are never evicted: the geometry for a side count never changes.
//
// Cache is not safe for concurrent use; it is owned by the scene loop.
type Cache struct {
	radius   float64
	generate Generator
	sets     map[int]VertexSet
	hits     int
	misses   int
}

// NewCache returns an empty cache building sets of the given radius with gen.
// A nil gen falls back to Generate.
func NewCache(radius float64, gen Generator) *Cache {
	if gen == nil {
		gen = Generate
	}
	return &Cache{
		radius:   radius,
		generate: gen,
		sets:     make(map[int]VertexSet),
	}
}

// Load returns the vertex set for sides, building and storing it on a miss.
// The boolean is true when the set came from the cache.
func (c *Cache) Load(sides int) (VertexSet, bool) {
	if set, ok := c.sets[sides]; ok {
		c.hits++
		return set, true
	}
	set := c.generate(sides, c.radius)
	c.sets[sides] = set
	c.misses++
	return set, false
}

// Get returns the cached set without building it.
func (c *Cache) Get(sides int) (VertexSet, bool) {
	set, ok := c.sets[sides]
	return set, ok
}

// Put stores a set built elsewhere, e.g. the initial shape.
func (c *Cache) Put(sides int, set VertexSet) {
	c.sets[sides] = set
}

// Len returns the number of cached side counts.
func (c *Cache) Len() int {
	return len(c.sets)
}

// Keys returns the cached side counts in ascending order.
func (c *Cache) Keys() []int {
	keys := make([]int, 0, len(c.sets))
	for k := range c.sets {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Stats returns the number of hits and misses served so far.
func (c *Cache) Stats() (hits, misses int) {
	return c.hits, c.misses
}
