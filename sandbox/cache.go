// Package sandbox materializes candidate chains against a cache of
// reusable element instances, drives the capability negotiation protocol
// end-to-end, and reports the concrete per-step capability profile, per
// spec.md §4.4.
package sandbox

import (
	"sync"

	"github.com/lvroute/autoroute/factory"
	"github.com/lvroute/autoroute/host"
)

// slot tracks one cached element instance and whether a test currently has
// it checked out. This is the explicit replacement (spec.md §9) for an
// out-of-band per-element "in-use" flag: an ordinary map keyed by factory
// ID, guarded by a single mutex.
type slot struct {
	element host.Element
	inUse   bool
}

// Cache is the sandbox element cache: confined to one planning pass,
// single-threaded by the caller's structural lock (spec.md §5), but
// defensively also safe under its own mutex since tests may run it
// concurrently.
type Cache struct {
	mu        sync.Mutex
	factories map[factory.ID]host.ElementFactory
	slots     map[factory.ID][]*slot
}

// NewCache builds a cache over the given element factories, keyed by
// factory.ID.
func NewCache(factories []host.ElementFactory) *Cache {
	byID := make(map[factory.ID]host.ElementFactory, len(factories))
	for _, f := range factories {
		byID[f.ID()] = f
	}
	return &Cache{factories: byID, slots: make(map[factory.ID][]*slot)}
}

// Acquire returns an idle instance of id, creating one if none is idle.
// Returns ok=false if id is not a known factory.
func (c *Cache) Acquire(id factory.ID) (host.Element, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	f, known := c.factories[id]
	if !known {
		return nil, false
	}
	for _, s := range c.slots[id] {
		if !s.inUse {
			s.inUse = true
			return s.element, true
		}
	}
	el := f.Create()
	c.slots[id] = append(c.slots[id], &slot{element: el, inUse: true})
	return el, true
}

// Release resets el and returns it to the idle pool for reuse.
func (c *Cache) Release(id factory.ID, el host.Element) {
	el.Reset()

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range c.slots[id] {
		if s.element == el {
			s.inUse = false
			return
		}
	}
}

// Factories returns the factory map the cache was built from, so the
// instantiation phase (package proposal) can materialize real, non-cached
// elements from the same catalog a planning pass sandboxed against.
func (c *Cache) Factories() map[factory.ID]host.ElementFactory {
	return c.factories
}

// Idle reports how many instances of id are currently idle; used by tests
// to assert instances are returned to the cache after a test.
func (c *Cache) Idle(id factory.ID) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, s := range c.slots[id] {
		if !s.inUse {
			n++
		}
	}
	return n
}
