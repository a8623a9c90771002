package memhost

import (
	"sync"

	"github.com/lvroute/autoroute/caps"
	"github.com/lvroute/autoroute/host"
)

// Endpoint is a simple in-memory host.Endpoint: its current capability set
// is whatever was last set via SetCaps, and Query intersects the filter
// with peerUniverse alone (standing in for "all peers' advertised
// capabilities" per spec.md §6 — memhost has no real peer graph, so
// callers pass the union they want considered). Query does not consult
// the current caps.
type Endpoint struct {
	mu           sync.RWMutex
	id           host.EndpointID
	dir          host.Direction
	current      caps.Set
	peerUniverse caps.Set
}

var _ host.Endpoint = (*Endpoint)(nil)

// NewEndpoint returns an Endpoint with no current caps set.
func NewEndpoint(id host.EndpointID, dir host.Direction, peerUniverse caps.Set) *Endpoint {
	return &Endpoint{id: id, dir: dir, peerUniverse: peerUniverse}
}

func (e *Endpoint) ID() host.EndpointID      { return e.id }
func (e *Endpoint) Direction() host.Direction { return e.dir }

func (e *Endpoint) CurrentCaps() caps.Set {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.current
}

// SetCaps declares a concrete capability set on this endpoint, simulating
// the host's capability-declaration event (spec.md §6).
func (e *Endpoint) SetCaps(c caps.Set) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.current = c
}

func (e *Endpoint) Query(filter caps.Set) caps.Set {
	e.mu.RLock()
	universe := e.peerUniverse
	e.mu.RUnlock()
	if universe == nil || filter == nil {
		return nil
	}
	result := universe.IntersectWithFilter(filter)
	if result == nil {
		return nil
	}
	return result.Normalize()
}
