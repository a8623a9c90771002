package factory

import (
	"sort"
	"sync"

	"github.com/lvroute/autoroute/caps"
)

// Index is the catalog of indexed factories queried by the planner. It is
// safe for concurrent use: Build takes the write lock and replaces the
// entry slice wholesale; all queries take the read lock.
//
// The index is owned by the bin (router.Bin) and rebuilt only on explicit
// request, per spec.md §4.1 — there is no background refresh.
type Index struct {
	mu          sync.RWMutex
	entries     []Entry
	allSinkCaps caps.Set
	allSrcCaps  caps.Set
}

// NewIndex returns an empty Index. Call Build before planning.
func NewIndex() *Index {
	return &Index{}
}

// Diff reports which factory IDs were added or removed by a Build call
// relative to the previous index contents. It is purely observational
// (SPEC_FULL.md §10): the planner never consults it.
type Diff struct {
	Added   []ID
	Removed []ID
}

// Build indexes catalog, replacing any previous contents. Entries are
// created only for factories with exactly one sink template and one src
// template and that are not MultiPad; all others are silently skipped, per
// spec.md §4.1. Build is idempotent: calling it twice with the same
// catalog yields structurally equal Entry lists, modulo ordering (spec.md
// §8 round-trip property) — entries are sorted by FactoryID so repeated
// builds are also order-stable.
func (idx *Index) Build(catalog []CatalogEntry) Diff {
	entries := make([]Entry, 0, len(catalog))
	for _, c := range catalog {
		if c.MultiPad {
			continue
		}
		if c.SinkCaps == nil || c.SrcCaps == nil {
			continue
		}
		entries = append(entries, Entry{
			FactoryID: c.ID,
			SinkCaps:  c.SinkCaps,
			SrcCaps:   c.SrcCaps,
			KlassMask: parseKlassMask(c.Classification),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].FactoryID < entries[j].FactoryID })

	var allSink, allSrc caps.Set
	for _, e := range entries {
		if allSink == nil {
			allSink = e.SinkCaps
		} else {
			allSink = allSink.Union(e.SinkCaps)
		}
		if allSrc == nil {
			allSrc = e.SrcCaps
		} else {
			allSrc = allSrc.Union(e.SrcCaps)
		}
	}
	if allSink != nil {
		allSink = allSink.Normalize()
	}
	if allSrc != nil {
		allSrc = allSrc.Normalize()
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	diff := diffEntries(idx.entries, entries)
	idx.entries = entries
	idx.allSinkCaps = allSink
	idx.allSrcCaps = allSrc
	return diff
}

func diffEntries(old, new []Entry) Diff {
	oldSet := make(map[ID]struct{}, len(old))
	for _, e := range old {
		oldSet[e.FactoryID] = struct{}{}
	}
	newSet := make(map[ID]struct{}, len(new))
	var d Diff
	for _, e := range new {
		newSet[e.FactoryID] = struct{}{}
		if _, ok := oldSet[e.FactoryID]; !ok {
			d.Added = append(d.Added, e.FactoryID)
		}
	}
	for _, e := range old {
		if _, ok := newSet[e.FactoryID]; !ok {
			d.Removed = append(d.Removed, e.FactoryID)
		}
	}
	return d
}

// Len returns the number of indexed factories.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// At returns the indexed entry at position i, in FactoryID order. Used by
// the chain enumerator's odometer positions.
func (idx *Index) At(i int) Entry {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.entries[i]
}

// Entries returns a copy of the indexed entries, in FactoryID order.
func (idx *Index) Entries() []Entry {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]Entry, len(idx.entries))
	copy(out, idx.entries)
	return out
}

// AllSinkCaps returns the union of every indexed entry's sink caps.
func (idx *Index) AllSinkCaps() caps.Set {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.allSinkCaps
}

// AllSrcCaps returns the union of every indexed entry's src caps.
func (idx *Index) AllSrcCaps() caps.Set {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.allSrcCaps
}
