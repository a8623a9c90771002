package proposal

import (
	"errors"
	"math"

	"github.com/lvroute/autoroute/host"
)

// MaxOutputs bounds the selector's output count, exactly as tsp.MaxExactN
// bounds the teacher library's Held-Karp solver: the DP is O(3^m) in time
// and O(2^m) in memory, so it is capped at 20 outputs, per spec.md §4.5's
// "m <= 16 comfortably" note.
const MaxOutputs = 20

// ErrTooManyOutputs is returned when the output set exceeds MaxOutputs.
var ErrTooManyOutputs = errors.New("proposal: selector supports at most 20 output endpoints")

// Selection is the result of Select: the minimal-cost set of terminal
// proposal handles whose ancestor chains jointly cover every output, plus
// the total cost.
type Selection struct {
	Terminals []Handle
	Cost      uint64
}

// Select runs the bitmask dynamic-programming exact-cover described in
// spec.md §4.5, in the shape of the teacher library's Held-Karp TSP solver
// (tsp/exact.go): best[mask] is the minimum cost to cover exactly that
// subset of outputs, seeded from every candidate proposal's own coverage,
// then relaxed by splitting every mask over its nonempty proper subsets.
// candidates should include every proposal produced across every BFS
// layer (proposal.Generator.Generate flattened): a proposal's coverage is
// the set of output endpoints along its ancestor chain
// (Store.OutputAncestors), and its cost is the cumulative sum of its own
// and its ancestors' per-step costs.
//
// Select treats "no viable cover" (best[full] == +Inf) as success with an
// empty Selection, per spec.md §7: the caller leaves those outputs
// unconnected rather than failing the bin.
func Select(store *Store, candidates []Handle, outputs []host.Endpoint) (Selection, error) {
	m := len(outputs)
	if m > MaxOutputs {
		return Selection{}, ErrTooManyOutputs
	}
	if m == 0 {
		return Selection{}, nil
	}

	bit := make(map[host.EndpointID]int, m)
	for i, o := range outputs {
		bit[o.ID()] = i
	}

	full := uint32(1)<<uint(m) - 1
	best := make([]uint64, full+1)
	pick := make([][]Handle, full+1)
	for i := range best {
		best[i] = math.MaxUint64
	}

	for _, h := range candidates {
		mask, ok := coverageMask(store, h, bit)
		if !ok {
			continue // ancestor chain touches an endpoint outside outputs; not a usable candidate
		}
		cost := cumulativeCost(store, h)
		if cost < best[mask] {
			best[mask] = cost
			pick[mask] = []Handle{h}
		}
	}

	for s := uint32(1); s <= full; s++ {
		// Iterate every nonempty proper subset t of s via the standard
		// submask-enumeration trick.
		for t := (s - 1) & s; t != 0; t = (t - 1) & s {
			u := s &^ t
			if u == 0 {
				continue
			}
			if best[t] == math.MaxUint64 || best[u] == math.MaxUint64 {
				continue
			}
			combined := best[t] + best[u]
			if combined < best[s] {
				best[s] = combined
				pick[s] = append(append([]Handle(nil), pick[t]...), pick[u]...)
			}
		}
	}

	if best[full] == math.MaxUint64 {
		return Selection{}, nil
	}
	return Selection{Terminals: pick[full], Cost: best[full]}, nil
}

// coverageMask bitmasks h's OutputAncestors against the known output
// endpoints. Returns ok=false if any ancestor output is not in outputs
// (can't happen in normal operation since the generator only branches
// towards the caller's own output set, but guarded defensively).
func coverageMask(store *Store, h Handle, bit map[host.EndpointID]int) (uint32, bool) {
	var mask uint32
	for _, o := range store.OutputAncestors(h) {
		b, ok := bit[o]
		if !ok {
			return 0, false
		}
		mask |= 1 << uint(b)
	}
	return mask, true
}

// cumulativeCost sums Proposal.Cost along h's ancestor chain.
func cumulativeCost(store *Store, h Handle) uint64 {
	var total uint64
	for {
		p := store.Get(h)
		total += p.Cost
		if p.Parent.Kind == RootParent {
			return total
		}
		h = p.Parent.BranchProposal
	}
}

// Closure expands terminals into the full set of proposal handles that
// must be instantiated: each terminal plus every one of its ancestors,
// deduplicated, since two terminals may share a common ancestor branch
// point (spec.md §4.5's fan-out / splitter case).
func Closure(store *Store, terminals []Handle) []Handle {
	seen := make(map[Handle]struct{})
	var order []Handle
	for _, h := range terminals {
		for {
			if _, dup := seen[h]; dup {
				break
			}
			seen[h] = struct{}{}
			order = append(order, h)
			p := store.Get(h)
			if p.Parent.Kind == RootParent {
				break
			}
			h = p.Parent.BranchProposal
		}
	}
	return order
}
