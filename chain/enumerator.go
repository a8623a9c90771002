package chain

import (
	"github.com/lvroute/autoroute/caps"
	"github.com/lvroute/autoroute/factory"
)

// Enumerator lazily walks the cartesian product of the factory index up to
// a fixed chain length n, pruning by validator feedback. It is an odometer:
// n positions each index into the factory catalog, the rightmost position
// (n-1) advancing fastest under normal iteration. When the validator
// reports a failing depth d, positions 0..=d are left untouched, positions
// d+2..n-1 are reset to the first factory, and position d+1 is advanced by
// one (carrying leftward on overflow) — per spec.md §4.3.
//
// Enumerator is restartable (Reset) across planning passes and pulls one
// candidate at a time from Next; it never pre-materializes the product.
type Enumerator struct {
	idx       *factory.Index
	n         int
	positions []int
	started   bool
	exhausted bool
	// yieldedZero guards the n==0 special case: the only "candidate" of
	// length zero is the empty chain itself.
	yieldedZero bool
}

// NewEnumerator returns an Enumerator over idx producing chains of exactly
// length n. idx must already be built. The enumerator takes no snapshot:
// it reads idx.Len() on every Next and every advance, so callers are
// expected to hold the planner's structural lock for the duration of a
// pass (spec.md §5) so that the index is not rebuilt mid-walk.
func NewEnumerator(idx *factory.Index, n int) *Enumerator {
	return &Enumerator{idx: idx, n: n}
}

// Reset rewinds the enumerator to its initial state so it can be walked
// again from the beginning.
func (e *Enumerator) Reset() {
	e.positions = nil
	e.started = false
	e.exhausted = false
	e.yieldedZero = false
}

// Next pulls the next chain satisfying validate(sink, src, chain), or
// returns ok=false once the product is exhausted. validate is applied by
// the enumerator itself so that failing-depth feedback can drive the
// fast-forward described in spec.md §4.3; a caller wanting the raw
// cartesian product without pruning can pass a Validator that always
// succeeds.
func (e *Enumerator) Next(validate Validator, sink, src caps.Set) (Chain, bool) {
	if e.exhausted {
		return nil, false
	}
	if e.n == 0 {
		if e.yieldedZero {
			e.exhausted = true
			return nil, false
		}
		e.yieldedZero = true
		c := Chain{}
		if _, ok := validate(sink, src, c); ok {
			return c, true
		}
		e.exhausted = true
		return nil, false
	}

	m := e.idx.Len()
	if m == 0 {
		e.exhausted = true
		return nil, false
	}

	if !e.started {
		e.positions = make([]int, e.n)
		e.started = true
	} else {
		if !e.advance(e.n - 1) {
			e.exhausted = true
			return nil, false
		}
	}

	for {
		c := e.buildChain()
		depth, ok := validate(sink, src, c)
		if ok {
			return c, true
		}
		// Positions 0..depth are left alone (reusable); positions strictly
		// after depth+1 are reset to the first factory; position depth+1
		// itself is incremented in place (carrying further left on
		// overflow), exactly as a standard odometer advances the position
		// it is changing rather than resetting it first.
		for i := depth + 2; i < e.n; i++ {
			e.positions[i] = 0
		}
		if !e.advance(depth + 1) {
			e.exhausted = true
			return nil, false
		}
	}
}

// advance increments positions[pos], carrying leftward on overflow exactly
// like an odometer. Returns false once the carry would go past position 0,
// meaning the product is exhausted.
func (e *Enumerator) advance(pos int) bool {
	m := e.idx.Len()
	for pos >= 0 {
		e.positions[pos]++
		if e.positions[pos] < m {
			return true
		}
		e.positions[pos] = 0
		pos--
	}
	return false
}

func (e *Enumerator) buildChain() Chain {
	c := make(Chain, e.n)
	for i, p := range e.positions {
		c[i] = e.idx.At(p)
	}
	return c
}
