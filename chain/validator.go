package chain

import "github.com/lvroute/autoroute/caps"

// Validator is a pure predicate over a candidate chain. On rejection it
// returns (failingDepth, false), where failingDepth is the index of the
// deepest position still known-good: positions 0..failingDepth can be
// reused unchanged by the enumerator's backtracking, and position
// failingDepth+1 is the one that must change next, per spec.md §4.2.
// failingDepth of -1 means even position 0 is implicated. A Validator
// returns (_, true) when the chain is acceptable; the int is meaningless
// in that case and callers must check ok first.
type Validator func(sink, src caps.Set, c Chain) (failingDepth int, ok bool)

// Compose runs validators in order and returns the first reported failure,
// or ok=true if every validator accepts the chain. This is the fixed-order
// composition spec.md §4.2 describes: the first validator that fails
// determines the backtrack point.
func Compose(validators ...Validator) Validator {
	return func(sink, src caps.Set, c Chain) (int, bool) {
		for _, v := range validators {
			if depth, ok := v(sink, src, c); !ok {
				return depth, false
			}
		}
		return 0, true
	}
}

// CapsConnectivity walks the chain from the sink end to the src end: each
// boundary's src-side caps must intersect the next position's sink-side
// caps, and the chain's own ends must intersect sink/src respectively.
// Returns the deepest known-good position before the first failure, per
// spec.md §4.2.
func CapsConnectivity(sink, src caps.Set, c Chain) (int, bool) {
	if len(c) == 0 {
		return 0, true
	}
	if sink != nil && !c[0].SinkCaps.Intersects(sink) {
		return -1, false
	}
	for i := 0; i < len(c)-1; i++ {
		if !c[i].SrcCaps.Intersects(c[i+1].SinkCaps) {
			return i, false
		}
	}
	if src != nil && !c[len(c)-1].SrcCaps.Intersects(src) {
		return len(c) - 2, false
	}
	return 0, true
}

// NoConsecutiveDuplicates forbids chain[i] == chain[i+1] (same factory used
// twice in a row), per spec.md §4.2.
func NoConsecutiveDuplicates(_, _ caps.Set, c Chain) (int, bool) {
	for i := 0; i < len(c)-1; i++ {
		if c[i].FactoryID == c[i+1].FactoryID {
			return i, false
		}
	}
	return 0, true
}

// ClassOrdering is the optional policy-enabled validator (spec.md §4.2):
// mapping each entry to its first classification stage
// (Parser < Decoder < Converter < Encoder), stages must be non-decreasing
// walking the chain from sink to src (position 0 to position n-1). Entries
// with no recognized classification bit (Stage() == -1) are unconstrained
// and never cause a violation.
func ClassOrdering(_, _ caps.Set, c Chain) (int, bool) {
	lastGood := -1
	lastStage := -1
	for i, e := range c {
		stage := e.KlassMask.Stage()
		if stage == -1 {
			lastGood = i
			continue
		}
		if stage < lastStage {
			return lastGood, false
		}
		lastStage = stage
		lastGood = i
	}
	return 0, true
}

// Default composes the two validators the core always runs: capability
// connectivity, then no-consecutive-duplicates. ClassOrdering is only
// wired in when the policy layer opts into it (spec.md §4.2 "enabled by
// policy").
func Default() Validator {
	return Compose(CapsConnectivity, NoConsecutiveDuplicates)
}

// WithClassOrdering composes the default validators plus ClassOrdering.
func WithClassOrdering() Validator {
	return Compose(CapsConnectivity, NoConsecutiveDuplicates, ClassOrdering)
}
