// Package chain enumerates and validates candidate factory chains: finite
// ordered sequences of factory.Entry references considered as a linear
// pipeline from a sink capability set to a src capability set.
package chain

import "github.com/lvroute/autoroute/factory"

// MaxLength is the default bound on candidate chain length (spec.md §3,
// §8). The generator uses it when no other bound is configured;
// router.WithMaxChainLength replaces it with any positive value.
const MaxLength = 4

// Chain is a finite ordered sequence of factory entries, 0 <= len <= MaxLength.
// Position 0 is nearest the sink (upstream-most transformation); the last
// position is nearest the src.
type Chain []factory.Entry

// Clone returns an independent copy of c that shares no backing array
// with it.
func (c Chain) Clone() Chain {
	out := make(Chain, len(c))
	copy(out, c)
	return out
}
