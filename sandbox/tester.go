package sandbox

import (
	"github.com/lvroute/autoroute/caps"
	"github.com/lvroute/autoroute/chain"
	"github.com/lvroute/autoroute/host"
)

// Tester drives a candidate chain through the negotiation protocol in an
// isolated sandbox and reports the concrete per-step capability profile,
// per spec.md §4.4. A Tester is reusable across many candidates within one
// planning pass; it always returns its acquired instances to the cache
// before returning, on every exit path.
type Tester struct {
	cache *Cache
}

// NewTester returns a Tester backed by cache.
func NewTester(cache *Cache) *Tester {
	return &Tester{cache: cache}
}

// Passthrough is the distinguished zero-step tester of spec.md §4.4: it
// checks whether desiredSink intersects the downstream endpoint's
// advertised caps, without touching the element cache.
func Passthrough(desiredSink, downstreamAccepted caps.Set) bool {
	if desiredSink == nil || downstreamAccepted == nil {
		return false
	}
	return desiredSink.Intersects(downstreamAccepted)
}

// Test materializes c in the sandbox: it acquires one instance per
// position, negotiates desiredSink into the head and threads each
// element's fixated src caps into the next element's sink, requires the
// tail's fixated src caps intersect downstreamAccepted, and returns the
// fixated per-position steps. Every acquired instance is released back to
// the cache (idle) before Test returns, success or failure, per spec.md
// §4.4 step 7.
func (t *Tester) Test(c chain.Chain, desiredSink, downstreamAccepted caps.Set) ([]host.Step, bool) {
	if len(c) == 0 {
		if Passthrough(desiredSink, downstreamAccepted) {
			return nil, true
		}
		return nil, false
	}

	elements := make([]host.Element, 0, len(c))
	defer func() {
		for i, el := range elements {
			t.cache.Release(c[i].FactoryID, el)
		}
	}()

	offered := desiredSink
	for _, entry := range c {
		el, ok := t.cache.Acquire(entry.FactoryID)
		if !ok {
			return nil, false
		}
		elements = append(elements, el)

		if !el.Negotiate(offered) {
			return nil, false
		}
		_, srcOK := el.FixatedSrcCaps()
		if !srcOK {
			return nil, false
		}
		offered, _ = el.FixatedSrcCaps()
	}

	tailSrc, ok := elements[len(elements)-1].FixatedSrcCaps()
	if !ok || !tailSrc.Intersects(downstreamAccepted) {
		return nil, false
	}

	steps := make([]host.Step, len(c))
	for i, el := range elements {
		sinkCaps, sinkOK := el.FixatedSinkCaps()
		srcCaps, srcOK := el.FixatedSrcCaps()
		if !sinkOK || !srcOK {
			return nil, false
		}
		steps[i] = host.Step{FactoryID: c[i].FactoryID, SinkCaps: sinkCaps, SrcCaps: srcCaps}
	}
	return steps, true
}
