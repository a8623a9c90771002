package proposal

import (
	"github.com/lvroute/autoroute/caps"
	"github.com/lvroute/autoroute/chain"
	"github.com/lvroute/autoroute/factory"
	"github.com/lvroute/autoroute/host"
	"github.com/lvroute/autoroute/sandbox"
)

// Generator runs the BFS layering of spec.md §4.5: layer 0 is one
// best-effort proposal per (input, output) pair; each later layer branches
// off the previous layer's intermediate steps towards outputs not yet
// covered on that branch's ancestor chain. Generation stops the first
// layer that yields nothing.
type Generator struct {
	idx            *factory.Index
	policy         host.Policy
	tester         *sandbox.Tester
	store          *Store
	maxChainLength int
}

// NewGenerator returns a Generator. policy should already be normalized
// (host.Policy.Normalized) so every hook is callable without a nil check.
// maxChainLength bounds the chain lengths findRoute will try beyond
// passthrough; a value <= 0 defaults to chain.MaxLength.
func NewGenerator(idx *factory.Index, policy host.Policy, tester *sandbox.Tester, store *Store, maxChainLength int) *Generator {
	if maxChainLength <= 0 {
		maxChainLength = chain.MaxLength
	}
	return &Generator{idx: idx, policy: policy, tester: tester, store: store, maxChainLength: maxChainLength}
}

// Generate produces the full layered proposal set for inputs and outputs,
// returning one handle slice per layer. Layer 0 is always present (though
// it may be empty if no input/output pair has a viable route); later
// layers are appended only while they yield at least one proposal.
func (g *Generator) Generate(inputs, outputs []host.Endpoint) [][]Handle {
	var layers [][]Handle

	layer0 := g.generateLayerZero(inputs, outputs)
	layers = append(layers, layer0)

	prev := layer0
	for len(prev) > 0 {
		next := g.generateBranchLayer(prev, outputs)
		if len(next) == 0 {
			break
		}
		layers = append(layers, next)
		prev = next
	}
	return layers
}

func (g *Generator) generateLayerZero(inputs, outputs []host.Endpoint) []Handle {
	var layer []Handle
	for _, in := range inputs {
		for _, out := range outputs {
			sink := in.CurrentCaps()
			target := out.CurrentCaps()
			if !g.policy.ValidateTransformRoute(sink, target) {
				continue
			}
			h, length, ok := g.findRoute(sink, target, Parent{Kind: RootParent, RootEndpoint: in.ID()}, out.ID())
			if ok {
				layer = append(layer, h)
				g.store.RecordWinner(in.ID(), out.ID(), length)
			}
		}
	}
	return layer
}

func (g *Generator) generateBranchLayer(prevLayer []Handle, outputs []host.Endpoint) []Handle {
	var layer []Handle
	for _, ph := range prevLayer {
		p := g.store.Get(ph)
		ancestors := make(map[host.EndpointID]struct{})
		for _, a := range g.store.OutputAncestors(ph) {
			ancestors[a] = struct{}{}
		}
		for i, step := range p.Steps {
			for _, out := range outputs {
				if _, already := ancestors[out.ID()]; already {
					continue
				}
				sink := step.SrcCaps
				target := out.CurrentCaps()
				if !g.policy.ValidateTransformRoute(sink, target) {
					continue
				}
				h, _, ok := g.findRoute(sink, target, Parent{Kind: BranchParent, BranchProposal: ph, BranchStep: i}, out.ID())
				if ok {
					layer = append(layer, h)
				}
			}
		}
	}
	return layer
}

// findRoute implements the tie-break pinned by spec.md §4.4/§9: passthrough
// is tried first; only if it fails are chain lengths 1..maxChainLength
// tried in increasing order, and the first length that yields any proposal
// wins — no further lengths or alternative chains at that length are
// explored. The returned length is the winning chain length (0 for
// passthrough), recorded by the Layer-0 caller for SPEC_FULL.md §10's
// tie-break audit.
func (g *Generator) findRoute(sink, target caps.Set, parent Parent, out host.EndpointID) (Handle, int, bool) {
	if sandbox.Passthrough(sink, target) {
		return g.store.Add(Proposal{Parent: parent, SrcEndpoint: out, Steps: nil, Cost: 0}), 0, true
	}

	for n := 1; n <= g.maxChainLength; n++ {
		enum := chain.NewEnumerator(g.idx, n)
		for {
			c, ok := enum.Next(g.policy.ValidateChain, sink, target)
			if !ok {
				break
			}
			steps, tested := g.tester.Test(c, sink, target)
			if tested {
				cost := sumCost(steps, g.policy.CostStep)
				return g.store.Add(Proposal{Parent: parent, SrcEndpoint: out, Steps: steps, Cost: cost}), n, true
			}
		}
	}
	return 0, 0, false
}
