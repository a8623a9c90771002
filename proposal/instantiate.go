package proposal

import (
	"fmt"

	"github.com/lvroute/autoroute/factory"
	"github.com/lvroute/autoroute/host"
)

// ElementRef identifies one materialized chain-step element: which proposal
// and step position it fills.
type ElementRef struct {
	Proposal Handle
	Step     int
	Element  host.Element
}

// Materialization is the concrete wiring plan spec.md §4.5's Instantiation
// phase describes: which input endpoints need a fan-out splitter, which
// intermediate steps need a branch splitter, which inputs are dangling and
// need a null-sink, and the live elements created for every step of every
// proposal in the selection's closure.
type Materialization struct {
	// InputSplitters lists the input endpoints that need a splitter
	// element fanning out to more than one consumer (or a single
	// passthrough consumer, which still can't take the input directly
	// per spec.md §4.5).
	InputSplitters []host.EndpointID

	// DanglingInputs lists input endpoints with no proposal in the
	// closure at all; these must be terminated by a null-sink.
	DanglingInputs []host.EndpointID

	// BranchSplitters lists the (proposal, step) positions that feed at
	// least one branch proposal in the closure and therefore need a
	// splitter on that step's output.
	BranchSplitters []StepRef

	// Elements are every live element created, one per step of every
	// proposal in the closure, in closure order.
	Elements []ElementRef

	// InputSplitterElements and BranchSplitterElements hold one live
	// splitter element per entry in InputSplitters and BranchSplitters,
	// keyed by the same identifiers; they stay empty when no Splitter
	// collaborator is configured.
	InputSplitterElements  map[host.EndpointID]host.Element
	BranchSplitterElements map[StepRef]host.Element

	// NullSinkElements holds one live null-sink element per entry in
	// DanglingInputs; it stays empty when no NullSink collaborator is
	// configured.
	NullSinkElements map[host.EndpointID]host.Element
}

// StepRef addresses one step position within a proposal.
type StepRef struct {
	Proposal Handle
	Step     int
}

// Instantiate computes the splitter/null-sink/materialization plan for sel
// against every input endpoint the caller knows about, per spec.md §4.5. It
// does not link anything into a live pipeline itself — that is the host
// framework's job, using elementFactories to create real (non-sandboxed)
// elements and collaborators for fan-out/termination — but it performs
// every placement decision the spec assigns to the core.
func Instantiate(store *Store, sel Selection, inputs []host.EndpointID, elementFactories map[factory.ID]host.ElementFactory, collaborators host.Collaborators) (*Materialization, error) {
	closure := Closure(store, sel.Terminals)
	closureSet := make(map[Handle]struct{}, len(closure))
	for _, h := range closure {
		closureSet[h] = struct{}{}
	}

	m := &Materialization{}

	// Count how many closure proposals root directly on each input.
	rootCount := make(map[host.EndpointID]int)
	rootSinglePassthrough := make(map[host.EndpointID]bool)
	for _, h := range closure {
		p := store.Get(h)
		if p.Parent.Kind != RootParent {
			continue
		}
		rootCount[p.Parent.RootEndpoint]++
		if rootCount[p.Parent.RootEndpoint] == 1 {
			rootSinglePassthrough[p.Parent.RootEndpoint] = len(p.Steps) == 0
		} else {
			rootSinglePassthrough[p.Parent.RootEndpoint] = false
		}
	}

	m.InputSplitterElements = make(map[host.EndpointID]host.Element)
	m.NullSinkElements = make(map[host.EndpointID]host.Element)
	for _, in := range inputs {
		switch {
		case rootCount[in] == 0:
			m.DanglingInputs = append(m.DanglingInputs, in)
			if collaborators.NullSink != nil {
				m.NullSinkElements[in] = collaborators.NullSink.Create()
			}
		case rootCount[in] > 1 || rootSinglePassthrough[in]:
			m.InputSplitters = append(m.InputSplitters, in)
			if collaborators.Splitter != nil {
				m.InputSplitterElements[in] = collaborators.Splitter.Create()
			}
		}
	}

	// Any step that is the BranchProposal of another closure proposal
	// needs a splitter on its output.
	branchNeeded := make(map[StepRef]struct{})
	for _, h := range closure {
		p := store.Get(h)
		if p.Parent.Kind != BranchParent {
			continue
		}
		if _, ok := closureSet[p.Parent.BranchProposal]; !ok {
			continue
		}
		branchNeeded[StepRef{Proposal: p.Parent.BranchProposal, Step: p.Parent.BranchStep}] = struct{}{}
	}
	m.BranchSplitterElements = make(map[StepRef]host.Element)
	for ref := range branchNeeded {
		m.BranchSplitters = append(m.BranchSplitters, ref)
		if collaborators.Splitter != nil {
			m.BranchSplitterElements[ref] = collaborators.Splitter.Create()
		}
	}

	for _, h := range closure {
		p := store.Get(h)
		for i, step := range p.Steps {
			ef, ok := elementFactories[step.FactoryID]
			if !ok {
				return nil, fmt.Errorf("proposal: no element factory registered for %q", step.FactoryID)
			}
			el := ef.Create()
			if !el.Negotiate(step.SinkCaps) {
				return nil, fmt.Errorf("proposal: live negotiation failed materializing %q at proposal %d step %d", step.FactoryID, h, i)
			}
			m.Elements = append(m.Elements, ElementRef{Proposal: h, Step: i, Element: el})
		}
	}

	return m, nil
}
