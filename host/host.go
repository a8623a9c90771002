// Package host declares the collaborator interfaces the planning core
// depends on but never implements: the media framework's endpoints and
// element factories, and the policy layer's optional hooks. Per spec.md
// §9's re-architecture note, Policy is a record of optional closures rather
// than a virtual-method class, so callers construct exactly the behavior
// they need without implementing unused methods.
package host

import (
	"github.com/lvroute/autoroute/caps"
	"github.com/lvroute/autoroute/chain"
	"github.com/lvroute/autoroute/factory"
)

// EndpointID identifies an input or output endpoint of the bin. Opaque to
// the planner; only equality and use as a map key matter.
type EndpointID string

// Direction distinguishes input (sink-facing, delivers a stream into the
// bin) from output (src-facing, demands a stream out of the bin) endpoints.
type Direction int

const (
	Input Direction = iota
	Output
)

// Endpoint is one port of the bin, per spec.md §3 and §6. CurrentCaps
// returns the endpoint's current capability set, or nil before it has been
// described. Query asks the endpoint to intersect filter with the union of
// its peers' advertised capabilities and the relevant factory-index union,
// normalized before return, per spec.md §6.
type Endpoint interface {
	ID() EndpointID
	Direction() Direction
	CurrentCaps() caps.Set
	Query(filter caps.Set) caps.Set
}

// Element is a live or sandboxed instance of a factory: something the
// tester can link, feed a sink capability set into, and query for the
// fixated capability profile that resulted from negotiation (spec.md
// §4.4). Element implementations are supplied by ElementFactory.Create.
type Element interface {
	// FactoryID reports which factory produced this element.
	FactoryID() factory.ID

	// Negotiate drives the capability negotiation protocol: given the
	// caps offered on the sink side, it attempts to settle on a concrete
	// profile. Downstream acceptance is not part of this call; the sandbox
	// tester checks the tail's src caps itself. Returns false if
	// negotiation failed.
	Negotiate(offeredSink caps.Set) bool

	// FixatedSinkCaps and FixatedSrcCaps return the concrete caps settled
	// on by the last successful Negotiate call, or (nil, false) if the
	// element has not fixated on that side.
	FixatedSinkCaps() (caps.Set, bool)
	FixatedSrcCaps() (caps.Set, bool)

	// Reset returns the element to its pre-negotiation state so it can be
	// reused by the sandbox element cache for a different candidate.
	Reset()
}

// ElementFactory constructs Elements and advertises the static templates
// and classification the factory index was built from (spec.md §6).
type ElementFactory interface {
	ID() factory.ID
	Create() Element
	SinkCaps() caps.Set
	SrcCaps() caps.Set
	Classification() string
}

// Collaborators groups the two host-provided factories the instantiator
// needs beyond the catalog: a splitter (fan-out) and a null-sink to
// terminate an unconnected input, per spec.md §6 and §4.5.
type Collaborators struct {
	Splitter ElementFactory
	NullSink ElementFactory
}

// Policy is the set of optional hooks a caller supplies to customize
// planning, per spec.md §6. GetFactories is the only required field; a nil
// GetFactories is the policy-missing fatal error condition of spec.md §7.
type Policy struct {
	// GetFactories provides the candidate catalog. Required.
	GetFactories func() []factory.CatalogEntry

	// ValidateTransformRoute rejects a route (direct or branch) before any
	// chain enumeration happens for it (spec.md §4.5). Defaults to always-true.
	ValidateTransformRoute func(sinkCaps caps.Set, srcCapsOrEndpoint caps.Set) bool

	// ValidateChain overrides the default validator composition
	// (chain.Default) with a caller-supplied one, e.g. chain.WithClassOrdering.
	// Defaults to chain.Default().
	ValidateChain chain.Validator

	// CostStep assigns a cost to one materialized step. Defaults to 1.
	CostStep func(step Step) uint32

	// BeginBuildingGraph snapshots policy-layer state before a planning
	// pass starts (e.g. a video policy's min/max resolution tracking).
	// Optional; defaults to a no-op.
	BeginBuildingGraph func()
}

// Step is one materialized position in a tested chain: which factory filled
// it and the fixated caps settled on either side, per spec.md §4.4 step 6.
// package proposal reuses this type directly in Proposal.Steps rather than
// declaring its own, since a proposal's steps are exactly what the sandbox
// tester produced.
type Step struct {
	FactoryID factory.ID
	SinkCaps  caps.Set
	SrcCaps   caps.Set
}

// Normalized returns a Policy with every optional hook defaulted, so
// callers never need nil-checks.
func (p Policy) Normalized() Policy {
	if p.ValidateTransformRoute == nil {
		p.ValidateTransformRoute = func(caps.Set, caps.Set) bool { return true }
	}
	if p.ValidateChain == nil {
		p.ValidateChain = chain.Default()
	}
	if p.CostStep == nil {
		p.CostStep = func(Step) uint32 { return 1 }
	}
	if p.BeginBuildingGraph == nil {
		p.BeginBuildingGraph = func() {}
	}
	return p
}
