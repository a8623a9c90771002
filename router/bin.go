// Package router assembles the factory index, proposal generator/selector,
// sandbox tester and rebuild state machine into the single entry point a
// caller drives: Bin. This is the SPEC_FULL.md top-level component; its
// internals are every other package in this module wired together, in the
// shape of the teacher library's builder.BuildGraph: one orchestrator
// function/type, options resolved once, then delegated to focused helpers.
package router

import (
	"errors"
	"time"

	"github.com/lvroute/autoroute/factory"
	"github.com/lvroute/autoroute/host"
	"github.com/lvroute/autoroute/proposal"
	"github.com/lvroute/autoroute/rebuild"
	"github.com/lvroute/autoroute/sandbox"
	"go.uber.org/zap"
)

// ErrNoFactoriesHook is returned by Rebuild when the bin's policy has no
// GetFactories hook configured, per spec.md §7's policy-missing condition.
var ErrNoFactoriesHook = errors.New("router: policy.GetFactories is required")

// Bin is the auto-routing core of spec.md §2: an index of available
// factories, a rebuild state machine, and the machinery to turn a set of
// input/output endpoints into a minimum-cost routed graph.
type Bin struct {
	cfg   *config
	idx   *factory.Index
	mach  *rebuild.Machine
	cache *sandbox.Cache
}

// New constructs a Bin from opts. The returned Bin has an empty factory
// index; call Rebuild to populate it from the configured policy and run
// the first planning pass.
func New(elementFactories []host.ElementFactory, opts ...Option) *Bin {
	return &Bin{
		cfg:   newConfig(opts...),
		idx:   factory.NewIndex(),
		mach:  rebuild.NewMachine(),
		cache: sandbox.NewCache(elementFactories),
	}
}

// Plan is the result of one successful rebuild: the full layered proposal
// set (for inspection) and the winning selection.
type Plan struct {
	Layers    [][]proposal.Handle
	Selection proposal.Selection
	Store     *proposal.Store
}

// Rebuild runs one full cycle of spec.md §4.5/§5: rebuild the factory index
// from the policy's catalog, generate the layered proposal set for the
// given endpoints, select the minimum-cost cover, and drive the rebuild
// state machine from Draining through Rebuilding back to Idle.
//
// The state machine tracks a needs_reconfigure flag for the ID of every
// endpoint in outputs. Rebuild only plans; call Instantiate on the result to compute the splitter/
// null-sink/element placement, and apply that against the live pipeline
// yourself — actually linking elements is a host-framework concern.
func (b *Bin) Rebuild(inputs, outputs []host.Endpoint) (Plan, error) {
	if b.cfg.policy.GetFactories == nil {
		return Plan{}, ErrNoFactoriesHook
	}

	outputIDs := make([]string, len(outputs))
	for i, o := range outputs {
		outputIDs[i] = string(o.ID())
	}
	if err := b.mach.Begin(outputIDs); err != nil {
		return Plan{}, err
	}
	// memhost-style in-process bins have nothing to drain; a real
	// framework binding would flush each output before calling
	// NotifyDrained per output.
	for range outputIDs {
		b.mach.NotifyDrained()
	}
	b.mach.WaitRebuilding()

	b.cfg.policy.BeginBuildingGraph()
	start := time.Now()

	diff := b.idx.Build(b.cfg.policy.GetFactories())
	b.cfg.logger.Debug("factory index rebuilt",
		zap.Int("added", len(diff.Added)), zap.Int("removed", len(diff.Removed)))

	tester := sandbox.NewTester(b.cache)
	store := proposal.NewStore()
	gen := proposal.NewGenerator(b.idx, b.cfg.policy, tester, store, b.cfg.maxChainLength)
	layers := gen.Generate(inputs, outputs)

	var all []proposal.Handle
	for _, l := range layers {
		all = append(all, l...)
	}
	sel, err := proposal.Select(store, all, outputs)
	if err != nil {
		for _, id := range outputIDs {
			b.mach.Complete(id)
		}
		return Plan{}, err
	}

	covered := coveredOutputCount(store, sel)
	b.cfg.metrics.PlanningDuration.Observe(time.Since(start).Seconds())
	b.cfg.metrics.ProposalsGenerated.Add(float64(store.Len()))
	b.cfg.metrics.OutputsCovered.Set(float64(covered))
	b.cfg.metrics.OutputsUncovered.Set(float64(len(outputs) - covered))
	b.cfg.metrics.RebuildState.Set(float64(rebuild.Rebuilding))

	b.cfg.logger.Info("planning pass complete",
		zap.Int("layers", len(layers)),
		zap.Int("proposals", store.Len()),
		zap.Uint64("selected_cost", sel.Cost),
		zap.Int("covered_outputs", covered),
	)

	if len(outputIDs) == 0 {
		// Nothing was awaiting reconfiguration, so no per-output Complete
		// call will ever arrive; complete the (empty) set directly so the
		// machine still returns to Idle.
		b.mach.Complete("")
	}
	for _, id := range outputIDs {
		b.mach.Complete(id)
	}
	b.cfg.metrics.RebuildState.Set(float64(rebuild.Idle))

	return Plan{Layers: layers, Selection: sel, Store: store}, nil
}

// Instantiate computes the splitter/null-sink/materialization plan for a
// Plan's selection, per spec.md §4.5's Instantiation phase. inputIDs must
// list every input endpoint the bin was rebuilt with.
func (b *Bin) Instantiate(plan Plan, inputIDs []host.EndpointID) (*proposal.Materialization, error) {
	return proposal.Instantiate(plan.Store, plan.Selection, inputIDs, b.cache.Factories(), b.cfg.collaborators)
}

// State reports the bin's current rebuild phase.
func (b *Bin) State() rebuild.State { return b.mach.State() }

// Index exposes the bin's live factory index, e.g. to inspect the currently
// loaded catalog.
func (b *Bin) Index() *factory.Index { return b.idx }

func coveredOutputCount(store *proposal.Store, sel proposal.Selection) int {
	seen := make(map[host.EndpointID]struct{})
	for _, h := range sel.Terminals {
		for _, o := range store.OutputAncestors(h) {
			seen[o] = struct{}{}
		}
	}
	return len(seen)
}
