package proposal_test

import (
	"testing"

	"github.com/lvroute/autoroute/host"
	"github.com/lvroute/autoroute/host/memhost"
	"github.com/lvroute/autoroute/proposal"
	"github.com/stretchr/testify/require"
)

// Scenario 6: two candidate chains cover the same single output at costs 3
// and 5; the selector must pick the cost-3 one.
func TestSelect_Scenario6_CheaperWins(t *testing.T) {
	store := proposal.NewStore()
	out := memhost.NewEndpoint("out", host.Output, nil)

	cheap := store.Add(proposal.Proposal{
		Parent:      proposal.Parent{Kind: proposal.RootParent, RootEndpoint: "in"},
		SrcEndpoint: out.ID(),
		Cost:        3,
	})
	expensive := store.Add(proposal.Proposal{
		Parent:      proposal.Parent{Kind: proposal.RootParent, RootEndpoint: "in"},
		SrcEndpoint: out.ID(),
		Cost:        5,
	})

	sel, err := proposal.Select(store, []proposal.Handle{cheap, expensive}, []host.Endpoint{out})
	require.NoError(t, err)
	require.Equal(t, uint64(3), sel.Cost)
	require.Equal(t, []proposal.Handle{cheap}, sel.Terminals)
}

// No viable candidate at all: Select reports no error and an empty, zero
// cost Selection rather than failing, per spec.md §7.
func TestSelect_NoCandidates(t *testing.T) {
	store := proposal.NewStore()
	out := memhost.NewEndpoint("out", host.Output, nil)

	sel, err := proposal.Select(store, nil, []host.Endpoint{out})
	require.NoError(t, err)
	require.Empty(t, sel.Terminals)
	require.Equal(t, uint64(0), sel.Cost)
}

// Two independent single-output candidates must combine when no shared
// branch covers both outputs directly.
func TestSelect_CombinesIndependentCandidates(t *testing.T) {
	store := proposal.NewStore()
	outA := memhost.NewEndpoint("out-a", host.Output, nil)
	outB := memhost.NewEndpoint("out-b", host.Output, nil)

	pa := store.Add(proposal.Proposal{
		Parent:      proposal.Parent{Kind: proposal.RootParent, RootEndpoint: "in"},
		SrcEndpoint: outA.ID(),
		Cost:        2,
	})
	pb := store.Add(proposal.Proposal{
		Parent:      proposal.Parent{Kind: proposal.RootParent, RootEndpoint: "in"},
		SrcEndpoint: outB.ID(),
		Cost:        4,
	})

	sel, err := proposal.Select(store, []proposal.Handle{pa, pb}, []host.Endpoint{outA, outB})
	require.NoError(t, err)
	require.Equal(t, uint64(6), sel.Cost)
	require.ElementsMatch(t, []proposal.Handle{pa, pb}, sel.Terminals)

	closure := proposal.Closure(store, sel.Terminals)
	require.ElementsMatch(t, []proposal.Handle{pa, pb}, closure)
}

// A branch proposal whose ancestor chain already covers both outputs beats
// combining two independently-rooted candidates, and its closure recovers
// both proposals that must be instantiated.
func TestSelect_PrefersSharedBranchOverIndependentSum(t *testing.T) {
	store := proposal.NewStore()
	outYUV := memhost.NewEndpoint("out-yuv", host.Output, nil)
	outH264 := memhost.NewEndpoint("out-h264", host.Output, nil)

	direct := store.Add(proposal.Proposal{
		Parent:      proposal.Parent{Kind: proposal.RootParent, RootEndpoint: "in"},
		SrcEndpoint: outH264.ID(),
		Steps:       []host.Step{{FactoryID: "A"}, {FactoryID: "B"}},
		Cost:        2,
	})

	pYUV := store.Add(proposal.Proposal{
		Parent:      proposal.Parent{Kind: proposal.RootParent, RootEndpoint: "in"},
		SrcEndpoint: outYUV.ID(),
		Steps:       []host.Step{{FactoryID: "A"}},
		Cost:        1,
	})
	pBranch := store.Add(proposal.Proposal{
		Parent:      proposal.Parent{Kind: proposal.BranchParent, BranchProposal: pYUV, BranchStep: 0},
		SrcEndpoint: outH264.ID(),
		Steps:       []host.Step{{FactoryID: "B"}},
		Cost:        1,
	})

	sel, err := proposal.Select(store, []proposal.Handle{direct, pYUV, pBranch}, []host.Endpoint{outYUV, outH264})
	require.NoError(t, err)
	require.Equal(t, uint64(2), sel.Cost)
	require.Equal(t, []proposal.Handle{pBranch}, sel.Terminals)

	closure := proposal.Closure(store, sel.Terminals)
	require.ElementsMatch(t, []proposal.Handle{pBranch, pYUV}, closure)
}

func TestSelect_TooManyOutputs(t *testing.T) {
	store := proposal.NewStore()
	outputs := make([]host.Endpoint, proposal.MaxOutputs+1)
	for i := range outputs {
		outputs[i] = memhost.NewEndpoint(host.EndpointID(string(rune('a'+i))), host.Output, nil)
	}
	_, err := proposal.Select(store, nil, outputs)
	require.ErrorIs(t, err, proposal.ErrTooManyOutputs)
}
