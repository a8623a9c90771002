package router_test

import (
	"testing"

	"github.com/lvroute/autoroute/caps"
	"github.com/lvroute/autoroute/factory"
	"github.com/lvroute/autoroute/host"
	"github.com/lvroute/autoroute/host/memhost"
	"github.com/lvroute/autoroute/rebuild"
	"github.com/lvroute/autoroute/router"
	"github.com/stretchr/testify/require"
)

func tok(name string) caps.Set { return caps.NewTokenSet(caps.Token{Name: name}) }

func TestBin_Rebuild_RequiresGetFactories(t *testing.T) {
	b := router.New(nil)
	_, err := b.Rebuild(nil, nil)
	require.ErrorIs(t, err, router.ErrNoFactoriesHook)
}

func TestBin_Rebuild_SingleStepChain(t *testing.T) {
	a := &memhost.Factory{FactoryID: "A", Sink: tok("raw-rgb"), Src: tok("raw-yuv")}
	policy := host.Policy{
		GetFactories: func() []factory.CatalogEntry {
			return []factory.CatalogEntry{{ID: "A", SinkCaps: tok("raw-rgb"), SrcCaps: tok("raw-yuv")}}
		},
	}
	b := router.New([]host.ElementFactory{a}, router.WithPolicy(policy))
	require.Equal(t, rebuild.Idle, b.State())

	in := memhost.NewEndpoint("in", host.Input, tok("raw-rgb"))
	in.SetCaps(tok("raw-rgb"))
	out := memhost.NewEndpoint("out", host.Output, tok("raw-yuv"))
	out.SetCaps(tok("raw-yuv"))

	plan, err := b.Rebuild([]host.Endpoint{in}, []host.Endpoint{out})
	require.NoError(t, err)
	require.Equal(t, uint64(1), plan.Selection.Cost)
	require.Equal(t, rebuild.Idle, b.State())
	require.Equal(t, 1, b.Index().Len())
}

// A Rebuild with no output endpoints at all must still complete and return
// to Idle rather than hanging in WaitRebuilding forever, per spec.md §5's
// "if the set of awaiting outputs is empty at DRAINING entry, the machine
// transitions immediately".
func TestBin_Rebuild_NoOutputs(t *testing.T) {
	policy := host.Policy{
		GetFactories: func() []factory.CatalogEntry { return nil },
	}
	b := router.New(nil, router.WithPolicy(policy))

	in := memhost.NewEndpoint("in", host.Input, tok("raw-rgb"))
	in.SetCaps(tok("raw-rgb"))

	plan, err := b.Rebuild([]host.Endpoint{in}, nil)
	require.NoError(t, err)
	require.Empty(t, plan.Selection.Terminals)
	require.Equal(t, rebuild.Idle, b.State())
}

// WithMaxChainLength caps how long a non-passthrough chain may grow; a
// route that needs two steps must be left uncovered once the cap is
// lowered to one, per spec.md §3's "design constant, default 4".
func TestBin_Rebuild_MaxChainLength(t *testing.T) {
	a := &memhost.Factory{FactoryID: "A", Sink: tok("raw-rgb"), Src: tok("raw-yuv")}
	b := &memhost.Factory{FactoryID: "B", Sink: tok("raw-yuv"), Src: tok("enc-h264")}
	policy := host.Policy{
		GetFactories: func() []factory.CatalogEntry {
			return []factory.CatalogEntry{
				{ID: "A", SinkCaps: tok("raw-rgb"), SrcCaps: tok("raw-yuv")},
				{ID: "B", SinkCaps: tok("raw-yuv"), SrcCaps: tok("enc-h264")},
			}
		},
	}
	bin := router.New([]host.ElementFactory{a, b}, router.WithPolicy(policy), router.WithMaxChainLength(1))

	in := memhost.NewEndpoint("in", host.Input, tok("raw-rgb"))
	in.SetCaps(tok("raw-rgb"))
	out := memhost.NewEndpoint("out", host.Output, tok("enc-h264"))
	out.SetCaps(tok("enc-h264"))

	plan, err := bin.Rebuild([]host.Endpoint{in}, []host.Endpoint{out})
	require.NoError(t, err)
	require.Empty(t, plan.Selection.Terminals, "the two-step route exceeds the configured length-1 cap")
}
