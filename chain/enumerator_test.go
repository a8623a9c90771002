package chain_test

import (
	"testing"

	"github.com/lvroute/autoroute/caps"
	"github.com/lvroute/autoroute/chain"
	"github.com/lvroute/autoroute/factory"
	"github.com/stretchr/testify/require"
)

func buildIndex(t *testing.T, entries ...factory.CatalogEntry) *factory.Index {
	t.Helper()
	idx := factory.NewIndex()
	idx.Build(entries)
	return idx
}

func TestEnumerator_LengthZero_YieldsEmptyChainOnce(t *testing.T) {
	idx := buildIndex(t, factory.CatalogEntry{ID: "A", SinkCaps: tok("x"), SrcCaps: tok("y")})
	e := chain.NewEnumerator(idx, 0)

	c, ok := e.Next(chain.Default(), tok("x"), tok("y"))
	require.True(t, ok)
	require.Empty(t, c)

	_, ok = e.Next(chain.Default(), tok("x"), tok("y"))
	require.False(t, ok)
}

func TestEnumerator_FindsOnlyValidChain(t *testing.T) {
	idx := buildIndex(t,
		factory.CatalogEntry{ID: "A", SinkCaps: tok("raw-rgb"), SrcCaps: tok("raw-yuv")},
		factory.CatalogEntry{ID: "B", SinkCaps: tok("raw-yuv"), SrcCaps: tok("enc-h264")},
	)
	e := chain.NewEnumerator(idx, 2)

	c, ok := e.Next(chain.Default(), tok("raw-rgb"), tok("enc-h264"))
	require.True(t, ok)
	require.Equal(t, []factory.ID{"A", "B"}, []factory.ID{c[0].FactoryID, c[1].FactoryID})

	_, ok = e.Next(chain.Default(), tok("raw-rgb"), tok("enc-h264"))
	require.False(t, ok, "BA, AA and BB are all pruned; AB was the only survivor")
}

func TestEnumerator_EmptyCatalog(t *testing.T) {
	idx := factory.NewIndex()
	idx.Build(nil)
	e := chain.NewEnumerator(idx, 1)
	_, ok := e.Next(chain.Default(), tok("x"), tok("y"))
	require.False(t, ok, "an empty catalog yields no positive-length chains")
}

func TestEnumerator_DeterministicOrder(t *testing.T) {
	idx := buildIndex(t,
		factory.CatalogEntry{ID: "A", SinkCaps: tok("x"), SrcCaps: tok("x")},
		factory.CatalogEntry{ID: "B", SinkCaps: tok("x"), SrcCaps: tok("x")},
	)
	acceptAll := chain.Validator(func(_, _ caps.Set, _ chain.Chain) (int, bool) { return 0, true })

	var got []string
	e := chain.NewEnumerator(idx, 2)
	for {
		c, ok := e.Next(acceptAll, nil, nil)
		if !ok {
			break
		}
		got = append(got, string(c[0].FactoryID)+string(c[1].FactoryID))
	}
	require.Equal(t, []string{"AA", "AB", "BA", "BB"}, got, "rightmost position advances fastest")
}
