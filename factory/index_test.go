package factory_test

import (
	"testing"

	"github.com/lvroute/autoroute/caps"
	"github.com/lvroute/autoroute/factory"
	"github.com/stretchr/testify/require"
)

func tok(name string) caps.Set { return caps.NewTokenSet(caps.Token{Name: name}) }

func TestIndex_Build_SkipsMultiPadAndNilTemplates(t *testing.T) {
	idx := factory.NewIndex()
	idx.Build([]factory.CatalogEntry{
		{ID: "a", SinkCaps: tok("raw-rgb"), SrcCaps: tok("raw-yuv"), Classification: "Converter"},
		{ID: "muxer", SinkCaps: tok("raw-rgb"), SrcCaps: tok("raw-yuv"), MultiPad: true},
		{ID: "broken", SinkCaps: nil, SrcCaps: tok("raw-yuv")},
	})
	require.Equal(t, 1, idx.Len())
	require.Equal(t, factory.ID("a"), idx.At(0).FactoryID)
}

func TestIndex_Build_Idempotent(t *testing.T) {
	idx := factory.NewIndex()
	catalog := []factory.CatalogEntry{
		{ID: "b", SinkCaps: tok("raw-yuv"), SrcCaps: tok("enc-h264"), Classification: "Encoder"},
		{ID: "a", SinkCaps: tok("raw-rgb"), SrcCaps: tok("raw-yuv"), Classification: "Converter"},
	}
	idx.Build(catalog)
	first := idx.Entries()
	idx.Build(catalog)
	second := idx.Entries()
	require.Equal(t, first, second)
	require.Equal(t, factory.ID("a"), first[0].FactoryID, "entries are sorted by FactoryID")
}

func TestIndex_Build_Diff(t *testing.T) {
	idx := factory.NewIndex()
	idx.Build([]factory.CatalogEntry{{ID: "a", SinkCaps: tok("x"), SrcCaps: tok("y")}})
	diff := idx.Build([]factory.CatalogEntry{{ID: "b", SinkCaps: tok("x"), SrcCaps: tok("y")}})
	require.Equal(t, []factory.ID{"b"}, diff.Added)
	require.Equal(t, []factory.ID{"a"}, diff.Removed)
}

func TestIndex_AllCaps_Union(t *testing.T) {
	idx := factory.NewIndex()
	idx.Build([]factory.CatalogEntry{
		{ID: "a", SinkCaps: tok("raw-rgb"), SrcCaps: tok("raw-yuv")},
		{ID: "b", SinkCaps: tok("raw-yuv"), SrcCaps: tok("enc-h264")},
	})
	require.True(t, idx.AllSinkCaps().Intersects(tok("raw-rgb")))
	require.True(t, idx.AllSinkCaps().Intersects(tok("raw-yuv")))
	require.True(t, idx.AllSrcCaps().Intersects(tok("enc-h264")))
}

func TestKlass_Stage(t *testing.T) {
	require.Equal(t, 0, factory.Parser.Stage())
	require.Equal(t, 3, factory.Encoder.Stage())
	require.Equal(t, -1, factory.Klass(0).Stage())
}
