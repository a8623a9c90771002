package chain_test

import (
	"testing"

	"github.com/lvroute/autoroute/caps"
	"github.com/lvroute/autoroute/chain"
	"github.com/lvroute/autoroute/factory"
	"github.com/stretchr/testify/require"
)

func tok(name string) caps.Set { return caps.NewTokenSet(caps.Token{Name: name}) }

func entry(id factory.ID, sink, src string, klass factory.Klass) factory.Entry {
	return factory.Entry{FactoryID: id, SinkCaps: tok(sink), SrcCaps: tok(src), KlassMask: klass}
}

func TestCapsConnectivity(t *testing.T) {
	a := entry("A", "raw-rgb", "raw-yuv", 0)
	b := entry("B", "raw-yuv", "enc-h264", 0)
	c := entry("C", "enc-h264", "enc-aac", 0) // unrelated sink for the mismatch case

	_, ok := chain.CapsConnectivity(tok("raw-rgb"), tok("enc-h264"), chain.Chain{a, b})
	require.True(t, ok)

	depth, ok := chain.CapsConnectivity(tok("raw-rgb"), tok("enc-h264"), chain.Chain{a, c})
	require.False(t, ok)
	require.Equal(t, 0, depth, "position 0 is the deepest known-good position before the mismatch")
}

func TestNoConsecutiveDuplicates(t *testing.T) {
	a := entry("A", "x", "y", 0)
	depth, ok := chain.NoConsecutiveDuplicates(nil, nil, chain.Chain{a, a})
	require.False(t, ok)
	require.Equal(t, 0, depth)

	_, ok = chain.NoConsecutiveDuplicates(nil, nil, chain.Chain{a})
	require.True(t, ok)
}

func TestClassOrdering(t *testing.T) {
	enc := entry("ENC", "raw-yuv", "enc-h264", factory.Encoder)
	dec := entry("DEC", "enc-h264", "raw-yuv", factory.Decoder)

	depth, ok := chain.ClassOrdering(nil, nil, chain.Chain{enc, dec})
	require.False(t, ok, "encoder before decoder violates non-decreasing stage order")
	require.Equal(t, 0, depth)

	parser := entry("PARSE", "bytestream", "enc-h264", factory.Parser)
	_, ok = chain.ClassOrdering(nil, nil, chain.Chain{parser, dec, enc})
	require.True(t, ok)
}

func TestCompose_FirstFailureWins(t *testing.T) {
	a := entry("A", "raw-rgb", "raw-yuv", 0)
	v := chain.Compose(chain.CapsConnectivity, chain.NoConsecutiveDuplicates)
	depth, ok := v(tok("raw-rgb"), tok("raw-yuv"), chain.Chain{a, a})
	require.False(t, ok)
	require.Equal(t, 0, depth, "CapsConnectivity fails first, before the duplicate check runs")
}
