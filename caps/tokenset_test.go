package caps_test

import (
	"testing"

	"github.com/lvroute/autoroute/caps"
	"github.com/stretchr/testify/require"
)

func rawRGB() caps.Token  { return caps.Token{Name: "video/x-raw", Fields: map[string][]string{"format": {"RGB"}}} }
func rawYUV() caps.Token  { return caps.Token{Name: "video/x-raw", Fields: map[string][]string{"format": {"I420"}}} }
func encH264() caps.Token { return caps.Token{Name: "video/x-h264"} }

func TestTokenSet_Intersects(t *testing.T) {
	rgb := caps.NewTokenSet(rawRGB())
	yuv := caps.NewTokenSet(rawYUV())
	rawAny := caps.NewTokenSet(caps.Token{Name: "video/x-raw"})

	require.False(t, rgb.Intersects(yuv), "distinct fixed formats must not intersect")
	require.True(t, rgb.Intersects(rawAny), "unconstrained format field must match any value")
	require.True(t, rawAny.Intersects(rgb))
}

func TestTokenSet_Union_Fixated(t *testing.T) {
	rgb := caps.NewTokenSet(rawRGB())
	yuv := caps.NewTokenSet(rawYUV())

	require.True(t, rgb.Fixated())
	u := rgb.Union(yuv)
	require.False(t, u.Fixated(), "a union of two distinct alternatives is a template")
	require.True(t, u.Intersects(rgb))
	require.True(t, u.Intersects(yuv))
}

func TestTokenSet_IntersectWithFilter(t *testing.T) {
	both := caps.NewTokenSet(rawRGB(), rawYUV())
	filter := caps.NewTokenSet(rawRGB())

	got := both.IntersectWithFilter(filter)
	require.NotNil(t, got)
	require.True(t, got.Fixated())
	require.True(t, got.Intersects(filter))
	require.False(t, got.Intersects(caps.NewTokenSet(rawYUV())))
}

func TestTokenSet_IntersectWithFilter_Empty(t *testing.T) {
	rgb := caps.NewTokenSet(rawRGB())
	h264 := caps.NewTokenSet(encH264())

	require.Nil(t, rgb.IntersectWithFilter(h264))
}

func TestEmpty(t *testing.T) {
	require.True(t, caps.Empty(nil))
	require.True(t, caps.Empty(caps.NewTokenSet()))
	require.False(t, caps.Empty(caps.NewTokenSet(rawRGB())))
}

func TestTokenSet_Normalize_Dedupes(t *testing.T) {
	ts := caps.NewTokenSet(rawRGB(), rawRGB())
	require.True(t, ts.Fixated(), "duplicate alternatives collapse to one")
	require.Equal(t, ts.String(), ts.Normalize().String())
}
