package modulation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLegacyReturnsFalse(t *testing.T) {
	_, ok := Parse("440")
	require.False(t, ok, "plain scalar should not parse as a modulator chain")
}

func TestParseOscillateSine(t *testing.T) {
	mc, ok := Parse("200~2000:1")
	require.True(t, ok, "expected oscillate chain to parse")
	require.Equal(t, ChainOscillate, mc.Kind)
	require.Equal(t, ShapeSine, mc.Shape)
	require.Equal(t, float32(200), mc.Min)
	require.Equal(t, float32(2000), mc.Max)
}

func TestParseOscillateSuffixes(t *testing.T) {
	cases := map[string]ModShape{
		"0~1:1t": ShapeTriangle,
		"0~1:1w": ShapeSaw,
		"0~1:1q": ShapeSquare,
	}
	for s, want := range cases {
		mc, ok := Parse(s)
		require.Truef(t, ok, "%s: expected parse", s)
		require.Equalf(t, want, mc.Shape, "%s: unexpected shape", s)
	}
}

func TestParseRandomSuffixes(t *testing.T) {
	cases := map[string]ModShape{
		"0?1:1":  ShapeHold,
		"0?1:1s": ShapeRand,
		"0?1:1d": ShapeDrunk,
	}
	for s, want := range cases {
		mc, ok := Parse(s)
		require.Truef(t, ok, "%s: expected parse", s)
		require.Equalf(t, want, mc.Shape, "%s: unexpected shape", s)
	}
}

func TestParseTransitionSingle(t *testing.T) {
	mc, ok := Parse("0>1:2")
	require.True(t, ok, "expected transition to parse")
	require.Equal(t, ChainTransition, mc.Kind)
	require.Equal(t, 1, mc.Count)
	require.Equal(t, float32(1), mc.Segments[0].Target)
	require.Equal(t, CurveLinear, mc.Segments[0].Curve)
}

func TestParseTransitionCurves(t *testing.T) {
	mc, ok := Parse("0>1:2e")
	require.True(t, ok)
	require.Equal(t, CurveExponential, mc.Segments[0].Curve)

	mc, ok = Parse("0>1:2s")
	require.True(t, ok)
	require.Equal(t, CurveSmooth, mc.Segments[0].Curve)
}

func TestParseTransitionMulti(t *testing.T) {
	mc, ok := Parse("0>1:1>0.5:2e>0:1s")
	require.True(t, ok, "expected multi-segment transition to parse")
	require.Equal(t, 3, mc.Count)
}

func TestParseTransitionLooping(t *testing.T) {
	mc, ok := Parse("0>1:1~")
	require.True(t, ok)
	require.True(t, mc.Looping, "expected looping transition")
}

func TestParseInvalidFallsThrough(t *testing.T) {
	_, ok := Parse("not~a~number")
	require.False(t, ok, "garbage modulator syntax should not parse")
}

func TestTransitionLoopReturnsToStart(t *testing.T) {
	mc, ok := Parse("0>1:1~")
	require.True(t, ok)
	pm := NewParamMod(mc, 1)
	isr := float32(1.0 / 100.0)
	var last float32
	for i := 0; i < 100; i++ {
		last = pm.Tick(isr)
	}
	require.GreaterOrEqualf(t, last, float32(0.9), "expected transition near target before loop, got %v", last)

	for i := 0; i < 5; i++ {
		last = pm.Tick(isr)
	}
	require.LessOrEqualf(t, last, float32(0.5), "expected transition restarted near 0 after loop, got %v", last)
}

func TestOscillateSweepBounded(t *testing.T) {
	mc, ok := Parse("200~2000:1")
	require.True(t, ok)
	pm := NewParamMod(mc, 1)
	isr := float32(1.0 / 48000.0)
	for i := 0; i < 48000; i++ {
		v := pm.Tick(isr)
		require.GreaterOrEqualf(t, v, float32(199), "oscillate value out of range at sample %d", i)
		require.LessOrEqualf(t, v, float32(2001), "oscillate value out of range at sample %d", i)
	}
}
