package orbit

import (
	"math"
	"testing"

	"github.com/sova-org/doux/internal/types"
)

func finite(t *testing.T, label string, v float32) {
	t.Helper()
	if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
		t.Fatalf("%s produced non-finite output: %v", label, v)
	}
}

func defaultParams() EffectParams {
	return EffectParams{
		DelayTime: 0.333, DelayFeedback: 0.6, DelayType: types.DelayStandard,
		VerbType: types.ReverbDattorro, VerbDecay: 0.75, VerbDamp: 0.95, VerbPredelay: 0.1, VerbDiff: 0.7,
		CombFreq: 220, CombFeedback: 0.9, CombDamp: 0.1,
	}
}

func TestOrbitDattorroBounded(t *testing.T) {
	o := New(48000)
	p := defaultParams()
	for i := 0; i < 20000; i++ {
		o.ClearSends()
		o.AddDelaySend(0, 0.3)
		o.AddDelaySend(1, 0.3)
		o.AddVerbSend(0, 0.3)
		o.AddVerbSend(1, 0.3)
		o.AddCombSend(0, 0.3)
		o.AddCombSend(1, 0.3)
		o.Process(&p)
		finite(t, "delay out L", o.DelayOut[0])
		finite(t, "delay out R", o.DelayOut[1])
		finite(t, "verb out L", o.VerbOut[0])
		finite(t, "verb out R", o.VerbOut[1])
		finite(t, "comb out L", o.CombOut[0])
		finite(t, "comb out R", o.CombOut[1])
	}
}

func TestOrbitVitalBounded(t *testing.T) {
	o := New(48000)
	p := defaultParams()
	p.VerbType = types.ReverbVital
	for i := 0; i < 20000; i++ {
		o.ClearSends()
		o.AddVerbSend(0, 0.3)
		o.AddVerbSend(1, -0.2)
		o.Process(&p)
		finite(t, "vital verb out L", o.VerbOut[0])
		finite(t, "vital verb out R", o.VerbOut[1])
	}
}

func TestOrbitSilenceGating(t *testing.T) {
	o := New(48000)
	p := defaultParams()
	for i := 0; i < silenceHoldoff+100; i++ {
		o.ClearSends()
		o.Process(&p)
	}
	if o.DelayOut[0] != 0 || o.VerbOut[0] != 0 || o.CombOut[0] != 0 {
		t.Fatalf("expected silence after holdoff, got delay=%v verb=%v comb=%v", o.DelayOut, o.VerbOut, o.CombOut)
	}
}

func TestOrbitDelayVariants(t *testing.T) {
	for _, dt := range []types.DelayType{types.DelayStandard, types.DelayPingPong, types.DelayTape, types.DelayMultitap} {
		o := New(48000)
		p := defaultParams()
		p.DelayType = dt
		for i := 0; i < 2000; i++ {
			o.ClearSends()
			o.AddDelaySend(0, 0.5)
			o.AddDelaySend(1, 0.5)
			o.Process(&p)
			finite(t, "delay variant out", o.DelayOut[0])
		}
	}
}
