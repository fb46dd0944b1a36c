package effects

import (
	"math"
	"testing"
)

func finite(t *testing.T, label string, v float32) {
	t.Helper()
	if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
		t.Fatalf("%s produced non-finite output: %v", label, v)
	}
}

func TestPhaserBounded(t *testing.T) {
	p := NewPhaser(48000)
	for i := 0; i < 10000; i++ {
		out := p.Process(float32(math.Sin(float64(i) * 0.05)))
		finite(t, "phaser", out)
	}
}

func TestFlangerBounded(t *testing.T) {
	f := NewFlanger(48000)
	for i := 0; i < 10000; i++ {
		out := f.Process(float32(math.Sin(float64(i) * 0.05)))
		finite(t, "flanger", out)
	}
}

func TestChorusBounded(t *testing.T) {
	c := NewChorus(48000)
	for i := 0; i < 10000; i++ {
		l, r := c.Process(float32(math.Sin(float64(i) * 0.05)))
		finite(t, "chorus l", l)
		finite(t, "chorus r", r)
	}
}

func TestSmearBounded(t *testing.T) {
	s := NewSmear()
	s.Amount = 1
	for i := 0; i < 10000; i++ {
		out := s.Process(48000, float32(math.Sin(float64(i)*0.05)))
		finite(t, "smear", out)
	}
}

func TestTiltAndEQ3BandBounded(t *testing.T) {
	tilt := &Tilt{Amount: 0.5}
	eq := &EQ3Band{LoDb: 3, MidDb: -2, HiDb: 4}
	for i := 0; i < 5000; i++ {
		in := float32(math.Sin(float64(i) * 0.05))
		finite(t, "tilt", tilt.Process(48000, in))
		finite(t, "eq3band", eq.Process(48000, in))
	}
}

func TestHaasBounded(t *testing.T) {
	h := NewHaas(48000)
	h.DelayMs = 20
	for i := 0; i < 5000; i++ {
		in := float32(math.Sin(float64(i) * 0.05))
		l, r := h.Process(in, in)
		finite(t, "haas l", l)
		finite(t, "haas r", r)
	}
}

func TestDelayVariantsBounded(t *testing.T) {
	for _, dt := range []DelayType{DelayStandard, DelayPingPong, DelayTape, DelayMultitap} {
		d := NewDelay(48000)
		d.Params.Type = dt
		d.Params.TimeMs = 250
		d.Params.Feedback = 0.6
		for i := 0; i < 10000; i++ {
			in := float32(math.Sin(float64(i) * 0.05))
			l, r := d.Process(in, in)
			finite(t, "delay l", l)
			finite(t, "delay r", r)
		}
	}
}

func TestCombBounded(t *testing.T) {
	c := &Comb{Freq: 220, Feedback: 0.7, Damp: 0.3}
	for i := 0; i < 10000; i++ {
		out := c.Process(48000, float32(math.Sin(float64(i)*0.05)))
		finite(t, "comb", out)
	}
}

func TestFeedbackDelayBounded(t *testing.T) {
	f := NewFeedback(48000)
	f.LfoDepth = 0.1
	for i := 0; i < 10000; i++ {
		out := f.Process(float32(math.Sin(float64(i) * 0.05)))
		finite(t, "feedback delay", out)
	}
}

func TestDattorroVerbBounded(t *testing.T) {
	v := NewDattorroVerb(48000)
	for i := 0; i < 10000; i++ {
		in := float32(math.Sin(float64(i) * 0.05))
		l, r := v.Process(in, 0.8, 0.5, 0.3, 0.7)
		finite(t, "dattorro l", l)
		finite(t, "dattorro r", r)
	}
}

func TestVitalVerbBounded(t *testing.T) {
	v := NewVitalVerb(48000)
	for i := 0; i < 10000; i++ {
		in := float32(math.Sin(float64(i) * 0.05))
		l, r := v.Process(in, 0.6, 0.4, 0.2, 0.5, 0.3, 0.7, 0.2, 0.8, 0.3, 0.4, 0.3)
		finite(t, "vitalverb l", l)
		finite(t, "vitalverb r", r)
	}
}

func TestDistortShapersBounded(t *testing.T) {
	for i := -100; i <= 100; i++ {
		in := float32(i) / 20.0
		finite(t, "distort", Distort(in, 0.5))
		finite(t, "fold", Fold(in, 0.5))
		finite(t, "wrap", Wrap(in, 0.5))
		finite(t, "crush", Crush(in, 4))
	}
}

func TestCoarseHoldsForRatio(t *testing.T) {
	c := &Coarse{Ratio: 4}
	first := c.Process(1.0)
	second := c.Process(2.0)
	if first != second {
		t.Fatalf("coarse should hold value across ratio window: got %v then %v", first, second)
	}
}

func TestLagChasesTarget(t *testing.T) {
	l := &Lag{}
	l.Reset(0)
	var v float32
	for i := 0; i < 1000; i++ {
		v = l.Update(1.0, 0.01, 1.0)
	}
	if v < 0.9 {
		t.Fatalf("lag did not converge toward target: %v", v)
	}
}
