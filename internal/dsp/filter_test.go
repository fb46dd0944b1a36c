package dsp

import (
	"math"
	"testing"
)

func TestBiquadNoNaNAcrossSweep(t *testing.T) {
	var bq Biquad
	sr := float32(48000)
	in := float32(1.0)
	for f := 20.0; f < float64(sr)*0.45; f *= 1.2 {
		out := bq.Process(sr, float32(f), 1.0, 0, Lowpass, in)
		if math.IsNaN(float64(out)) || math.IsInf(float64(out), 0) {
			t.Fatalf("biquad produced non-finite output at freq=%v", f)
		}
		if Fabsf(out) > 10 {
			t.Fatalf("biquad output out of bounds at freq=%v: %v", f, out)
		}
	}
}

func TestAdsrStaysInRange(t *testing.T) {
	a := NewAdsr()
	gate := float32(1)
	for i := 0; i < 48000; i++ {
		time := float64(i) / 48000.0
		if i > 24000 {
			gate = 0
		}
		v := a.Update(time, gate, 0.01, 0.1, 0.7, 0.2)
		if v < 0 || v > 1.0001 {
			t.Fatalf("adsr out of [0,1] at sample %d: %v", i, v)
		}
	}
}

func TestAdsrReachesOff(t *testing.T) {
	a := NewAdsr()
	a.Update(0, 1, 0.001, 0.01, 0.5, 0.05)
	for i := 1; i < 48000; i++ {
		a.Update(float64(i)/48000.0, 0, 0.001, 0.01, 0.5, 0.05)
	}
	if !a.IsOff() {
		t.Fatal("expected envelope to reach Off after release window elapses")
	}
}

func TestLadderBounded(t *testing.T) {
	var l Ladder
	for i := 0; i < 2000; i++ {
		out := l.Process(48000, 800, 0.9, LadderLowpass, 1.0)
		if math.IsNaN(float64(out)) {
			t.Fatalf("ladder produced NaN at sample %d", i)
		}
	}
}
