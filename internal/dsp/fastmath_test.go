package dsp

import (
	"math"
	"testing"
)

func within(t *testing.T, got, want, tol float64, label string) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s: got %v want %v (tol %v)", label, got, want, tol)
	}
}

func TestLog2fExp2fRoundTrip(t *testing.T) {
	for _, x := range []float32{0.01, 0.5, 1, 2, 3.7, 100, 1000} {
		got := Exp2f(Log2f(x))
		within(t, float64(got), float64(x), float64(x)*0.02, "log2/exp2 roundtrip")
	}
}

func TestSinfCosfAccuracy(t *testing.T) {
	for _, x := range []float32{0, 0.5, 1, 2, 3, 4, 5, 6, -3.5} {
		within(t, float64(Sinf(x)), math.Sin(float64(x)), 0.02, "sinf")
		within(t, float64(Cosf(x)), math.Cos(float64(x)), 0.02, "cosf")
	}
}

func TestFastTanhBounded(t *testing.T) {
	for _, x := range []float64{-10, -3, -1, 0, 1, 3, 10} {
		got := FastTanh(x)
		if got < -1.0001 || got > 1.0001 {
			t.Errorf("FastTanh(%v) = %v out of bounds", x, got)
		}
	}
	within(t, FastTanh(0), 0, 1e-9, "fast_tanh(0)")
}

func TestFtzFlushesSubnormals(t *testing.T) {
	if Ftz(1e-35) != 0 {
		t.Error("expected subnormal flushed to zero")
	}
	if Ftz(1.0) != 1.0 {
		t.Error("expected normal value unchanged")
	}
}
