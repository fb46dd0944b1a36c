package effects

import "github.com/sova-org/doux/internal/dsp"

// Distort applies a soft-saturating waveshaper: (1+k)x/(1+k|x|), with
// k derived from amount via expm1 so amount=0 is the identity.
func Distort(in, amount float32) float32 {
	k := dsp.Expm1f(amount)
	if k < 0 {
		k = 0
	}
	denom := 1 + k*dsp.Fabsf(in)
	if denom == 0 {
		denom = 1e-9
	}
	return (1 + k) * in / denom
}

// Fold wavefolds the input: sin(x * gain * pi/2) with gain = 2^(amount*4).
func Fold(in, amount float32) float32 {
	gain := dsp.Powf(2, amount*4)
	return dsp.Sinf(in * gain * 3.14159265 / 2)
}

// Wrap wraps the input modulo into [-1,1), scaled by 1+wraps extra
// folds, via modulo-2 arithmetic on the shifted range.
func Wrap(in, wraps float32) float32 {
	scale := 1 + wraps
	y := in*scale + 1
	const m = float32(2.0)
	r := y - m*floorDiv(y, m)
	return r - 1
}

func floorDiv(a, b float32) float32 {
	q := a / b
	fq := float32(int(q))
	if q < 0 && fq != q {
		fq -= 1
	}
	return fq
}
