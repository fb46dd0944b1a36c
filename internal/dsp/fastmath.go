// Package dsp implements the real-time synthesis primitives: fast
// transcendental approximations, phasors, envelopes, filters and noise
// generators used by every voice.
package dsp

import "math"

// Log2f approximates log2(x) for x > 0 using the IEEE-754 bit layout,
// accurate to within about 0.1%. Behavior for x <= 0 is undefined by the
// caller's contract (never reached on the audio path).
func Log2f(x float32) float32 {
	bits := math.Float32bits(x)
	exp := float32((bits>>23)&0xFF) - 127
	mantissaBits := (bits & 0x7FFFFF) | 0x3F800000
	mantissa := math.Float32frombits(mantissaBits)
	// log2(m) = (2/ln2)·atanh(t) with t = (m-1)/(m+1) in [0, 1/3) for
	// m in [1,2); three terms of the atanh series.
	t := (mantissa - 1) / (mantissa + 1)
	t2 := t * t
	y := t * (2.8853900817779268 + t2*(0.9617966939259756+t2*0.5770780163555854))
	return exp + y
}

// Exp2f approximates 2^x, accurate to within about 0.1%.
func Exp2f(x float32) float32 {
	clamped := x
	if clamped < -126 {
		clamped = -126
	}
	if clamped > 126 {
		clamped = 126
	}
	whole := float32(math.Floor(float64(clamped)))
	frac := clamped - whole
	// Polynomial approximation of 2^frac over [0,1).
	poly := float32(1.0) + frac*(0.6931471805599453+frac*(0.2402265069591007+frac*(0.0555041086648216+frac*(0.0096181291076285+frac*0.0013333558146428))))
	bits := (int32(whole)+127)<<23
	return math.Float32frombits(uint32(bits)) * poly
}

// Powf computes x^y via Log2f/Exp2f, matching the approximations' error
// budget rather than math.Pow's exactness.
func Powf(x, y float32) float32 {
	if x <= 0 {
		return 0
	}
	return Exp2f(y * Log2f(x))
}

// Expf approximates e^x.
func Expf(x float32) float32 {
	return Exp2f(x * 1.4426950408889634)
}

// Expm1f approximates e^x - 1, more stable near zero than Expf(x)-1.
func Expm1f(x float32) float32 {
	if Fabsf(x) < 1e-4 {
		return x + 0.5*x*x
	}
	return Expf(x) - 1
}

// Pow1Half returns sqrt(x) via the fast approximations.
func Pow1Half(x float32) float32 {
	return Powf(x, 0.5)
}

// Pow10 returns 10^x.
func Pow10(x float32) float32 {
	return Powf(10, x)
}

func Fabsf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// Modpi wraps x into [-pi, pi).
func Modpi(x float32) float32 {
	const twoPi = 2 * math.Pi
	y := float32(math.Mod(float64(x), twoPi))
	if y >= math.Pi {
		y -= twoPi
	}
	if y < -math.Pi {
		y += twoPi
	}
	return y
}

// Rational Padé coefficients shared by Sinf/Cosf.
const (
	sinC1 = 1.0
	sinC2 = 445.0 / 12122.0
	sinC3 = -2363.0 / 18183.0
	sinC4 = 601.0 / 872784.0
	sinC5 = 12671.0 / 4363920.0
	sinC6 = 121.0 / 16662240.0
)

// Sinf approximates sin(x) for any x via a rational Padé form over the
// principal range, error under 1%.
func Sinf(x float32) float32 {
	t := Modpi(x)
	t2 := t * t
	num := t * (sinC1 + t2*sinC3 + t2*t2*sinC5)
	den := float32(1.0) + t2*sinC2 + t2*t2*sinC4 + t2*t2*t2*sinC6
	return num / den
}

// Cosf approximates cos(x) as Sinf(x + pi/2).
func Cosf(x float32) float32 {
	return Sinf(x + math.Pi/2)
}

// ParSinf/ParCosf are the same approximations used in "parallel" unison
// contexts where a stateless evaluation at an arbitrary phase is needed.
func ParSinf(x float32) float32 { return Sinf(x) }
func ParCosf(x float32) float32 { return Cosf(x) }

// Ftz flushes subnormal floats to zero to avoid x86 denormal stalls in
// long IIR feedback paths (filters, delays, reverbs).
func Ftz(x float32) float32 {
	if x > -1e-30 && x < 1e-30 {
		return 0
	}
	return x
}

// FastTanh approximates tanh via a Padé[3/2] rational form, clamped to
// the input range where the approximation stays accurate.
func FastTanh(x float64) float64 {
	if x > 3 {
		return 1
	}
	if x < -3 {
		return -1
	}
	x2 := x * x
	return x * (27 + x2) / (27 + 9*x2)
}

// FastTanhF32 is the float32 counterpart of FastTanh.
func FastTanhF32(x float32) float32 {
	if x > 3 {
		return 1
	}
	if x < -3 {
		return -1
	}
	x2 := x * x
	return x * (27 + x2) / (27 + 9*x2)
}

// FastTan approximates tan(x) as Sinf(x)/Cosf(x).
func FastTan(x float32) float32 {
	c := Cosf(x)
	if c == 0 {
		c = 1e-9
	}
	return Sinf(x) / c
}
