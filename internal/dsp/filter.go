package dsp

import "math"

// FilterType selects the RBJ cookbook formula used by Biquad.
type FilterType int

const (
	Lowpass FilterType = iota
	Highpass
	Bandpass
	Notch
	Allpass
	Peaking
	Lowshelf
	Highshelf
)

// Biquad is a direct-form I second-order IIR section whose coefficients
// are recomputed only when cutoff/Q/gain/type move beyond a threshold,
// avoiding per-sample trig calls while parameters are held steady.
type Biquad struct {
	b0, b1, b2, a1, a2 float32
	x1, x2, y1, y2     float32

	cachedCutoff float32
	cachedQ      float32
	cachedGain   float32
	cachedType   FilterType
	initialized  bool
}

func (b *Biquad) needsRecalc(cutoff, q, gainDb float32, typ FilterType) bool {
	if !b.initialized || typ != b.cachedType {
		return true
	}
	if b.cachedCutoff == 0 {
		return true
	}
	freqDelta := Fabsf(cutoff-b.cachedCutoff) / b.cachedCutoff
	qDelta := float32(1)
	if b.cachedQ != 0 {
		qDelta = Fabsf(q-b.cachedQ) / b.cachedQ
	}
	gainDelta := Fabsf(gainDb - b.cachedGain)
	return freqDelta > 0.001 || qDelta > 0.001 || gainDelta > 0.01
}

// Process runs one sample through the filter, recomputing coefficients
// from (sr, cutoff, q, gainDb, typ) only when they have moved beyond the
// cache thresholds. For lowpass/highpass, q is interpreted as resonance
// in dB and converted to a linear Q; every other type uses q directly.
func (b *Biquad) Process(sr, cutoff, q, gainDb float32, typ FilterType, in float32) float32 {
	if b.needsRecalc(cutoff, q, gainDb, typ) {
		b.recalc(sr, cutoff, q, gainDb, typ)
		b.cachedCutoff, b.cachedQ, b.cachedGain, b.cachedType = cutoff, q, gainDb, typ
		b.initialized = true
	}
	out := b.b0*in + b.b1*b.x1 + b.b2*b.x2 - b.a1*b.y1 - b.a2*b.y2
	b.x2, b.x1 = b.x1, in
	b.y2, b.y1 = b.y1, Ftz(out)
	return b.y1
}

func (b *Biquad) recalc(sr, cutoff, q, gainDb float32, typ FilterType) {
	if cutoff < 1 {
		cutoff = 1
	}
	if cutoff > sr*0.45 {
		cutoff = sr * 0.45
	}
	omega := 2 * math.Pi * float64(cutoff) / float64(sr)
	sn, cs := math.Sin(omega), math.Cos(omega)

	var linQ float64
	if typ == Lowpass || typ == Highpass {
		// q carries resonance in dB for LP/HP; convert to linear Q.
		linQ = math.Pow(10, float64(q)/20.0)
		if linQ < 0.01 {
			linQ = 0.01
		}
	} else {
		linQ = float64(q)
		if linQ <= 0 {
			linQ = 0.707
		}
	}
	alpha := sn / (2 * linQ)
	A := math.Pow(10, float64(gainDb)/40.0)

	var b0, b1, b2, a0, a1, a2 float64
	switch typ {
	case Lowpass:
		b0 = (1 - cs) / 2
		b1 = 1 - cs
		b2 = (1 - cs) / 2
		a0 = 1 + alpha
		a1 = -2 * cs
		a2 = 1 - alpha
	case Highpass:
		b0 = (1 + cs) / 2
		b1 = -(1 + cs)
		b2 = (1 + cs) / 2
		a0 = 1 + alpha
		a1 = -2 * cs
		a2 = 1 - alpha
	case Bandpass:
		b0 = alpha
		b1 = 0
		b2 = -alpha
		a0 = 1 + alpha
		a1 = -2 * cs
		a2 = 1 - alpha
	case Notch:
		b0 = 1
		b1 = -2 * cs
		b2 = 1
		a0 = 1 + alpha
		a1 = -2 * cs
		a2 = 1 - alpha
	case Allpass:
		b0 = 1 - alpha
		b1 = -2 * cs
		b2 = 1 + alpha
		a0 = 1 + alpha
		a1 = -2 * cs
		a2 = 1 - alpha
	case Peaking:
		b0 = 1 + alpha*A
		b1 = -2 * cs
		b2 = 1 - alpha*A
		a0 = 1 + alpha/A
		a1 = -2 * cs
		a2 = 1 - alpha/A
	case Lowshelf:
		sq := math.Sqrt(A)
		beta := 2 * sq * alpha
		b0 = A * ((A + 1) - (A-1)*cs + beta)
		b1 = 2 * A * ((A - 1) - (A+1)*cs)
		b2 = A * ((A + 1) - (A-1)*cs - beta)
		a0 = (A + 1) + (A-1)*cs + beta
		a1 = -2 * ((A - 1) + (A+1)*cs)
		a2 = (A + 1) + (A-1)*cs - beta
	case Highshelf:
		sq := math.Sqrt(A)
		beta := 2 * sq * alpha
		b0 = A * ((A + 1) + (A-1)*cs + beta)
		b1 = -2 * A * ((A - 1) + (A+1)*cs)
		b2 = A * ((A + 1) + (A-1)*cs - beta)
		a0 = (A + 1) - (A-1)*cs + beta
		a1 = 2 * ((A - 1) - (A+1)*cs)
		a2 = (A + 1) - (A-1)*cs - beta
	}

	b.b0, b.b1, b.b2 = float32(b0/a0), float32(b1/a0), float32(b2/a0)
	b.a1, b.a2 = float32(a1/a0), float32(a2/a0)
}

// Reset clears the filter's memory without forgetting cached coefficients.
func (b *Biquad) Reset() {
	b.x1, b.x2, b.y1, b.y2 = 0, 0, 0, 0
}

// SvfMode selects which tap the trapezoidal SVF's Tick reports.
type SvfMode int

const (
	SvfLowpass SvfMode = iota
	SvfHighpass
	SvfBandpass
)

// Svf is a state-variable filter in trapezoidal (TPT) integrator form,
// producing lowpass, bandpass and highpass outputs simultaneously from
// shared state.
type Svf struct {
	Ic1eq, Ic2eq float32
}

// Tick advances the filter one sample given precomputed g (=tan(pi*f/sr))
// and k (=1/Q), returning (lp, bp, hp).
func (s *Svf) Tick(in, g, k float32) (lp, bp, hp float32) {
	a1 := 1 / (1 + g*(g+k))
	a2 := g * a1
	a3 := g * a2
	v3 := in - s.Ic2eq
	v1 := a1*s.Ic1eq + a2*v3
	v2 := s.Ic2eq + a2*s.Ic1eq + a3*v3
	s.Ic1eq = 2*v1 - s.Ic1eq
	s.Ic2eq = 2*v2 - s.Ic2eq
	return v2, v1, in - k*v1 - v2
}

// SvfState caches the g/k coefficients so they are only recomputed when
// the cutoff or Q parameter actually changes.
type SvfState struct {
	Svf
	g, k          float32
	cachedCutoff  float32
	cachedQ       float32
}

// Process runs one sample at the requested mode, recomputing g/k only on
// parameter change.
func (s *SvfState) Process(sr, cutoff, q float32, mode SvfMode, in float32) float32 {
	if s.cachedCutoff != cutoff || s.cachedQ != q {
		if cutoff < 1 {
			cutoff = 1
		}
		if cutoff > sr*0.45 {
			cutoff = sr * 0.45
		}
		s.g = FastTan(math.Pi * cutoff / sr)
		if q < 0.01 {
			q = 0.01
		}
		s.k = 1 / q
		s.cachedCutoff, s.cachedQ = cutoff, q
	}
	lp, bp, hp := s.Tick(in, s.g, s.k)
	switch mode {
	case SvfBandpass:
		return bp
	case SvfHighpass:
		return hp
	default:
		return lp
	}
}

// Reset clears the SVF's integrator state.
func (s *SvfState) Reset() {
	s.Ic1eq, s.Ic2eq = 0, 0
}

// LadderMode selects the Moog ladder's tap combination.
type LadderMode int

const (
	LadderLowpass LadderMode = iota
	LadderHighpass
	LadderBandpass
)

// ladderVt is the thermal voltage used by the tanh nonlinearity model,
// following the D'Angelo/Valimaki transistor ladder approximation.
const ladderVt = 0.312

// Ladder is a 4-stage Moog-style transistor ladder filter: four
// cascaded one-pole stages with a tanh nonlinearity in the feedback
// path, multi-mode output via tap-coefficient mixing.
type Ladder struct {
	v  [4]float64
	dv [4]float64
	g  float64

	cachedCutoff float32
}

// Process runs one sample. resonance is expected pre-clamped to [0,1]
// and is mapped internally to a 0..4 feedback coefficient.
func (l *Ladder) Process(sr, cutoff, resonance float32, mode LadderMode, in float32) float32 {
	if l.cachedCutoff != cutoff {
		if cutoff < 1 {
			cutoff = 1
		}
		if cutoff > sr*0.45 {
			cutoff = sr * 0.45
		}
		wc := 2 * math.Pi * float64(cutoff) / float64(sr)
		l.g = wc / (wc + 1)
		l.cachedCutoff = cutoff
	}
	if resonance < 0 {
		resonance = 0
	}
	if resonance > 1 {
		resonance = 1
	}
	fb := float64(resonance) * 4.0

	x := float64(in) - fb*l.v[3]
	l.dv[0] = l.g * (fastTanh64(x) - fastTanh64(l.v[0]))
	l.v[0] += l.dv[0]
	l.dv[1] = l.g * (fastTanh64(l.v[0]) - fastTanh64(l.v[1]))
	l.v[1] += l.dv[1]
	l.dv[2] = l.g * (fastTanh64(l.v[1]) - fastTanh64(l.v[2]))
	l.v[2] += l.dv[2]
	l.dv[3] = l.g * (fastTanh64(l.v[2]) - fastTanh64(l.v[3]))
	l.v[3] += l.dv[3]

	var out float64
	switch mode {
	case LadderHighpass:
		out = x - 4*l.v[0] + 6*l.v[1] - 4*l.v[2] + l.v[3]
	case LadderBandpass:
		out = 4*l.v[1] - 8*l.v[2] + 4*l.v[3]
	default:
		out = l.v[3]
	}
	return Ftz(float32(out))
}

func fastTanh64(x float64) float64 {
	if x > 3*ladderVt*9 {
		return 1
	}
	if x < -3*ladderVt*9 {
		return -1
	}
	x2 := x * x
	return x * (27 + x2) / (27 + 9*x2)
}

// Reset clears the ladder's stage memory.
func (l *Ladder) Reset() {
	l.v = [4]float64{}
	l.dv = [4]float64{}
}
