package effects

import (
	"math"

	"github.com/sova-org/doux/internal/dsp"
)

const (
	vitalNumContainers  = 4
	vitalContainerSize  = 4
	vitalNumLines       = vitalNumContainers * vitalContainerSize
	vitalBaseSr         = 44100.0
	vitalAllpassCoeff   = 0.6
	vitalMaxPredelaySec = 0.3
	vitalSqrt2          = 1.4142135
)

// vitalFeedbackDelays holds the per-line feedback delay lengths in
// samples at 44100Hz, one row per container.
var vitalFeedbackDelays = [vitalNumContainers][vitalContainerSize]float32{
	{6753.2, 9278.4, 7704.5, 11328.5},
	{9701.12, 5512.5, 8480.45, 5638.65},
	{3120.73, 3429.5, 3626.37, 7713.52},
	{4521.54, 6518.97, 5265.56, 5630.25},
}

// vitalAllpassDelays holds the per-line allpass delay lengths in
// samples at 44100Hz.
var vitalAllpassDelays = [vitalNumContainers][vitalContainerSize]int{
	{1001, 799, 933, 876},
	{895, 807, 907, 853},
	{957, 1019, 711, 567},
	{833, 779, 663, 997},
}

// vitalLfoSign alternates the modulation direction between containers.
var vitalLfoSign = [vitalNumContainers]float32{1, -1, 1, -1}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func midiKey2Hz(key float32) float32 {
	return 440.0 * float32(math.Pow(2, float64((key-69)/12)))
}

// vitalLagrangeRead performs 4-point Lagrange cubic interpolation into
// a power-of-two ring buffer.
func vitalLagrangeRead(buf []float32, mask, writePos int, delay float32) float32 {
	d := delay
	if d < 1 {
		d = 1
	}
	i := int(d)
	frac := d - float32(i)

	idx := func(offset int) float32 {
		return buf[(writePos-(i+offset))&mask]
	}
	s0 := idx(0)
	s1 := idx(1)
	s2 := idx(2)
	s3 := idx(3)

	fm1 := frac - 1
	fm2 := frac - 2
	fp1 := frac + 1
	c0 := -frac * fm1 * fm2 * (1.0 / 6.0)
	c1 := fp1 * fm1 * fm2 * 0.5
	c2 := -fp1 * frac * fm2 * 0.5
	c3 := fp1 * frac * fm1 * (1.0 / 6.0)

	return c0*s3 + c1*s2 + c2*s1 + c3*s0
}

func vitalOnepoleLp(state *float32, input, coeff float32) float32 {
	*state += coeff * (input - *state)
	return *state
}

func vitalOnepoleHp(state *float32, input, coeff float32) float32 {
	*state += coeff * (input - *state)
	return input - *state
}

func vitalFreqToCoeff(freq, sr float32) float32 {
	w := 3.14159265 * freq / sr
	return (2 * w) / (1 + 2*w)
}

func vitalLowShelf(state *float32, input, coeff, gainLinear float32) float32 {
	lp := vitalOnepoleLp(state, input, coeff)
	hp := input - lp
	return lp*gainLinear + hp
}

func vitalHighShelf(state *float32, input, coeff, gainLinear float32) float32 {
	lp := vitalOnepoleLp(state, input, coeff)
	hp := input - lp
	return lp + hp*gainLinear
}

func vitalDb2Linear(db float32) float32 {
	return dsp.Pow10(db * 0.05)
}

func vitalParamToFreq(p float32) float32 {
	key := 16.0 + p*(135.0-16.0)
	return midiKey2Hz(key)
}

// VitalVerb is a 16-line feedback delay network reverb in the style of
// the Vital synthesizer's reverb effect: four 4-line containers each
// with its own allpass diffuser, a decomposed (identity + adjacent +
// global) feedback matrix, shelf filters and per-line T60 decay in the
// feedback path, and a quadrature LFO modulating delay time for chorus.
type VitalVerb struct {
	sr float32

	predelayBuf  []float32
	predelayMask int

	preHpState float32
	preLpState float32

	delayBufs  [vitalNumLines][]float32
	delayMasks [vitalNumLines]int

	allpassBufs  [vitalNumLines][]float32
	allpassWrite [vitalNumLines]int

	shelfLowState  [vitalNumLines]float32
	shelfHighState [vitalNumLines]float32

	lfoPhase1 float32
	lfoPhase2 float32

	feedback [vitalNumLines]float32

	writePos int
}

// NewVitalVerb creates a Vital-style FDN reverb at the given sample
// rate.
func NewVitalVerb(sr float32) *VitalVerb {
	// The second LFO runs a quarter cycle ahead of the first.
	v := &VitalVerb{sr: sr, lfoPhase2: 0.25}

	maxPredelay := int(vitalMaxPredelaySec*sr) + 4
	pdSize := nextPow2(maxPredelay)
	v.predelayBuf = make([]float32, pdSize)
	v.predelayMask = pdSize - 1

	const maxSizeMult = 2.0
	srRatio := sr / vitalBaseSr

	for line := 0; line < vitalNumLines; line++ {
		c := line / vitalContainerSize
		l := line % vitalContainerSize
		maxDelay := int(vitalFeedbackDelays[c][l]*maxSizeMult*srRatio) + 8
		v.delayBufs[line] = make([]float32, nextPow2(maxDelay))
		v.delayMasks[line] = len(v.delayBufs[line]) - 1

		apLen := int(float32(vitalAllpassDelays[c][l])*maxSizeMult*srRatio) + 4
		if apLen < 1 {
			apLen = 1
		}
		v.allpassBufs[line] = make([]float32, nextPow2(apLen))
	}

	return v
}

// Process runs one mono input sample through the network and returns a
// stereo pair. All parameters are normalized to [0,1].
func (v *VitalVerb) Process(input, decay, damp, predelay, size, prelow, prehigh, lowcut, highcut, lowgain, chorusAmt, chorusFreq float32) (float32, float32) {
	sr := v.sr
	srRatio := sr / vitalBaseSr
	wp := v.writePos

	clamp01 := func(x float32) float32 {
		if x < 0 {
			return 0
		}
		if x > 1 {
			return 1
		}
		return x
	}
	decay = clamp01(decay)
	damp = clamp01(damp)
	predelay = clamp01(predelay)
	size = clamp01(size)
	prelow = clamp01(prelow)
	prehigh = clamp01(prehigh)
	lowcut = clamp01(lowcut)
	highcut = clamp01(highcut)
	lowgain = clamp01(lowgain)
	chorusAmt = clamp01(chorusAmt)
	chorusFreq = clamp01(chorusFreq)

	decaySec := float32(math.Exp(float64(-6.0 + decay*12.0)))
	if decaySec < 0.1 {
		decaySec = 0.1
	} else if decaySec > 100 {
		decaySec = 100
	}
	decaySamples := decaySec * sr

	highGainDb := (1 - damp) * -24.0
	highGainLinear := vitalDb2Linear(highGainDb)

	lowGainDb := lowgain * -24.0
	lowGainLinear := vitalDb2Linear(lowGainDb)

	sizeExp := -3.0 + size*4.0
	sizeMult := float32(math.Pow(2, float64(sizeExp)))

	predelaySamples := predelay * vitalMaxPredelaySec * sr

	prelowFreq := vitalParamToFreq(prelow)
	prehighFreq := vitalParamToFreq(prehigh)
	prelowCoeff := vitalFreqToCoeff(prelowFreq, sr)
	prehighCoeff := vitalFreqToCoeff(prehighFreq, sr)

	lowcutFreq := vitalParamToFreq(lowcut)
	highcutFreq := vitalParamToFreq(highcut)
	lowcutCoeff := vitalFreqToCoeff(lowcutFreq, sr)
	highcutCoeff := vitalFreqToCoeff(highcutFreq, sr)

	chorusDepth := chorusAmt * chorusAmt * 2500.0 * srRatio * sizeMult

	chorusHz := float32(math.Exp(float64(-8.0 + chorusFreq*11.0)))
	if chorusHz > 16 {
		chorusHz = 16
	}
	lfoInc := chorusHz / sr

	v.predelayBuf[wp&v.predelayMask] = dsp.Ftz(input)
	predelayed := vitalLagrangeRead(v.predelayBuf, v.predelayMask, wp, predelaySamples)

	hpOut := vitalOnepoleHp(&v.preHpState, predelayed, prelowCoeff)
	prefiltered := vitalOnepoleLp(&v.preLpState, hpOut, prehighCoeff) * 0.25

	var x [vitalNumLines]float32
	for i := range x {
		x[i] = v.feedback[i] + prefiltered
	}

	for line := 0; line < vitalNumLines; line++ {
		c := line / vitalContainerSize
		l := line % vitalContainerSize
		apDelay := int(float32(vitalAllpassDelays[c][l]) * sizeMult * srRatio)
		if apDelay < 1 {
			apDelay = 1
		}
		buf := v.allpassBufs[line]
		mask := len(buf) - 1
		aw := v.allpassWrite[line]

		readPos := (aw + len(buf) - apDelay) & mask
		delayed := buf[readPos]
		val := x[line] - vitalAllpassCoeff*delayed
		buf[aw&mask] = val
		v.allpassWrite[line] = (aw + 1) & mask
		x[line] = delayed + vitalAllpassCoeff*val
	}

	var globalSum float32
	for _, xi := range x {
		globalSum += xi
	}
	globalAvg := globalSum / vitalNumLines

	var containerSums [vitalNumContainers]float32
	for c := 0; c < vitalNumContainers; c++ {
		for l := 0; l < vitalContainerSize; l++ {
			containerSums[c] += x[c*vitalContainerSize+l]
		}
	}

	var matrixOut [vitalNumLines]float32
	for line, xi := range x {
		c := line / vitalContainerSize
		otherFb := globalAvg - 0.5*containerSums[c]/vitalContainerSize
		adjacentFb := -0.5 * containerSums[c] / vitalContainerSize
		matrixOut[line] = xi + otherFb + adjacentFb
	}

	var left, right float32
	for line, mo := range matrixOut {
		if line%2 == 0 {
			left += mo
		} else {
			right += mo
		}
	}
	left *= 0.5 * vitalSqrt2 / vitalNumLines * vitalContainerSize
	right *= 0.5 * vitalSqrt2 / vitalNumLines * vitalContainerSize

	for line := range matrixOut {
		matrixOut[line] = vitalLowShelf(&v.shelfLowState[line], matrixOut[line], lowcutCoeff, lowGainLinear)
		matrixOut[line] = vitalHighShelf(&v.shelfHighState[line], matrixOut[line], highcutCoeff, highGainLinear)
	}

	for line := range matrixOut {
		c := line / vitalContainerSize
		l := line % vitalContainerSize
		delayLen := vitalFeedbackDelays[c][l] * sizeMult * srRatio
		decayCoeff := float32(math.Pow(0.001, float64(delayLen/decaySamples)))
		matrixOut[line] *= decayCoeff
	}

	v.lfoPhase1 += lfoInc
	if v.lfoPhase1 >= 1 {
		v.lfoPhase1 -= 1
	}
	v.lfoPhase2 += lfoInc
	if v.lfoPhase2 >= 1 {
		v.lfoPhase2 -= 1
	}

	for line, mo := range matrixOut {
		c := line / vitalContainerSize
		l := line % vitalContainerSize
		baseDelay := vitalFeedbackDelays[c][l] * sizeMult * srRatio

		phaseOffset := float32(line) / vitalNumLines
		lfoBase := v.lfoPhase1
		if c >= 2 {
			lfoBase = v.lfoPhase2
		}
		phaseFrac := lfoBase + phaseOffset
		phaseFrac -= float32(math.Floor(float64(phaseFrac)))
		phase := phaseFrac * 6.28318530
		lfoVal := dsp.Sinf(phase) * vitalLfoSign[c]
		modDelay := baseDelay + lfoVal*chorusDepth

		buf := v.delayBufs[line]
		mask := v.delayMasks[line]
		buf[wp&mask] = dsp.Ftz(mo)

		v.feedback[line] = vitalLagrangeRead(buf, mask, wp, modDelay)
	}

	v.writePos = wp + 1

	return dsp.Ftz(left), dsp.Ftz(right)
}

// Reset clears every delay line, filter state and LFO phase in the
// network.
func (v *VitalVerb) Reset() {
	for i := range v.predelayBuf {
		v.predelayBuf[i] = 0
	}
	v.preHpState = 0
	v.preLpState = 0
	for line := 0; line < vitalNumLines; line++ {
		for i := range v.delayBufs[line] {
			v.delayBufs[line][i] = 0
		}
		for i := range v.allpassBufs[line] {
			v.allpassBufs[line][i] = 0
		}
		v.allpassWrite[line] = 0
		v.shelfLowState[line] = 0
		v.shelfHighState[line] = 0
		v.feedback[line] = 0
	}
	v.lfoPhase1 = 0
	v.lfoPhase2 = 0.25
	v.writePos = 0
}
