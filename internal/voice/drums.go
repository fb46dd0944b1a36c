package voice

import (
	"github.com/sova-org/doux/internal/dsp"
	"github.com/sova-org/doux/internal/types"
)

// cowbellRatio is the second square oscillator's detune ratio relative
// to the fundamental, matching a classic analog cowbell's two-tone body.
const cowbellRatio = 1.4836

// cymbalRatios are the six inharmonic partial ratios mixed to form the
// cymbal's metallic noise-like core.
var cymbalRatios = [6]float32{1.0, 1.3394, 1.7726, 2.1753, 2.6651, 3.1467}

// drumOsc morphs between sine, triangle and sawtooth as waveform sweeps
// 0 -> 0.5 -> 1, used as the tonal body of the pitched drum voices.
func drumOsc(phase, waveform float32) float32 {
	if waveform <= 0 {
		return dsp.SineAt(phase)
	}
	if waveform >= 1 {
		return phase*2 - 1
	}
	var tri float32
	if phase < 0.5 {
		tri = 4*phase - 1
	} else {
		tri = 3 - 4*phase
	}
	if waveform >= 0.5 {
		t := (waveform - 0.5) * 2
		saw := phase*2 - 1
		return tri + t*(saw-tri)
	}
	t := waveform * 2
	sine := dsp.SineAt(phase)
	return sine + t*(tri-sine)
}

// runDrum dispatches to the active drum synthesis algorithm, writing
// the mono result (scaled like every other source) into v.Ch.
func (v *Voice) runDrum(freq, isr float32) {
	var sample float32
	switch v.Params.Sound {
	case types.SourceKick:
		sample = v.drumKick(freq, isr)
	case types.SourceSnare:
		sample = v.drumSnare(freq, isr)
	case types.SourceHat:
		sample = v.drumHat(freq, isr)
	case types.SourceTom:
		sample = v.drumTom(freq, isr)
	case types.SourceRim:
		sample = v.drumRim(freq, isr)
	case types.SourceCowbell:
		sample = v.drumCowbell(freq, isr)
	case types.SourceCymbal:
		sample = v.drumCymbal(freq, isr)
	}
	v.Ch[0] = sample * 0.2
	v.Ch[1] = v.Ch[0]
}

func (v *Voice) drumKick(freq, isr float32) float32 {
	sweepOct := v.Params.Morph * 4.0
	rate := 20.0 + v.Params.Harmonics*80.0
	pitchEnv := dsp.Expf(-v.Time * rate)
	actualFreq := freq * dsp.Exp2f(sweepOct*pitchEnv)

	phase := v.Phasor.Phase
	sample := drumOsc(phase, v.Params.Wave)
	v.Phasor.Phase = wrapPhase(phase + actualFreq*isr)

	drive := v.Params.Timbre * 4.0
	if drive > 0 {
		x := sample * (1 + drive)
		return x / (1 + dsp.Fabsf(x))
	}
	return sample
}

func (v *Voice) drumSnare(freq, isr float32) float32 {
	rate := 40.0 + v.Params.Harmonics*60.0
	pitchEnv := dsp.Expf(-v.Time * rate)
	actualFreq := freq * dsp.Exp2f(1.5*pitchEnv)

	phase := v.Phasor.Phase
	body := drumOsc(phase, v.Params.Wave)
	v.Phasor.Phase = wrapPhase(phase + actualFreq*isr)

	noise := v.white()
	brightness := 2000.0 + v.Params.Harmonics*6000.0
	filteredNoise := v.DrumSvf.Process(v.Sr, brightness, 0.3, dsp.SvfBandpass, noise)

	mix := v.Params.Timbre
	return body*(1-mix) + filteredNoise*mix*2
}

func (v *Voice) drumHat(freq, isr float32) float32 {
	modDepth := 0.5 + v.Params.Morph*2.5

	m2 := v.white()

	p1 := &v.SpreadPhasors[0]
	m1 := dsp.SineAt(p1.Phase + modDepth*m2)
	p1.Phase = wrapPhase(p1.Phase + 2*freq*isr)

	m0 := dsp.SineAt(v.Phasor.Phase + modDepth*m1)
	v.Phasor.Phase = wrapPhase(v.Phasor.Phase + freq*isr)

	tone := 800.0 + v.Params.Harmonics*17200.0
	q := 0.05 + v.Params.Timbre*0.9
	return v.DrumSvf.Process(v.Sr, tone, q, dsp.SvfLowpass, m0)
}

func (v *Voice) drumTom(freq, isr float32) float32 {
	sweepOct := v.Params.Morph * 1.5
	rate := 15.0 + v.Params.Harmonics*40.0
	pitchEnv := dsp.Expf(-v.Time * rate)
	actualFreq := freq * dsp.Exp2f(sweepOct*pitchEnv)

	phase := v.Phasor.Phase
	body := drumOsc(phase, v.Params.Wave)
	v.Phasor.Phase = wrapPhase(phase + actualFreq*isr)

	noise := v.white()
	mix := v.Params.Timbre * 0.3
	return body*(1-mix) + noise*mix
}

func (v *Voice) drumRim(freq, isr float32) float32 {
	sweepOct := v.Params.Morph * 2.0
	pitchEnv := dsp.Expf(-v.Time * 200.0)
	actualFreq := freq * dsp.Exp2f(sweepOct*pitchEnv)

	phase := v.Phasor.Phase
	body := drumOsc(phase, v.Params.Wave)
	v.Phasor.Phase = wrapPhase(phase + actualFreq*isr)

	noise := v.white()
	brightness := 3000.0 + v.Params.Harmonics*8000.0
	filteredNoise := v.DrumSvf.Process(v.Sr, brightness, 0.5, dsp.SvfBandpass, noise)

	mix := v.Params.Timbre
	return body*(1-mix) + filteredNoise*mix*2
}

func (v *Voice) drumCowbell(freq, isr float32) float32 {
	detune := 1.0 + (cowbellRatio-1.0)*(0.5+v.Params.Morph*0.5)
	freq2 := freq * detune

	p0 := &v.SpreadPhasors[0]
	sq0 := float32(1.0)
	if p0.Phase >= 0.5 {
		sq0 = -1.0
	}
	p0.Phase = wrapPhase(p0.Phase + freq*isr)

	p1 := &v.SpreadPhasors[1]
	sq1 := float32(1.0)
	if p1.Phase >= 0.5 {
		sq1 = -1.0
	}
	p1.Phase = wrapPhase(p1.Phase + freq2*isr)

	mixed := (sq0 + sq1) * 0.5

	drive := 1.0 + v.Params.Timbre*4.0
	driven := mixed * drive
	saturated := driven / (1 + dsp.Fabsf(driven))

	cutoff := freq2 * (1.1 + v.Params.Harmonics*3.0)
	return v.DrumSvf.Process(v.Sr, cutoff, 0.47, dsp.SvfBandpass, saturated)
}

func (v *Voice) drumCymbal(freq, isr float32) float32 {
	spreadAmt := 0.5 + v.Params.Morph*1.5

	var metallic float32
	for i, ratio := range cymbalRatios {
		r := 1.0 + (ratio-1.0)*spreadAmt
		cymFreq := freq * r
		p := &v.SpreadPhasors[i]
		pulse := float32(1.0)
		if p.Phase >= 0.5 {
			pulse = -1.0
		}
		p.Phase = wrapPhase(p.Phase + cymFreq*isr)
		metallic += pulse
	}
	metallic /= 6.0

	noise := v.white() * v.Params.Timbre
	combined := metallic + noise

	cutoff := 2500.0 + v.Params.Harmonics*12000.0
	return v.DrumSvf.Process(v.Sr, cutoff, 0.15, dsp.SvfHighpass, combined)
}
