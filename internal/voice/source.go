package voice

import (
	"github.com/sova-org/doux/internal/dsp"
	"github.com/sova-org/doux/internal/types"
)

// spreadPan holds the three symmetric unison pairs' stereo placement.
var spreadPan = [3]float32{0.3, 0.6, 0.9}

// oscAt renders one sample of the current oscillator waveform at an
// arbitrary phase, applying the voice's phase-shape chain first.
func (v *Voice) oscAt(phase, dt float32) float32 {
	shaped := phase
	if v.Params.Shape.IsActive() {
		shaped = v.Params.Shape.Apply(phase)
	}
	switch v.Params.Sound {
	case types.SourceTri:
		return dsp.TriAt(shaped)
	case types.SourceSine:
		return dsp.SineAt(shaped)
	case types.SourceSaw:
		return dsp.SawAt(shaped, dt)
	case types.SourceZaw:
		return dsp.ZawAt(shaped, dt)
	case types.SourcePulse:
		return dsp.PulseAt(shaped, v.Params.Pw, dt)
	case types.SourcePulze:
		return dsp.PulzeAt(shaped, v.Params.Pw, dt)
	default:
		return 0
	}
}

// runSource dispatches to the active sound source, writing to v.Ch.
// It returns false when the voice's source has exhausted itself (a
// one-shot sample finished playing) and should be culled regardless of
// envelope state.
func (v *Voice) runSource(freq, isr float32, liveInput []float32, liveInputIdx int) bool {
	switch v.Params.Sound {
	case types.SourceSample, types.SourceWebSample:
		if v.Sample == nil {
			v.Ch[0], v.Ch[1] = 0, 0
			return true
		}
		if v.Sample.IsDone() {
			return false
		}
		v.Ch[0] = v.Sample.Read(0) * 0.2
		v.Ch[1] = v.Sample.Read(1) * 0.2
		v.Sample.Advance(freq / 261.626)
		return true

	case types.SourceLiveInput:
		for c := 0; c < 2; c++ {
			idx := liveInputIdx*2 + c
			if idx >= 0 && idx < len(liveInput) {
				v.Ch[c] = liveInput[idx] * 0.2
			} else {
				v.Ch[c] = 0
			}
		}
		return true

	case types.SourceWt:
		v.runWavetable(freq, isr)
		return true

	default:
		if v.Params.Sound.IsDrum() {
			v.runDrum(freq, isr)
			return true
		}
		if v.Params.Sound.IsPlaits() {
			// Plaits physical-modeling engines are out of scope; render
			// silence rather than fabricate an approximation.
			v.Ch[0], v.Ch[1] = 0, 0
			return true
		}
		if v.Params.Spread > 0 {
			v.runSpread(freq, isr)
		} else {
			v.runSingleOsc(freq, isr)
		}
		v.runSub(freq, isr)
		return true
	}
}

func (v *Voice) runSpread(freq, isr float32) {
	var left, right float32

	dtC := freq * isr
	phaseC := v.SpreadPhasors[3].Phase
	center := v.oscAt(phaseC, dtC)
	v.SpreadPhasors[3].Phase = wrapPhase(phaseC + dtC)
	left += center
	right += center

	for i := 1; i <= 3; i++ {
		detuneCents := float32(i*i) * v.Params.Spread
		ratioUp := dsp.Exp2f(detuneCents / 1200.0)
		ratioDown := dsp.Exp2f(-detuneCents / 1200.0)

		dtUp := freq * ratioUp * isr
		phaseUp := v.SpreadPhasors[3+i].Phase
		voiceUp := v.oscAt(phaseUp, dtUp)
		v.SpreadPhasors[3+i].Phase = wrapPhase(phaseUp + dtUp)

		dtDown := freq * ratioDown * isr
		phaseDown := v.SpreadPhasors[3-i].Phase
		voiceDown := v.oscAt(phaseDown, dtDown)
		v.SpreadPhasors[3-i].Phase = wrapPhase(phaseDown + dtDown)

		pan := spreadPan[i-1]
		left += voiceDown*(0.5+pan*0.5) + voiceUp*(0.5-pan*0.5)
		right += voiceUp*(0.5+pan*0.5) + voiceDown*(0.5-pan*0.5)
	}

	mid := (left + right) / 2
	side := (left - right) / 2
	v.Ch[0] = mid / 4 * 0.2
	v.SpreadSide = side / 4 * 0.2
}

func (v *Voice) runSub(freq, isr float32) {
	if v.Params.Sub <= 0 {
		return
	}
	oct := v.Params.SubOct
	if oct == 0 {
		oct = 1
	}
	subFreq := freq / float32(uint32(1)<<uint32(oct))
	var sample float32
	switch v.Params.SubWave {
	case types.SubWaveSine:
		v.SubPhasor.Update(subFreq, isr)
		sample = v.SubPhasor.Sine()
	case types.SubWaveSquare:
		v.SubPhasor.Update(subFreq, isr)
		sample = v.SubPhasor.Pulse(0.5, subFreq*isr)
	default:
		v.SubPhasor.Update(subFreq, isr)
		sample = v.SubPhasor.Tri()
	}
	v.Ch[0] = (v.Ch[0] + sample*v.Params.Sub*0.2) / (1.0 + v.Params.Sub)
}

func (v *Voice) runSingleOsc(freq, isr float32) {
	switch v.Params.Sound {
	case types.SourceWhite:
		v.Ch[0] = v.white() * 0.2
	case types.SourcePink:
		v.Ch[0] = v.PinkNoise.Next(v.Rng) * 0.2
	case types.SourceBrown:
		v.Ch[0] = v.BrownNoise.Next(v.Rng) * 0.2
	default:
		dt := freq * isr
		phase := v.Phasor.Update(freq, isr)
		v.Ch[0] = v.oscAt(phase, dt) * 0.2
	}
}

// runWavetable scans the voice's loaded sample buffer as a bank of K
// fixed-length cycles, crossfading between the two cycles nearest
// scan·(K-1) while a dedicated phasor reads through one cycle per
// period at freq.
func (v *Voice) runWavetable(freq, isr float32) {
	if v.Sample == nil || v.Sample.Data == nil {
		v.Ch[0], v.Ch[1] = 0, 0
		return
	}
	data := v.Sample.Data
	cycleLen := v.Params.WtCycleLen
	if cycleLen == 0 {
		cycleLen = 1
	}
	cycles := int(data.FrameCount / cycleLen)
	if cycles < 1 {
		cycles = 1
	}

	blend := clamp01(v.Params.Scan) * float32(cycles-1)
	lo := int(blend)
	frac := blend - float32(lo)
	hi := lo + 1
	if hi >= cycles {
		hi = lo
		frac = 0
	}

	phase := v.WtPhasor.Update(freq, isr)
	within := phase * float32(cycleLen)

	for c := 0; c < 2; c++ {
		sLo := data.ReadInterpolated(float32(lo)*float32(cycleLen)+within, c)
		sHi := data.ReadInterpolated(float32(hi)*float32(cycleLen)+within, c)
		v.Ch[c] = (sLo + (sHi-sLo)*frac) * 0.2
	}
}

func wrapPhase(p float32) float32 {
	for p >= 1 {
		p -= 1
	}
	for p < 0 {
		p += 1
	}
	return p
}
