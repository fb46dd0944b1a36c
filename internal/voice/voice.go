package voice

import (
	"math/rand"

	"github.com/sova-org/doux/internal/dsp"
	"github.com/sova-org/doux/internal/effects"
	"github.com/sova-org/doux/internal/modulation"
	"github.com/sova-org/doux/internal/sampling"
	"github.com/sova-org/doux/internal/types"
)

// modSlot pairs an installed inline modulator with the Params field it
// drives. A plain slice (rather than a map) keeps per-sample ticking
// allocation-free and cache-friendly for the handful of mods a voice
// typically carries.
type modSlot struct {
	id  modulation.ParamId
	mod modulation.ParamMod
}

// Voice is the engine's single synthesis unit: its own oscillator
// phase(s), filters, envelopes, modulators, and per-voice effects
// chain. One Voice renders one note from trigger through release.
type Voice struct {
	Params Params

	Phasor        dsp.Phasor
	SubPhasor     dsp.Phasor
	SpreadPhasors [7]dsp.Phasor

	Adsr   dsp.Adsr
	LpAdsr dsp.Adsr
	HpAdsr dsp.Adsr
	BpAdsr dsp.Adsr

	Lp dsp.Biquad
	Hp dsp.Biquad
	Bp dsp.Biquad

	LpStages [3]dsp.Biquad // extra cascade stages for 24/48dB slopes
	HpStages [3]dsp.Biquad
	BpStages [3]dsp.Biquad

	PitchAdsr dsp.Adsr
	FmAdsr    dsp.Adsr
	VibLfo    dsp.Phasor
	FmPhasor  dsp.Phasor
	AmLfo     dsp.Phasor
	RmLfo     dsp.Phasor

	GlideLag    effects.Lag
	CurrentFreq float32

	PinkNoise  dsp.PinkNoise
	BrownNoise dsp.BrownNoise

	Sample *sampling.RegistrySample

	Phaser  effects.Phaser
	Flanger effects.Flanger
	Chorus  effects.Chorus
	Coarse  effects.Coarse

	LadderLp dsp.Ladder
	LadderHp dsp.Ladder
	LadderBp dsp.Ladder

	DrumSvf dsp.SvfState

	Eq    effects.EQ3Band
	Tilt  effects.Tilt
	Smear effects.Smear
	Haas  effects.Haas

	WtPhasor dsp.Phasor

	Fm2Phasor        dsp.Phasor
	Fm2Prev1, Fm2Prev2 float32

	Time       float32
	Ch         [2]float32
	SpreadSide float32
	Sr         float32
	LagUnit    float32
	Rng        *rand.Rand

	Active bool

	Mods []modSlot
}

// SetMod installs (or replaces) the inline modulator driving the param
// named by id, starting it fresh from the chain's resting value.
func (v *Voice) SetMod(id modulation.ParamId, chain modulation.ModChain) {
	for i := range v.Mods {
		if v.Mods[i].id == id {
			v.Mods[i].mod = modulation.NewParamMod(chain, v.Rng.Uint32())
			return
		}
	}
	v.Mods = append(v.Mods, modSlot{id: id, mod: modulation.NewParamMod(chain, v.Rng.Uint32())})
}

// applyMods ticks every installed modulator by one sample and writes
// its output onto the Params field it drives.
func (v *Voice) applyMods(isr float32) {
	for i := range v.Mods {
		val := v.Mods[i].mod.Tick(isr)
		switch v.Mods[i].id {
		case modulation.PFreq:
			v.Params.Freq = val
		case modulation.PDetune:
			v.Params.Detune = val
		case modulation.PSpeed:
			v.Params.Speed = val
		case modulation.PGlide:
			v.Params.Glide = val
		case modulation.PPw:
			v.Params.Pw = val
		case modulation.PSpread:
			v.Params.Spread = val
		case modulation.PMult:
			v.Params.Shape.Mult = val
		case modulation.PWarp:
			v.Params.Shape.Warp = val
		case modulation.PMirror:
			v.Params.Shape.Mirror = val
		case modulation.PSub:
			v.Params.Sub = val
		case modulation.PHarmonics:
			v.Params.Harmonics = val
		case modulation.PTimbre:
			v.Params.Timbre = val
		case modulation.PMorph:
			v.Params.Morph = val
		case modulation.PWave:
			v.Params.Wave = val
		case modulation.PScan:
			v.Params.Scan = val
		case modulation.PAttack:
			v.Params.Attack = val
		case modulation.PDecay:
			v.Params.Decay = val
		case modulation.PSustain:
			v.Params.Sustain = val
		case modulation.PRelease:
			v.Params.Release = val
		case modulation.PLpf:
			v.Params.Lpf = val
		case modulation.PLpq:
			v.Params.Lpq = val
		case modulation.PHpf:
			v.Params.Hpf = val
		case modulation.PHpq:
			v.Params.Hpq = val
		case modulation.PBpf:
			v.Params.Bpf = val
		case modulation.PBpq:
			v.Params.Bpq = val
		case modulation.PLlpf:
			v.Params.Llpf = val
		case modulation.PLlpq:
			v.Params.Llpq = val
		case modulation.PLhpf:
			v.Params.Lhpf = val
		case modulation.PLhpq:
			v.Params.Lhpq = val
		case modulation.PLbpf:
			v.Params.Lbpf = val
		case modulation.PLbpq:
			v.Params.Lbpq = val
		case modulation.PPenv:
			v.Params.Penv = val
		case modulation.PVib:
			v.Params.Vib = val
		case modulation.PVibMod:
			v.Params.Vibmod = val
		case modulation.PFm:
			v.Params.Fm = val
		case modulation.PFmH:
			v.Params.Fmh = val
		case modulation.PFm2:
			v.Params.Fm2 = val
		case modulation.PFm2H:
			v.Params.Fm2h = val
		case modulation.PFmFb:
			v.Params.Fmfb = val
		case modulation.PAm:
			v.Params.Am = val
		case modulation.PAmDepth:
			v.Params.Amdepth = val
		case modulation.PRm:
			v.Params.Rm = val
		case modulation.PRmDepth:
			v.Params.Rmdepth = val
		case modulation.PPhaser:
			v.Params.Phaser = val
		case modulation.PPhaserDepth:
			v.Params.Phaserdepth = val
		case modulation.PPhaserSweep:
			v.Params.Phasersweep = val
		case modulation.PPhaserCenter:
			v.Params.Phasercenter = val
		case modulation.PFlanger:
			v.Params.Flanger = val
		case modulation.PFlangerDepth:
			v.Params.Flangerdepth = val
		case modulation.PFlangerFeedback:
			v.Params.Flangerfeedback = val
		case modulation.PChorus:
			v.Params.Chorus = val
		case modulation.PChorusDepth:
			v.Params.Chorusdepth = val
		case modulation.PChorusDelay:
			v.Params.Chorusdelay = val
		case modulation.PComb:
			v.Params.Comb = val
		case modulation.PCombFreq:
			v.Params.Combfreq = val
		case modulation.PCombFeedback:
			v.Params.Combfeedback = val
		case modulation.PCombDamp:
			v.Params.Combdamp = val
		case modulation.PCoarse:
			v.Params.Coarse = val
		case modulation.PCrush:
			v.Params.Crush = val
		case modulation.PFold:
			v.Params.Fold = val
		case modulation.PWrap:
			v.Params.Wrap = val
		case modulation.PDistort:
			v.Params.Distort = val
		case modulation.PDistortVol:
			v.Params.Distortvol = val
		case modulation.PWidth:
			v.Params.Width = val
		case modulation.PHaas:
			v.Params.Haas = val
		case modulation.PEqLo:
			v.Params.Eqlo = val
		case modulation.PEqMid:
			v.Params.Eqmid = val
		case modulation.PEqHi:
			v.Params.Eqhi = val
		case modulation.PTilt:
			v.Params.Tilt = val
		case modulation.PSmear:
			v.Params.Smear = val
		case modulation.PDelay:
			v.Params.Delay = val
		case modulation.PDelayTime:
			v.Params.Delaytime = val
		case modulation.PDelayFeedback:
			v.Params.Delayfeedback = val
		case modulation.PVerb:
			v.Params.Verb = val
		case modulation.PVerbDecay:
			v.Params.Verbdecay = val
		case modulation.PVerbDamp:
			v.Params.Verbdamp = val
		case modulation.PVerbPredelay:
			v.Params.Verbpredelay = val
		case modulation.PVerbDiff:
			v.Params.Verbdiff = val
		case modulation.PPan:
			v.Params.Pan = val
		case modulation.PGain:
			v.Params.Gain = val
		case modulation.PPostgain:
			v.Params.Postgain = val
		}
	}
}

// New creates a voice at the given sample rate with default params and
// spread-unison phasors pre-offset for a dense supersaw.
func New(sr float32) *Voice {
	v := &Voice{
		Params:  DefaultParams(),
		Sr:      sr,
		LagUnit: sr / 10.0,
		Rng:     rand.New(rand.NewSource(123456789)),
		Active:  true,
	}
	for i := range v.SpreadPhasors {
		v.SpreadPhasors[i].Phase = float32(i) / 7.0
	}
	v.Phaser = *effects.NewPhaser(sr)
	v.Flanger = *effects.NewFlanger(sr)
	v.Chorus = *effects.NewChorus(sr)
	v.Smear = *effects.NewSmear()
	v.Haas = *effects.NewHaas(sr)
	return v
}

func (v *Voice) white() float32 {
	return v.Rng.Float32()*2 - 1
}

func (v *Voice) numStages() int {
	switch v.Params.Ftype {
	case types.Db24:
		return 2
	case types.Db48:
		return 4
	default:
		return 1
	}
}

// applyFilterCascade runs signal through numStages cascaded biquad
// stages sharing one cutoff/resonance but distinct filter memory.
func applyFilterCascade(signal float32, first *dsp.Biquad, rest []dsp.Biquad, sr, cutoff, q float32, ftype dsp.FilterType, numStages int) float32 {
	out := first.Process(sr, cutoff, q, 0, ftype, signal)
	for i := 1; i < numStages && i-1 < len(rest); i++ {
		out = rest[i-1].Process(sr, cutoff, q, 0, ftype, out)
	}
	return out
}

func (v *Voice) computeFreq(isr float32) float32 {
	freq := v.Params.Freq

	if v.Params.Detune != 0 {
		freq *= dsp.Exp2f(v.Params.Detune / 1200.0)
	}

	freq *= v.Params.Speed

	if v.Params.HasGlide {
		freq = v.GlideLag.Update(freq, v.Params.Glide, v.LagUnit)
	}

	if v.Params.Fm > 0 || v.Params.Fm2 > 0 {
		fmAmount := v.Params.Fm
		if v.Params.FmEnvActive {
			env := v.FmAdsr.Update(float64(v.Time), v.Params.Gate, v.Params.Fma, v.Params.Fmd, v.Params.Fms, v.Params.Fmr)
			fmAmount = v.Params.Fme*env*fmAmount + fmAmount
		}

		// Operator 2 self-feeds back from its own previous two output
		// samples, averaged and scaled by fmfb, before operator 1 or the
		// carrier ever sees it.
		var op2 float32
		if v.Params.Fm2 > 0 {
			feedback := (v.Fm2Prev1 + v.Fm2Prev2) * 0.5 * v.Params.Fmfb
			mod2Freq := freq * v.Params.Fm2h
			v.Fm2Phasor.UpdateSh(mod2Freq, isr)
			op2 = v.Fm2Phasor.Lfo(lfoShapeIndex(v.Params.Fmshape)) + feedback
			v.Fm2Prev2 = v.Fm2Prev1
			v.Fm2Prev1 = op2
			op2 *= v.Params.Fm2
		}

		modFreq := freq * v.Params.Fmh
		modGain := modFreq * fmAmount

		var op1 float32
		switch v.Params.Fmalgo {
		case 1:
			// Parallel: operator 1 and operator 2 each modulate the
			// carrier independently.
			v.FmPhasor.UpdateSh(modFreq, isr)
			op1 = v.FmPhasor.Lfo(lfoShapeIndex(v.Params.Fmshape))
			freq += op1*modGain + op2*modFreq
		case 2:
			// Branch: operator 2 modulates the carrier directly and also
			// feeds operator 1, which modulates the carrier again.
			v.FmPhasor.UpdateSh(modFreq, isr)
			op1 = v.FmPhasor.Lfo(lfoShapeIndex(v.Params.Fmshape)) + op2
			freq += op1*modGain + op2*modFreq
		default:
			// Cascade: operator 2 feeds operator 1, which alone modulates
			// the carrier.
			v.FmPhasor.UpdateSh(modFreq, isr)
			op1 = v.FmPhasor.Lfo(lfoShapeIndex(v.Params.Fmshape)) + op2
			freq += op1 * modGain
		}
	}

	if v.Params.PitchEnvActive && v.Params.Penv != 0 {
		env := v.PitchAdsr.Update(float64(v.Time), 1.0, v.Params.Patt, v.Params.Pdec, v.Params.Psus, v.Params.Prel)
		envAdj := env
		if v.Params.Psus == 1.0 {
			envAdj = env - 1.0
		}
		freq *= dsp.Exp2f(envAdj * v.Params.Penv / 12.0)
	}

	if v.Params.Vib > 0 && v.Params.Vibmod > 0 {
		v.VibLfo.UpdateSh(v.Params.Vib, isr)
		modVal := v.VibLfo.Lfo(lfoShapeIndex(v.Params.Vibshape))
		freq *= dsp.Exp2f(modVal * v.Params.Vibmod / 12.0)
	}

	v.CurrentFreq = freq
	return freq
}

func lfoShapeIndex(s types.LfoShape) int {
	switch s {
	case types.LfoTri:
		return 1
	case types.LfoSaw:
		return 2
	case types.LfoSquare:
		return 3
	case types.LfoSh:
		return 4
	default:
		return 0
	}
}

// Process renders one sample into v.Ch and advances all internal
// state by one sample period (isr = 1/sampleRate). It returns false
// once either the voice's envelope or its source has finished, signaling
// the caller to free this voice slot.
func (v *Voice) Process(isr float32, liveInput []float32, liveInputIdx int) bool {
	v.applyMods(isr)

	env := v.Adsr.Update(float64(v.Time), v.Params.Gate, v.Params.Attack, v.Params.Decay, v.Params.Sustain, v.Params.Release)
	if v.Adsr.IsOff() {
		return false
	}

	freq := v.computeFreq(isr)
	if !v.runSource(freq, isr, liveInput, liveInputIdx) {
		return false
	}

	numStages := v.numStages()

	if v.Params.HasLpf {
		cutoff := v.Params.Lpf
		if v.Params.LpEnvActive {
			lpEnv := v.LpAdsr.Update(float64(v.Time), v.Params.Gate, v.Params.Lpa, v.Params.Lpd, v.Params.Lps, v.Params.Lpr)
			cutoff = v.Params.Lpe*lpEnv*v.Params.Lpf + v.Params.Lpf
		}
		v.Ch[0] *= v.Params.Gain * v.Params.Velocity
		v.Ch[0] = applyFilterCascade(v.Ch[0], &v.Lp, v.LpStages[:], v.Sr, cutoff, v.Params.Lpq, dsp.Lowpass, numStages)
	} else {
		v.Ch[0] *= v.Params.Gain * v.Params.Velocity
	}

	if v.Params.HasHpf {
		cutoff := v.Params.Hpf
		if v.Params.HpEnvActive {
			hpEnv := v.HpAdsr.Update(float64(v.Time), v.Params.Gate, v.Params.Hpa, v.Params.Hpd, v.Params.Hps, v.Params.Hpr)
			cutoff = v.Params.Hpe*hpEnv*v.Params.Hpf + v.Params.Hpf
		}
		v.Ch[0] = applyFilterCascade(v.Ch[0], &v.Hp, v.HpStages[:], v.Sr, cutoff, v.Params.Hpq, dsp.Highpass, numStages)
	}

	if v.Params.HasBpf {
		cutoff := v.Params.Bpf
		if v.Params.BpEnvActive {
			bpEnv := v.BpAdsr.Update(float64(v.Time), v.Params.Gate, v.Params.Bpa, v.Params.Bpd, v.Params.Bps, v.Params.Bpr)
			cutoff = v.Params.Bpe*bpEnv*v.Params.Bpf + v.Params.Bpf
		}
		v.Ch[0] = applyFilterCascade(v.Ch[0], &v.Bp, v.BpStages[:], v.Sr, cutoff, v.Params.Bpq, dsp.Bandpass, numStages)
	}

	if v.Params.HasLlpf {
		cutoff := v.Params.Llpf
		if v.Params.LpEnvActive {
			env := v.LpAdsr.Update(float64(v.Time), v.Params.Gate, v.Params.Lpa, v.Params.Lpd, v.Params.Lps, v.Params.Lpr)
			cutoff = v.Params.Lpe*env*v.Params.Llpf + v.Params.Llpf
		}
		v.Ch[0] = v.LadderLp.Process(v.Sr, cutoff, v.Params.Llpq, dsp.LadderLowpass, v.Ch[0])
	}
	if v.Params.HasLhpf {
		cutoff := v.Params.Lhpf
		if v.Params.HpEnvActive {
			env := v.HpAdsr.Update(float64(v.Time), v.Params.Gate, v.Params.Hpa, v.Params.Hpd, v.Params.Hps, v.Params.Hpr)
			cutoff = v.Params.Hpe*env*v.Params.Lhpf + v.Params.Lhpf
		}
		v.Ch[0] = v.LadderHp.Process(v.Sr, cutoff, v.Params.Lhpq, dsp.LadderHighpass, v.Ch[0])
	}
	if v.Params.HasLbpf {
		cutoff := v.Params.Lbpf
		if v.Params.BpEnvActive {
			env := v.BpAdsr.Update(float64(v.Time), v.Params.Gate, v.Params.Bpa, v.Params.Bpd, v.Params.Bps, v.Params.Bpr)
			cutoff = v.Params.Bpe*env*v.Params.Lbpf + v.Params.Lbpf
		}
		v.Ch[0] = v.LadderBp.Process(v.Sr, cutoff, v.Params.Lbpq, dsp.LadderBandpass, v.Ch[0])
	}

	if v.Params.HasCoarse {
		v.Coarse.Ratio = int(v.Params.Coarse)
		v.Ch[0] = v.Coarse.Process(v.Ch[0])
	}
	if v.Params.HasCrush {
		v.Ch[0] = effects.Crush(v.Ch[0], v.Params.Crush)
	}
	if v.Params.HasFold {
		v.Ch[0] = effects.Fold(v.Ch[0], v.Params.Fold)
	}
	if v.Params.HasWrap {
		v.Ch[0] = effects.Wrap(v.Ch[0], v.Params.Wrap)
	}
	if v.Params.HasDistort {
		v.Ch[0] = effects.Distort(v.Ch[0], v.Params.Distort) * v.Params.Distortvol
	}

	if v.Params.Am > 0 {
		v.AmLfo.UpdateSh(v.Params.Am, isr)
		modulator := v.AmLfo.Lfo(lfoShapeIndex(v.Params.Amshape))
		depth := clamp01(v.Params.Amdepth)
		v.Ch[0] *= 1.0 + modulator*depth
	}

	if v.Params.Rm > 0 {
		v.RmLfo.UpdateSh(v.Params.Rm, isr)
		modulator := v.RmLfo.Lfo(lfoShapeIndex(v.Params.Rmshape))
		depth := clamp01(v.Params.Rmdepth)
		v.Ch[0] *= (1 - depth) + modulator*depth
	}

	if v.Params.Phaser > 0 {
		v.Phaser.SweepHz = v.Params.Phaser
		v.Phaser.Depth = v.Params.Phaserdepth
		v.Phaser.CenterHz = v.Params.Phasercenter
		v.Phaser.SweepRangeHz = v.Params.Phasersweep
		v.Ch[0] = v.Phaser.Process(v.Ch[0])
	}

	if v.Params.Flanger > 0 {
		v.Flanger.Rate = v.Params.Flanger
		v.Flanger.Depth = v.Params.Flangerdepth
		v.Flanger.Feedback = v.Params.Flangerfeedback
		v.Ch[0] = v.Flanger.Process(v.Ch[0])
	}

	v.Eq.LoDb = v.Params.Eqlo
	v.Eq.MidDb = v.Params.Eqmid
	v.Eq.HiDb = v.Params.Eqhi
	v.Ch[0] = v.Eq.Process(v.Sr, v.Ch[0])

	v.Tilt.Amount = v.Params.Tilt
	v.Ch[0] = v.Tilt.Process(v.Sr, v.Ch[0])

	v.Smear.Amount = v.Params.Smear
	v.Ch[0] = v.Smear.Process(v.Sr, v.Ch[0])

	v.Ch[0] *= env * v.Params.Postgain

	if v.Params.Spread > 0 {
		side := v.SpreadSide * env * v.Params.Postgain
		v.Ch[1] = v.Ch[0] - side
		v.Ch[0] += side
	} else {
		v.Ch[1] = v.Ch[0]
	}

	if v.Params.Chorus > 0 {
		v.Chorus.Rate = v.Params.Chorus
		v.Chorus.Depth = v.Params.Chorusdepth
		v.Chorus.BaseDelayMs = v.Params.Chorusdelay
		l, r := v.Chorus.Process(v.Ch[0])
		v.Ch[0], v.Ch[1] = l, r
	}

	if v.Params.Width != 1.0 {
		mid := (v.Ch[0] + v.Ch[1]) / 2
		side := (v.Ch[0] - v.Ch[1]) / 2 * v.Params.Width
		v.Ch[0] = mid + side
		v.Ch[1] = mid - side
	}

	if v.Params.Haas > 0 {
		v.Haas.DelayMs = v.Params.Haas
		v.Ch[0], v.Ch[1] = v.Haas.Process(v.Ch[0], v.Ch[1])
	}

	if v.Params.Pan != 0.5 {
		panPos := v.Params.Pan * 3.14159265 / 2
		v.Ch[0] *= dsp.Cosf(panPos)
		v.Ch[1] *= dsp.Sinf(panPos)
	}

	v.Time += isr
	if v.Params.HasDuration && v.Params.Duration > 0 && v.Time > v.Params.Duration {
		v.Params.Gate = 0
	}
	return true
}

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// Retrigger resets the voice's time base to zero for a fresh note. It
// does not reset the envelope states or the filter/effect memory.
func (v *Voice) Retrigger() {
	v.Time = 0
}
