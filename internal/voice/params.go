// Package voice implements per-voice synthesis: oscillator/sample/noise
// sources, filters, envelopes, pitch and amplitude modulation, and the
// per-voice effects chain (phaser/flanger/chorus/distortion) feeding
// the orbit busses.
package voice

import (
	"github.com/sova-org/doux/internal/dsp"
	"github.com/sova-org/doux/internal/types"
)

// Params holds every parameter that controls a single voice's sound.
// It is a pure data structure: Voice carries the runtime signal
// processing state that reads from it.
type Params struct {
	// Core
	Freq      float32
	Detune    float32
	Speed     float32
	Gain      float32
	Velocity  float32
	Postgain  float32
	Pan       float32
	Gate      float32
	Duration  float32
	HasDuration bool

	// Oscillator
	Sound     types.Source
	Pw        float32
	Spread    float32
	Shape     dsp.PhaseShape
	Harmonics float32
	Timbre    float32
	Morph     float32
	Wave      float32
	Cut       int
	HasCut    bool
	Sub       float32
	SubOct    uint8
	SubWave   types.SubWave
	Scan       float32
	WtCycleLen uint32

	// Amplitude envelope
	Attack  float32
	Decay   float32
	Sustain float32
	Release float32

	// Lowpass
	Lpf         float32
	HasLpf      bool
	Lpq         float32
	Lpe         float32
	Lpa, Lpd, Lps, Lpr float32
	LpEnvActive bool

	// Highpass
	Hpf         float32
	HasHpf      bool
	Hpq         float32
	Hpe         float32
	Hpa, Hpd, Hps, Hpr float32
	HpEnvActive bool

	// Bandpass
	Bpf         float32
	HasBpf      bool
	Bpq         float32
	Bpe         float32
	Bpa, Bpd, Bps, Bpr float32
	BpEnvActive bool

	Ftype types.FilterSlope

	// Ladder (Moog-style) filter variants, processed independently of
	// the biquad lp/hp/bp chain above and sharing their envelopes.
	Llpf    float32
	HasLlpf bool
	Llpq    float32
	Lhpf    float32
	HasLhpf bool
	Lhpq    float32
	Lbpf    float32
	HasLbpf bool
	Lbpq    float32

	Glide    float32
	HasGlide bool

	// Pitch envelope
	Penv           float32
	Patt, Pdec, Psus, Prel float32
	PitchEnvActive bool

	// Vibrato
	Vib      float32
	Vibmod   float32
	Vibshape types.LfoShape

	// FM — operator 1 plus an optional second operator (Fm2), routed by
	// Fmalgo (0=cascade 2->1->carrier, 1=parallel both->carrier, 2=branch
	// 2->carrier and 2->1->carrier) with self-feedback Fmfb on operator 2.
	Fm      float32
	Fmh     float32
	Fmshape types.LfoShape
	Fme     float32
	Fma, Fmd, Fms, Fmr float32
	FmEnvActive bool
	Fm2     float32
	Fm2h    float32
	Fmalgo  uint8
	Fmfb    float32

	// AM
	Am      float32
	Amdepth float32
	Amshape types.LfoShape

	// RM
	Rm      float32
	Rmdepth float32
	Rmshape types.LfoShape

	// Phaser
	Phaser       float32
	Phaserdepth  float32
	Phasersweep  float32
	Phasercenter float32

	// Flanger
	Flanger         float32
	Flangerdepth    float32
	Flangerfeedback float32

	// Chorus
	Chorus      float32
	Chorusdepth float32
	Chorusdelay float32

	// Distortion
	Coarse     float32
	HasCoarse  bool
	Crush      float32
	HasCrush   bool
	Fold       float32
	HasFold    bool
	Wrap       float32
	HasWrap    bool
	Distort    float32
	HasDistort bool
	Distortvol float32

	// EQ / stereo imaging — EQ, tilt and smear are applied after the
	// distortion shapers and phaser/flanger, before the spread stage;
	// width and haas after spread and chorus, before pan.
	Eqlo  float32
	Eqmid float32
	Eqhi  float32
	Tilt  float32
	Smear float32
	Width float32
	Haas  float32

	// Routing / sends
	Orbit         int
	Delay         float32
	Delaytime     float32
	Delayfeedback float32
	Delaytype     types.DelayType
	Verb          float32
	Verbtype      types.ReverbType
	Verbdecay     float32
	Verbdamp      float32
	Verbpredelay  float32
	Verbdiff      float32
	Comb          float32
	Combfreq      float32
	Combfeedback  float32
	Combdamp      float32
}

// DefaultParams returns a Params populated with the engine's default
// voice sound: a 330Hz triangle with a 1ms attack, full sustain and a
// 5ms release, and every send/effect bypassed.
func DefaultParams() Params {
	return Params{
		Freq: 330.0, Detune: 0, Speed: 1.0, Gain: 1.0, Velocity: 1.0, Postgain: 1.0, Pan: 0.5, Gate: 1.0,

		Sound: types.SourceTri, Pw: 0.5, Spread: 0, Shape: dsp.NewPhaseShape(),
		Harmonics: 0.5, Timbre: 0.5, Morph: 0.5, Wave: 0.5, Sub: 0, SubOct: 1, SubWave: types.SubWaveTri,
		Scan: 0, WtCycleLen: 256,

		Attack: 0.001, Decay: 0, Sustain: 1.0, Release: 0.005,

		Lpq: 0.2, Lpe: 1.0, Lpa: 0.001, Lpd: 0, Lps: 1.0, Lpr: 0.005,
		Hpq: 0.2, Hpe: 1.0, Hpa: 0.001, Hpd: 0, Hps: 1.0, Hpr: 0.005,
		Bpq: 0.2, Bpe: 1.0, Bpa: 0.001, Bpd: 0, Bps: 1.0, Bpr: 0.005,

		Ftype: types.Db12, Llpq: 0.2, Lhpq: 0.2, Lbpq: 0.2,

		Penv: 1.0, Patt: 0.001, Pdec: 0, Psus: 1.0, Prel: 0.005,

		Vib: 0, Vibmod: 0.5, Vibshape: types.LfoSine,

		Fm: 0, Fmh: 1.0, Fmshape: types.LfoSine, Fme: 1.0, Fma: 0.001, Fmd: 0, Fms: 1.0, Fmr: 0.005,
		Fm2: 0, Fm2h: 1.0, Fmalgo: 0, Fmfb: 0,

		Am: 0, Amdepth: 0.5, Amshape: types.LfoSine,
		Rm: 0, Rmdepth: 1.0, Rmshape: types.LfoSine,

		Phaser: 0, Phaserdepth: 0.75, Phasersweep: 2000.0, Phasercenter: 1000.0,
		Flanger: 0, Flangerdepth: 0.5, Flangerfeedback: 0.5,
		Chorus: 0, Chorusdepth: 0.5, Chorusdelay: 25.0,

		Distortvol: 1.0,

		Eqlo: 0, Eqmid: 0, Eqhi: 0, Tilt: 0, Smear: 0, Width: 1.0, Haas: 0,

		Orbit: 0, Delaytime: 0.333, Delayfeedback: 0.6, Delaytype: types.DelayStandard,
		Verbtype: types.ReverbDattorro, Verbdecay: 0.75, Verbdamp: 0.95, Verbpredelay: 0.1, Verbdiff: 0.7,
		Combfreq: 220.0, Combfeedback: 0.9, Combdamp: 0.1,
	}
}
