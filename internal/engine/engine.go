// Package engine hosts the running synthesis engine: the voice pool,
// orbit busses, sample registry/loader and event schedule, wired
// together behind Evaluate (parse+dispatch one command line) and
// ProcessBlock (render one audio block).
package engine

import (
	"fmt"
	"strconv"
	"time"

	"github.com/sova-org/doux/internal/dsp"
	"github.com/sova-org/doux/internal/event"
	"github.com/sova-org/doux/internal/orbit"
	"github.com/sova-org/doux/internal/sampling"
	"github.com/sova-org/doux/internal/schedule"
	"github.com/sova-org/doux/internal/telemetry"
	"github.com/sova-org/doux/internal/types"
	"github.com/sova-org/doux/internal/voice"
)

// Engine is one running synthesis instance: a fixed pool of voices
// filled in order from the front (no stealing — a command that can't find a
// free voice slot is simply dropped, matching the original engine's
// fixed-size no-allocation steady state), a bank of orbit send busses,
// the sample registry/loader pair, and a time-ordered event schedule.
type Engine struct {
	Sr             float32
	Isr            float32
	MaxVoices      int
	Voices         []*voice.Voice
	ActiveVoices   int
	Orbits         []*orbit.Orbit
	Schedule       *schedule.Schedule
	Time           float64
	Tick           uint64
	OutputChannels int
	Output         []float32

	SampleIndex    []sampling.SampleEntry
	SampleRegistry *sampling.SampleRegistry
	SampleLoader   *sampling.Loader

	Metrics *telemetry.EngineMetrics
}

// New creates a stereo engine with the default voice pool size.
func New(sampleRate float32) *Engine {
	return NewWithChannels(sampleRate, types.Channels, types.MaxVoices)
}

// NewWithChannels creates an engine with the given output channel
// count and voice pool size.
func NewWithChannels(sampleRate float32, outputChannels, maxVoices int) *Engine {
	registry := sampling.NewSampleRegistry()
	loader := sampling.NewLoader(registry)

	orbits := make([]*orbit.Orbit, types.MaxOrbits)
	for i := range orbits {
		orbits[i] = orbit.New(sampleRate)
	}

	voices := make([]*voice.Voice, maxVoices)
	for i := range voices {
		voices[i] = voice.New(sampleRate)
	}

	return &Engine{
		Sr:             sampleRate,
		Isr:            1.0 / sampleRate,
		MaxVoices:      maxVoices,
		Voices:         voices,
		Orbits:         orbits,
		Schedule:       schedule.New(),
		OutputChannels: outputChannels,
		Output:         make([]float32, types.BlockSize*outputChannels),
		SampleRegistry: registry,
		SampleLoader:   loader,
		Metrics:        telemetry.NewEngineMetrics(),
	}
}

// findSampleIndex looks up the nth entry whose name has the
// "<name>/<n>" form, wrapping n by the number of matching entries
// (e.g. three files under "hats/" make requests for n=5 resolve to
// "hats/2").
func (e *Engine) findSampleIndex(name string, n int) (int, bool) {
	prefix := name + "/"
	count := 0
	for _, entry := range e.SampleIndex {
		if len(entry.Name) > len(prefix) && entry.Name[:len(prefix)] == prefix {
			count++
		}
	}
	if count == 0 {
		for i, entry := range e.SampleIndex {
			if entry.Name == name {
				return i, true
			}
		}
		return 0, false
	}
	wrapped := ((n % count) + count) % count
	for i, entry := range e.SampleIndex {
		if len(entry.Name) > len(prefix) && entry.Name[:len(prefix)] == prefix {
			if idx, err := strconv.Atoi(entry.Name[len(prefix):]); err == nil && idx == wrapped {
				return i, true
			}
		}
	}
	return 0, false
}

func (e *Engine) getSampleName(name string, n int) (string, bool) {
	idx, ok := e.findSampleIndex(name, n)
	if !ok {
		return "", false
	}
	return e.SampleIndex[idx].Name, true
}

// getRegistrySample resolves name/n to a sample name and its
// currently-published data, requesting a background decode (or an
// upgrade from a head-preload) as a side effect. Returns ok=false when
// nothing is published yet — the caller should skip this event rather
// than play silence.
func (e *Engine) getRegistrySample(name string, n int) (string, *sampling.SampleData, bool) {
	sampleName, ok := e.getSampleName(name, n)
	if !ok {
		return "", nil, false
	}

	if data := e.SampleRegistry.Get(sampleName); data != nil {
		if data.FrameCount < data.TotalFrames {
			if idx, ok := e.findSampleIndex(name, n); ok {
				e.SampleLoader.Request(sampleName, e.SampleIndex[idx].Path, e.Sr)
			}
		}
		return sampleName, data, true
	}

	idx, ok := e.findSampleIndex(name, n)
	if !ok {
		return "", nil, false
	}
	e.SampleLoader.Request(sampleName, e.SampleIndex[idx].Path, e.Sr)
	return "", nil, false
}

// Evaluate parses one command line and dispatches it. Commands other
// than "play" never return a voice index.
func (e *Engine) Evaluate(input string) (int, bool) {
	ev := event.Parse(input)

	cmd := "play"
	if ev.HasCmd {
		cmd = ev.Cmd
	}

	switch cmd {
	case "play":
		return e.playEvent(ev)
	case "hush":
		e.Hush()
	case "panic":
		e.Panic()
	case "reset":
		e.Panic()
		e.Schedule.Clear()
		e.Time = 0
		e.Tick = 0
	case "release":
		if ev.HasVoice && ev.Voice < e.ActiveVoices {
			e.Voices[ev.Voice].Params.Gate = 0
		}
	case "hush_endless":
		for i := 0; i < e.ActiveVoices; i++ {
			if !e.Voices[i].Params.HasDuration {
				e.Voices[i].Params.Gate = 0
			}
		}
	case "reset_time":
		e.Time = 0
		e.Tick = 0
	case "reset_schedule":
		e.Schedule.Clear()
	}
	return 0, false
}

func (e *Engine) playEvent(ev event.Event) (int, bool) {
	if ev.HasDelta {
		ev.HasTime, ev.Time = true, e.Time+ev.Delta
		ev.HasDelta = false
	}
	if ev.HasTime {
		e.Schedule.Push(schedule.Event{Time: ev.Time, Repeat: float64(ev.Repeat), HasRepeat: ev.HasRepeat, Payload: ev})
		return 0, false
	}
	return e.processEvent(&ev)
}

// Play directly installs params into a fresh voice slot, bypassing the
// event grammar entirely — used by callers (e.g. a sequencer) that
// already hold a fully-built Params.
func (e *Engine) Play(params voice.Params) (int, bool) {
	if e.ActiveVoices >= e.MaxVoices {
		return 0, false
	}
	i := e.ActiveVoices
	e.Voices[i] = voice.New(e.Sr)
	e.Voices[i].Params = params
	e.ActiveVoices++
	return i, true
}

func (e *Engine) processEvent(ev *event.Event) (int, bool) {
	if ev.HasCut {
		for i := 0; i < e.ActiveVoices; i++ {
			if e.Voices[i].Params.HasCut && e.Voices[i].Params.Cut == ev.Cut {
				e.Voices[i].Params.Gate = 0
			}
		}
	}

	hasWebSample := ev.HasFilePcm && ev.HasFileFrames
	var parsedSource types.Source
	var sourceParsed bool
	if ev.HasSound {
		parsedSource, sourceParsed = types.ParseSource(ev.Sound)
		if !sourceParsed && !hasWebSample {
			effectiveName := ev.Sound
			if ev.HasBank {
				effectiveName = fmt.Sprintf("%s_%s", ev.Sound, ev.Bank)
			}
			n := 0
			if ev.HasN {
				n = ev.N
			}
			if _, _, ok := e.getRegistrySample(effectiveName, n); !ok {
				return 0, false
			}
		}
	}

	voiceIdx, isNewVoice := -1, false
	if ev.HasVoice && ev.Voice < e.ActiveVoices {
		voiceIdx = ev.Voice
	} else {
		if e.ActiveVoices >= e.MaxVoices {
			return 0, false
		}
		voiceIdx = e.ActiveVoices
		e.ActiveVoices++
		isNewVoice = true
	}

	shouldReset := isNewVoice || (ev.HasReset && ev.Reset)
	if shouldReset {
		e.Voices[voiceIdx] = voice.New(e.Sr)
		if ev.HasFreq {
			e.Voices[voiceIdx].GlideLag.Reset(ev.Freq)
		}
	}

	e.updateVoiceParams(voiceIdx, ev, parsedSource, sourceParsed)
	return voiceIdx, true
}

func clampF(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (e *Engine) updateVoiceParams(idx int, ev *event.Event, parsedSource types.Source, sourceParsed bool) {
	v := e.Voices[idx]
	p := &v.Params

	var registrySampleName string
	var registrySampleData *sampling.SampleData
	var haveRegistrySample bool
	if ev.HasSound && !sourceParsed {
		effectiveName := ev.Sound
		if ev.HasBank {
			effectiveName = fmt.Sprintf("%s_%s", ev.Sound, ev.Bank)
		}
		n := 0
		if ev.HasN {
			n = ev.N
		}
		registrySampleName, registrySampleData, haveRegistrySample = e.getRegistrySample(effectiveName, n)
	}

	// --- Pitch ---
	if ev.HasFreq {
		p.Freq = ev.Freq
	}
	if ev.HasDetune {
		p.Detune = ev.Detune
	}
	if ev.HasSpeed {
		p.Speed = ev.Speed
	}
	if ev.HasGlide {
		p.HasGlide, p.Glide = true, ev.Glide
	}

	// --- Source ---
	if sourceParsed {
		p.Sound = parsedSource
	}
	if ev.HasPw {
		p.Pw = ev.Pw
	}
	if ev.HasSpread {
		p.Spread = ev.Spread
	}
	if ev.HasSub {
		p.Sub = clampF(ev.Sub, 0, 1)
	}
	if ev.HasSubOct {
		oct := ev.SubOct
		if oct < 1 {
			oct = 1
		} else if oct > 3 {
			oct = 3
		}
		p.SubOct = oct
	}
	if ev.HasSubWave {
		p.SubWave = ev.SubWave
	}
	if ev.HasSize {
		sz := ev.Size
		if sz > 256 {
			sz = 256
		}
		p.Shape.Size = sz
	}
	if ev.HasMult {
		p.Shape.Mult = clampF(ev.Mult, 0.25, 16.0)
	}
	if ev.HasWarp {
		p.Shape.Warp = clampF(ev.Warp, -1, 1)
	}
	if ev.HasMirror {
		p.Shape.Mirror = clampF(ev.Mirror, 0, 1)
	}
	if ev.HasHarmonics {
		p.Harmonics = clampF(ev.Harmonics, 0.01, 0.999)
	}
	if ev.HasTimbre {
		p.Timbre = clampF(ev.Timbre, 0.01, 0.999)
	}
	if ev.HasMorph {
		p.Morph = clampF(ev.Morph, 0.01, 0.999)
	}
	if ev.HasWave {
		p.Wave = clampF(ev.Wave, 0, 1)
	}
	if ev.HasCut {
		p.HasCut, p.Cut = true, ev.Cut
	}
	if ev.HasScan {
		p.Scan = clampF(ev.Scan, 0, 1)
	}
	if ev.HasWtlen && ev.Wtlen > 0 {
		p.WtCycleLen = ev.Wtlen
	}

	if haveRegistrySample {
		p.Sound = types.SourceSample
		begin, end := float32(0), float32(1)
		if ev.HasBegin {
			begin = ev.Begin
		}
		if ev.HasEnd {
			end = ev.End
		}
		frameCount := registrySampleData.FrameCount
		v.Sample = sampling.NewRegistrySample(registrySampleName, registrySampleData, begin, end)
		if !ev.HasFreq {
			p.Freq = 261.626
		}
		if ev.HasFit && ev.Fit > 0 {
			sampleDur := float32(frameCount) * (end - begin) / e.Sr
			p.Speed = sampleDur / ev.Fit
		}
	} else if ev.HasBegin || ev.HasEnd {
		if v.Sample != nil {
			v.Sample.UpdateRange(ev.Begin, ev.End, ev.HasBegin, ev.HasEnd)
		}
	}

	if ev.HasFilePcm && ev.HasFileFrames {
		p.Sound = types.SourceWebSample
		if !ev.HasFreq {
			p.Freq = 261.626
		}
	}

	// --- Gain ---
	if ev.HasGain {
		p.Gain = ev.Gain
	}
	if ev.HasPostgain {
		p.Postgain = ev.Postgain
	}
	if ev.HasVelocity {
		p.Velocity = ev.Velocity
	}
	if ev.HasPan {
		p.Pan = ev.Pan
	}
	if ev.HasGate {
		p.Gate = ev.Gate
	}
	if ev.HasDuration {
		p.HasDuration, p.Duration = true, ev.Duration
	}

	// --- Gain envelope ---
	gainEnv := dsp.InitEnvelope(false, 0, ev.HasAttack, ev.Attack, false, 0, ev.HasSustain, ev.Sustain, ev.HasRelease, ev.Release)
	if gainEnv.Active {
		p.Attack = gainEnv.Attack
		p.Sustain = gainEnv.Sustain
		p.Release = gainEnv.Release
	}
	if ev.HasDecay {
		p.Decay = ev.Decay
	}

	// --- Filters ---
	if ev.HasLpf {
		p.HasLpf, p.Lpf = true, ev.Lpf
	}
	if ev.HasLpq {
		p.Lpq = ev.Lpq
	}
	applyEnvelopeField(&p.Lpe, &p.Lpa, &p.Lpd, &p.Lps, &p.Lpr, &p.LpEnvActive,
		ev.HasLpe, ev.Lpe, ev.HasLpa, ev.Lpa, ev.HasLpd, ev.Lpd, ev.HasLps, ev.Lps, ev.HasLpr, ev.Lpr)

	if ev.HasHpf {
		p.HasHpf, p.Hpf = true, ev.Hpf
	}
	if ev.HasHpq {
		p.Hpq = ev.Hpq
	}
	applyEnvelopeField(&p.Hpe, &p.Hpa, &p.Hpd, &p.Hps, &p.Hpr, &p.HpEnvActive,
		ev.HasHpe, ev.Hpe, ev.HasHpa, ev.Hpa, ev.HasHpd, ev.Hpd, ev.HasHps, ev.Hps, ev.HasHpr, ev.Hpr)

	if ev.HasBpf {
		p.HasBpf, p.Bpf = true, ev.Bpf
	}
	if ev.HasBpq {
		p.Bpq = ev.Bpq
	}
	applyEnvelopeField(&p.Bpe, &p.Bpa, &p.Bpd, &p.Bps, &p.Bpr, &p.BpEnvActive,
		ev.HasBpe, ev.Bpe, ev.HasBpa, ev.Bpa, ev.HasBpd, ev.Bpd, ev.HasBps, ev.Bps, ev.HasBpr, ev.Bpr)

	if ev.HasLlpf {
		p.HasLlpf, p.Llpf = true, ev.Llpf
	}
	if ev.HasLlpq {
		p.Llpq = ev.Llpq
	}
	if ev.HasLhpf {
		p.HasLhpf, p.Lhpf = true, ev.Lhpf
	}
	if ev.HasLhpq {
		p.Lhpq = ev.Lhpq
	}
	if ev.HasLbpf {
		p.HasLbpf, p.Lbpf = true, ev.Lbpf
	}
	if ev.HasLbpq {
		p.Lbpq = ev.Lbpq
	}
	if ev.HasFtype {
		p.Ftype = ev.Ftype
	}

	// --- Modulation ---
	pitchEnv := dsp.InitEnvelope(ev.HasPenv, ev.Penv, ev.HasPatt, ev.Patt, ev.HasPdec, ev.Pdec, ev.HasPsus, ev.Psus, ev.HasPrel, ev.Prel)
	if pitchEnv.Active {
		p.Penv, p.Patt, p.Pdec, p.Psus, p.Prel, p.PitchEnvActive = pitchEnv.Env, pitchEnv.Attack, pitchEnv.Decay, pitchEnv.Sustain, pitchEnv.Release, true
	}
	if ev.HasVib {
		p.Vib = ev.Vib
	}
	if ev.HasVibmod {
		p.Vibmod = ev.Vibmod
	}
	if ev.HasVibshape {
		p.Vibshape = ev.Vibshape
	}
	if ev.HasFm {
		p.Fm = ev.Fm
	}
	if ev.HasFmh {
		p.Fmh = ev.Fmh
	}
	if ev.HasFmshape {
		p.Fmshape = ev.Fmshape
	}
	fmEnv := dsp.InitEnvelope(ev.HasFme, ev.Fme, ev.HasFma, ev.Fma, ev.HasFmd, ev.Fmd, ev.HasFms, ev.Fms, ev.HasFmr, ev.Fmr)
	if fmEnv.Active {
		p.Fme, p.Fma, p.Fmd, p.Fms, p.Fmr, p.FmEnvActive = fmEnv.Env, fmEnv.Attack, fmEnv.Decay, fmEnv.Sustain, fmEnv.Release, true
	}
	if ev.HasFm2 {
		p.Fm2 = ev.Fm2
	}
	if ev.HasFm2h {
		p.Fm2h = ev.Fm2h
	}
	if ev.HasFmalgo {
		p.Fmalgo = ev.Fmalgo
	}
	if ev.HasFmfb {
		p.Fmfb = ev.Fmfb
	}
	if ev.HasAm {
		p.Am = ev.Am
	}
	if ev.HasAmdepth {
		p.Amdepth = ev.Amdepth
	}
	if ev.HasAmshape {
		p.Amshape = ev.Amshape
	}
	if ev.HasRm {
		p.Rm = ev.Rm
	}
	if ev.HasRmdepth {
		p.Rmdepth = ev.Rmdepth
	}
	if ev.HasRmshape {
		p.Rmshape = ev.Rmshape
	}

	// --- Effects ---
	if ev.HasPhaser {
		p.Phaser = ev.Phaser
	}
	if ev.HasPhaserdepth {
		p.Phaserdepth = ev.Phaserdepth
	}
	if ev.HasPhasersweep {
		p.Phasersweep = ev.Phasersweep
	}
	if ev.HasPhasercenter {
		p.Phasercenter = ev.Phasercenter
	}
	if ev.HasFlanger {
		p.Flanger = ev.Flanger
	}
	if ev.HasFlangerdepth {
		p.Flangerdepth = ev.Flangerdepth
	}
	if ev.HasFlangerfeedback {
		p.Flangerfeedback = ev.Flangerfeedback
	}
	if ev.HasChorus {
		p.Chorus = ev.Chorus
	}
	if ev.HasChorusdepth {
		p.Chorusdepth = ev.Chorusdepth
	}
	if ev.HasChorusdelay {
		p.Chorusdelay = ev.Chorusdelay
	}
	if ev.HasComb {
		p.Comb = ev.Comb
	}
	if ev.HasCombfreq {
		p.Combfreq = ev.Combfreq
	}
	if ev.HasCombfeedback {
		p.Combfeedback = ev.Combfeedback
	}
	if ev.HasCombdamp {
		p.Combdamp = ev.Combdamp
	}
	if ev.HasCoarse {
		p.HasCoarse, p.Coarse = true, ev.Coarse
	}
	if ev.HasCrush {
		p.HasCrush, p.Crush = true, ev.Crush
	}
	if ev.HasFold {
		p.HasFold, p.Fold = true, ev.Fold
	}
	if ev.HasWrap {
		p.HasWrap, p.Wrap = true, ev.Wrap
	}
	if ev.HasDistort {
		p.HasDistort, p.Distort = true, ev.Distort
	}
	if ev.HasDistortvol {
		p.Distortvol = ev.Distortvol
	}
	if ev.HasEqlo {
		p.Eqlo = ev.Eqlo
	}
	if ev.HasEqmid {
		p.Eqmid = ev.Eqmid
	}
	if ev.HasEqhi {
		p.Eqhi = ev.Eqhi
	}
	if ev.HasTilt {
		p.Tilt = clampF(ev.Tilt, -1, 1)
	}
	if ev.HasSmear {
		p.Smear = clampF(ev.Smear, 0, 1)
	}
	if ev.HasWidth {
		p.Width = ev.Width
	}
	if ev.HasHaas {
		p.Haas = ev.Haas
	}

	// --- Sends ---
	if ev.HasOrbit {
		p.Orbit = ev.Orbit
	}
	if ev.HasDelay {
		p.Delay = ev.Delay
	}
	if ev.HasDelaytime {
		p.Delaytime = ev.Delaytime
	}
	if ev.HasDelayfeedback {
		p.Delayfeedback = ev.Delayfeedback
	}
	if ev.HasDelaytype {
		p.Delaytype = ev.Delaytype
	}
	if ev.HasVerb {
		p.Verb = ev.Verb
	}
	if ev.HasVerbtype {
		p.Verbtype = ev.Verbtype
	}
	if ev.HasVerbdecay {
		p.Verbdecay = ev.Verbdecay
	}
	if ev.HasVerbdamp {
		p.Verbdamp = ev.Verbdamp
	}
	if ev.HasVerbpredelay {
		p.Verbpredelay = ev.Verbpredelay
	}
	if ev.HasVerbdiff {
		p.Verbdiff = ev.Verbdiff
	}

	// Install inline parameter modulators.
	for _, m := range ev.Mods {
		v.SetMod(m.Id, m.Chain)
	}
}

// applyEnvelopeField merges a secondary envelope's event fields into
// the voice's stored amount/ADSR fields, matching the apply_env!
// pattern used for every filter and pitch/FM envelope.
func applyEnvelopeField(env, att, dec, sus, rel *float32, active *bool,
	hasEnv bool, envVal float32, hasAtt bool, attVal float32, hasDec bool, decVal float32,
	hasSus bool, susVal float32, hasRel bool, relVal float32) {
	e := dsp.InitEnvelope(hasEnv, envVal, hasAtt, attVal, hasDec, decVal, hasSus, susVal, hasRel, relVal)
	if !e.Active {
		return
	}
	*env, *att, *dec, *sus, *rel, *active = e.Env, e.Attack, e.Decay, e.Sustain, e.Release, true
}

// freeVoice removes voice i by swapping the last active voice into its
// slot, matching the engine's O(1) voice-pool compaction.
func (e *Engine) freeVoice(i int) {
	if e.ActiveVoices == 0 {
		return
	}
	e.ActiveVoices--
	e.Voices[i], e.Voices[e.ActiveVoices] = e.Voices[e.ActiveVoices], e.Voices[i]
}

// processSchedule dispatches every pending event whose time has
// arrived, skipping (rather than dispatching) events more than
// schedule.CatchUpWindow seconds overdue, and reschedules repeating
// events.
func (e *Engine) processSchedule() {
	for {
		t, ok := e.Schedule.PeekTime()
		if !ok || t > e.Time {
			return
		}

		sev, _ := e.Schedule.PopFront()
		diff := e.Time - t

		if diff < schedule.CatchUpWindow {
			if ev, ok := sev.Payload.(event.Event); ok {
				e.processEvent(&ev)
			}
		}

		if sev.HasRepeat {
			sev.Time = t + sev.Repeat
			e.Schedule.Push(sev)
		}
	}
}

// genSample renders one frame into output at sampleIdx, routing each
// live voice into its orbit pair and mixing every orbit's effect
// return back in.
func (e *Engine) genSample(output []float32, sampleIdx int, liveInput []float32) {
	baseIdx := sampleIdx * e.OutputChannels
	numPairs := e.OutputChannels / 2
	if numPairs == 0 {
		numPairs = 1
	}

	for c := 0; c < e.OutputChannels; c++ {
		output[baseIdx+c] = 0
	}

	for _, o := range e.Orbits {
		o.ClearSends()
	}

	i := 0
	for i < e.ActiveVoices {
		v := e.Voices[i]

		if v.Sample != nil && v.Sample.IsHead() {
			if full := e.SampleRegistry.Get(v.Sample.Name); full != nil && full.FrameCount >= full.TotalFrames {
				v.Sample.Upgrade(full)
			}
		}

		alive := v.Process(e.Isr, liveInput, sampleIdx)
		if !alive {
			e.freeVoice(i)
			continue
		}

		orbitIdx := v.Params.Orbit % len(e.Orbits)
		outPair := orbitIdx % numPairs
		pairOffset := outPair * 2

		output[baseIdx+pairOffset] += v.Ch[0]
		output[baseIdx+pairOffset+1] += v.Ch[1]

		if v.Params.Delay > 0 {
			e.Orbits[orbitIdx].AddDelaySend(0, v.Ch[0]*v.Params.Delay)
			e.Orbits[orbitIdx].AddDelaySend(1, v.Ch[1]*v.Params.Delay)
		}
		if v.Params.Verb > 0 {
			e.Orbits[orbitIdx].AddVerbSend(0, v.Ch[0]*v.Params.Verb)
			e.Orbits[orbitIdx].AddVerbSend(1, v.Ch[1]*v.Params.Verb)
		}
		if v.Params.Comb > 0 {
			e.Orbits[orbitIdx].AddCombSend(0, v.Ch[0]*v.Params.Comb)
			e.Orbits[orbitIdx].AddCombSend(1, v.Ch[1]*v.Params.Comb)
		}

		i++
	}

	for orbitIdx, o := range e.Orbits {
		ep := orbit.EffectParams{
			DelayTime: 0.333, DelayFeedback: 0.6,
			VerbDecay: 0.75, VerbDamp: 0.95, VerbPredelay: 0.1, VerbDiff: 0.7,
			CombFreq: 220, CombFeedback: 0.9, CombDamp: 0.1,
		}
		e.fillOrbitParams(orbitIdx, &ep)
		o.Process(&ep)

		outPair := orbitIdx % numPairs
		pairOffset := outPair * 2
		output[baseIdx+pairOffset] += o.DelayOut[0] + o.VerbOut[0] + o.CombOut[0]
		output[baseIdx+pairOffset+1] += o.DelayOut[1] + o.VerbOut[1] + o.CombOut[1]
	}

	for c := 0; c < e.OutputChannels; c++ {
		output[baseIdx+c] = clampF(output[baseIdx+c]*0.5, -1, 1)
	}
}

// fillOrbitParams sets orbitIdx's effect parameters from whichever
// voice currently routed to it last wrote a nonzero send, matching the
// original engine's behavior of letting the most recent sender also
// drive the bus's settings.
func (e *Engine) fillOrbitParams(orbitIdx int, ep *orbit.EffectParams) {
	for i := 0; i < e.ActiveVoices; i++ {
		v := e.Voices[i]
		if v.Params.Orbit%len(e.Orbits) != orbitIdx {
			continue
		}
		if v.Params.Delay > 0 {
			ep.DelayTime, ep.DelayFeedback, ep.DelayType = v.Params.Delaytime, v.Params.Delayfeedback, v.Params.Delaytype
		}
		if v.Params.Verb > 0 {
			ep.VerbType, ep.VerbDecay, ep.VerbDamp, ep.VerbPredelay, ep.VerbDiff =
				v.Params.Verbtype, v.Params.Verbdecay, v.Params.Verbdamp, v.Params.Verbpredelay, v.Params.Verbdiff
		}
		if v.Params.Comb > 0 {
			ep.CombFreq, ep.CombFeedback, ep.CombDamp = v.Params.Combfreq, v.Params.Combfeedback, v.Params.Combdamp
		}
	}
}

// ProcessBlock advances the schedule and renders output.len()/OutputChannels
// frames, recording DSP load and voice/schedule telemetry.
func (e *Engine) ProcessBlock(output []float32, liveInput []float32) {
	start := time.Now()

	samples := len(output) / e.OutputChannels
	e.Metrics.Load.SetBufferTime(uint64(float64(samples) / float64(e.Sr) * 1e9))

	for i := 0; i < samples; i++ {
		e.processSchedule()
		e.Tick++
		e.Time = float64(e.Tick) / float64(e.Sr)
		e.genSample(output, i, liveInput)
	}

	elapsed := uint64(time.Since(start).Nanoseconds())
	e.Metrics.Load.RecordSample(elapsed)
	e.Metrics.ActiveVoices.Store(uint32(e.ActiveVoices))
	for {
		peak := e.Metrics.PeakVoices.Load()
		if uint32(e.ActiveVoices) <= peak || e.Metrics.PeakVoices.CompareAndSwap(peak, uint32(e.ActiveVoices)) {
			break
		}
	}
	e.Metrics.ScheduleDepth.Store(uint32(e.Schedule.Len()))

	copyLen := len(output)
	if len(e.Output) < copyLen {
		copyLen = len(e.Output)
	}
	copy(e.Output[:copyLen], output[:copyLen])
}

// GetTime returns the engine's internal clock, in seconds.
func (e *Engine) GetTime() float64 {
	return e.Time
}

// Hush releases every active voice's gate without clearing the pool,
// letting release tails ring out.
func (e *Engine) Hush() {
	for i := 0; i < e.ActiveVoices; i++ {
		e.Voices[i].Params.Gate = 0
	}
}

// Panic silences the engine immediately by dropping every active
// voice, with no release tail.
func (e *Engine) Panic() {
	e.ActiveVoices = 0
}
