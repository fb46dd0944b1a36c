// Package event parses the slash-delimited command grammar
// ("/freq/440/sound/saw/lpf/800") into an Event: a sparse set of
// optional fields (each with its own HasX flag, since Go has no
// Option<T>) plus any inline parameter modulators attached to a value
// via the '~', '?' or '>' markers ("200~2000:1").
package event

import (
	"strconv"
	"strings"

	"github.com/sova-org/doux/internal/modulation"
	"github.com/sova-org/doux/internal/types"
)

// ModEntry pairs an inline modulator with the voice parameter it
// drives.
type ModEntry struct {
	Id    modulation.ParamId
	Chain modulation.ModChain
}

// Event is the parsed form of one command line. Every optional field
// has a matching HasX bool; callers must check it before reading the
// value, exactly as the Rust Option<T> fields were checked with
// is_some()/if let.
type Event struct {
	HasCmd bool
	Cmd    string

	// Timing
	HasTime     bool
	Time        float64
	HasDelta    bool
	Delta       float64
	HasRepeat   bool
	Repeat      float32
	HasDuration bool
	Duration    float32
	HasGate     bool
	Gate        float32

	// Voice control
	HasVoice bool
	Voice    int
	HasReset bool
	Reset    bool
	HasOrbit bool
	Orbit    int

	// Inline parameter modulation
	Mods []ModEntry

	// Pitch
	HasFreq   bool
	Freq      float32
	HasDetune bool
	Detune    float32
	HasSpeed  bool
	Speed     float32
	HasGlide  bool
	Glide     float32

	HasFit bool
	Fit    float32

	// Source
	HasSound     bool
	Sound        string
	HasPw        bool
	Pw           float32
	HasSpread    bool
	Spread       float32
	HasSize      bool
	Size         uint16
	HasMult      bool
	Mult         float32
	HasWarp      bool
	Warp         float32
	HasMirror    bool
	Mirror       float32
	HasHarmonics bool
	Harmonics    float32
	HasTimbre    bool
	Timbre       float32
	HasMorph     bool
	Morph        float32
	HasWave      bool
	Wave         float32
	HasN         bool
	N            int
	HasCut       bool
	Cut          int
	HasBegin     bool
	Begin        float32
	HasEnd       bool
	End          float32
	HasBank      bool
	Bank         string
	HasSub       bool
	Sub          float32
	HasSubOct    bool
	SubOct       uint8
	HasSubWave   bool
	SubWave      types.SubWave
	HasScan      bool
	Scan         float32
	HasWtlen     bool
	Wtlen        uint32

	// Web sample (browser builds only; set out-of-band by the host)
	HasFilePcm      bool
	FilePcm         int
	HasFileFrames   bool
	FileFrames      int
	HasFileChannels bool
	FileChannels    uint8
	HasFileFreq     bool
	FileFreq        float32

	// Gain
	HasGain     bool
	Gain        float32
	HasPostgain bool
	Postgain    float32
	HasVelocity bool
	Velocity    float32
	HasPan      bool
	Pan         float32

	// Gain envelope
	HasAttack  bool
	Attack     float32
	HasDecay   bool
	Decay      float32
	HasSustain bool
	Sustain    float32
	HasRelease bool
	Release    float32

	// Lowpass filter
	HasLpf bool
	Lpf    float32
	HasLpq bool
	Lpq    float32
	HasLpe bool
	Lpe    float32
	HasLpa bool
	Lpa    float32
	HasLpd bool
	Lpd    float32
	HasLps bool
	Lps    float32
	HasLpr bool
	Lpr    float32

	// Highpass filter
	HasHpf bool
	Hpf    float32
	HasHpq bool
	Hpq    float32
	HasHpe bool
	Hpe    float32
	HasHpa bool
	Hpa    float32
	HasHpd bool
	Hpd    float32
	HasHps bool
	Hps    float32
	HasHpr bool
	Hpr    float32

	// Bandpass filter
	HasBpf bool
	Bpf    float32
	HasBpq bool
	Bpq    float32
	HasBpe bool
	Bpe    float32
	HasBpa bool
	Bpa    float32
	HasBpd bool
	Bpd    float32
	HasBps bool
	Bps    float32
	HasBpr bool
	Bpr    float32

	// Ladder filter
	HasLlpf bool
	Llpf    float32
	HasLlpq bool
	Llpq    float32
	HasLhpf bool
	Lhpf    float32
	HasLhpq bool
	Lhpq    float32
	HasLbpf bool
	Lbpf    float32
	HasLbpq bool
	Lbpq    float32

	HasFtype bool
	Ftype    types.FilterSlope

	// Pitch envelope
	HasPenv bool
	Penv    float32
	HasPatt bool
	Patt    float32
	HasPdec bool
	Pdec    float32
	HasPsus bool
	Psus    float32
	HasPrel bool
	Prel    float32

	// Vibrato
	HasVib      bool
	Vib         float32
	HasVibmod   bool
	Vibmod      float32
	HasVibshape bool
	Vibshape    types.LfoShape

	// FM synthesis
	HasFm       bool
	Fm          float32
	HasFmh      bool
	Fmh         float32
	HasFmshape  bool
	Fmshape     types.LfoShape
	HasFme      bool
	Fme         float32
	HasFma      bool
	Fma         float32
	HasFmd      bool
	Fmd         float32
	HasFms      bool
	Fms         float32
	HasFmr      bool
	Fmr         float32
	HasFm2      bool
	Fm2         float32
	HasFm2h     bool
	Fm2h        float32
	HasFmalgo   bool
	Fmalgo      uint8
	HasFmfb     bool
	Fmfb        float32

	// AM
	HasAm      bool
	Am         float32
	HasAmdepth bool
	Amdepth    float32
	HasAmshape bool
	Amshape    types.LfoShape

	// Ring mod
	HasRm      bool
	Rm         float32
	HasRmdepth bool
	Rmdepth    float32
	HasRmshape bool
	Rmshape    types.LfoShape

	// Phaser
	HasPhaser       bool
	Phaser          float32
	HasPhaserdepth  bool
	Phaserdepth     float32
	HasPhasersweep  bool
	Phasersweep     float32
	HasPhasercenter bool
	Phasercenter    float32

	// Flanger
	HasFlanger         bool
	Flanger            float32
	HasFlangerdepth    bool
	Flangerdepth       float32
	HasFlangerfeedback bool
	Flangerfeedback    float32

	// Feedback delay
	HasFeedback   bool
	Feedback      float32
	HasFbtime     bool
	Fbtime        float32
	HasFbdamp     bool
	Fbdamp        float32
	HasFblfo      bool
	Fblfo         float32
	HasFblfodepth bool
	Fblfodepth    float32
	HasFblfoshape bool
	Fblfoshape    types.LfoShape

	// Chorus
	HasChorus      bool
	Chorus         float32
	HasChorusdepth bool
	Chorusdepth    float32
	HasChorusdelay bool
	Chorusdelay    float32

	// Comb filter
	HasComb         bool
	Comb            float32
	HasCombfreq     bool
	Combfreq        float32
	HasCombfeedback bool
	Combfeedback    float32
	HasCombdamp     bool
	Combdamp        float32

	// Distortion
	HasCoarse     bool
	Coarse        float32
	HasCrush      bool
	Crush         float32
	HasFold       bool
	Fold          float32
	HasWrap       bool
	Wrap          float32
	HasDistort    bool
	Distort       float32
	HasDistortvol bool
	Distortvol    float32

	// Stereo
	HasWidth bool
	Width    float32
	HasHaas  bool
	Haas     float32

	// EQ
	HasEqlo bool
	Eqlo    float32
	HasEqmid bool
	Eqmid    float32
	HasEqhi bool
	Eqhi    float32
	HasTilt bool
	Tilt    float32
	HasSmear bool
	Smear    float32

	// Delay
	HasDelay         bool
	Delay            float32
	HasDelaytime     bool
	Delaytime        float32
	HasDelayfeedback bool
	Delayfeedback    float32
	HasDelaytype     bool
	Delaytype        types.DelayType

	// Reverb
	HasVerb         bool
	Verb            float32
	HasVerbtype     bool
	Verbtype        types.ReverbType
	HasVerbdecay    bool
	Verbdecay       float32
	HasVerbdamp     bool
	Verbdamp        float32
	HasVerbpredelay bool
	Verbpredelay    float32
	HasVerbdiff     bool
	Verbdiff        float32
}

func f32(s string) (float32, bool) {
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, false
	}
	return float32(v), true
}

func f64(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func u(s string) (int, bool) {
	v, ok := f32(s)
	if !ok {
		return 0, false
	}
	return int(v), true
}

// Parse tokenizes a slash-delimited command line into an Event. For
// modulatable keys, a value recognized by the inline modulation grammar
// is captured as a ModEntry instead of a plain field assignment; other
// keys accept only scalar values. Unrecognized keys are
// silently ignored, matching the original grammar's forward
// compatibility with unknown parameters.
func Parse(input string) Event {
	var e Event

	var tokens []string
	for _, tok := range strings.Split(strings.TrimSpace(input), "/") {
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}

	// param binds a modulatable float field: if val parses as an
	// inline modulator chain, it's recorded against id; otherwise it's
	// a plain literal written through set.
	param := func(val string, id modulation.ParamId, set func(float32)) {
		if chain, ok := modulation.Parse(val); ok {
			e.Mods = append(e.Mods, ModEntry{Id: id, Chain: chain})
			return
		}
		if v, ok := f32(val); ok {
			set(v)
		}
	}

	for i := 0; i+1 < len(tokens); i += 2 {
		key, val := tokens[i], tokens[i+1]
		switch key {
		case "doux", "dirt":
			e.HasCmd, e.Cmd = true, val
		case "time", "t":
			if v, ok := f64(val); ok {
				e.HasTime, e.Time = true, v
			}
		case "delta":
			if v, ok := f64(val); ok {
				e.HasDelta, e.Delta = true, v
			}
		case "repeat", "rep":
			if v, ok := f32(val); ok {
				e.HasRepeat, e.Repeat = true, v
			}
		case "duration", "dur", "d":
			if v, ok := f32(val); ok {
				e.HasDuration, e.Duration = true, v
			}
		case "gate":
			if v, ok := f32(val); ok {
				e.HasGate, e.Gate = true, v
			}
		case "voice":
			if v, ok := u(val); ok {
				e.HasVoice, e.Voice = true, v
			}
		case "reset":
			e.HasReset, e.Reset = true, val == "1" || val == "true"
		case "orbit":
			if v, ok := u(val); ok {
				e.HasOrbit, e.Orbit = true, v
			}
		case "freq":
			param(val, modulation.PFreq, func(v float32) { e.HasFreq, e.Freq = true, v })
		case "note":
			if v, ok := f32(val); ok {
				e.HasFreq, e.Freq = true, types.Midi2Freq(v)
			}
		case "detune":
			param(val, modulation.PDetune, func(v float32) { e.HasDetune, e.Detune = true, v })
		case "speed":
			param(val, modulation.PSpeed, func(v float32) { e.HasSpeed, e.Speed = true, v })
		case "fit":
			if v, ok := f32(val); ok {
				e.HasFit, e.Fit = true, v
			}
		case "glide":
			if v, ok := f32(val); ok {
				e.HasGlide, e.Glide = true, v
			}
		case "sound", "s":
			e.HasSound, e.Sound = true, val
		case "pw":
			param(val, modulation.PPw, func(v float32) { e.HasPw, e.Pw = true, v })
		case "spread":
			if v, ok := f32(val); ok {
				e.HasSpread, e.Spread = true, v
			}
		case "size":
			if v, ok := u(val); ok {
				e.HasSize, e.Size = true, uint16(v)
			}
		case "mult":
			if v, ok := f32(val); ok {
				e.HasMult, e.Mult = true, v
			}
		case "warp":
			if v, ok := f32(val); ok {
				e.HasWarp, e.Warp = true, v
			}
		case "mirror":
			if v, ok := f32(val); ok {
				e.HasMirror, e.Mirror = true, v
			}
		case "harmonics", "harm":
			param(val, modulation.PHarmonics, func(v float32) { e.HasHarmonics, e.Harmonics = true, v })
		case "timbre":
			param(val, modulation.PTimbre, func(v float32) { e.HasTimbre, e.Timbre = true, v })
		case "morph":
			param(val, modulation.PMorph, func(v float32) { e.HasMorph, e.Morph = true, v })
		case "wave":
			param(val, modulation.PWave, func(v float32) { e.HasWave, e.Wave = true, v })
		case "n":
			if v, ok := u(val); ok {
				e.HasN, e.N = true, v
			}
		case "cut":
			if v, ok := u(val); ok {
				e.HasCut, e.Cut = true, v
			}
		case "begin":
			if v, ok := f32(val); ok {
				e.HasBegin, e.Begin = true, v
			}
		case "end":
			if v, ok := f32(val); ok {
				e.HasEnd, e.End = true, v
			}
		case "bank":
			e.HasBank, e.Bank = true, val
		case "sub":
			param(val, modulation.PSub, func(v float32) { e.HasSub, e.Sub = true, v })
		case "suboct":
			if v, ok := u(val); ok {
				e.HasSubOct, e.SubOct = true, uint8(v)
			}
		case "subwave":
			if v, ok := types.ParseSubWave(val); ok {
				e.HasSubWave, e.SubWave = true, v
			}
		case "scan":
			param(val, modulation.PScan, func(v float32) { e.HasScan, e.Scan = true, v })
		case "wtlen":
			if v, ok := u(val); ok {
				e.HasWtlen, e.Wtlen = true, uint32(v)
			}
		case "file_pcm":
			if v, ok := u(val); ok {
				e.HasFilePcm, e.FilePcm = true, v
			}
		case "file_frames":
			if v, ok := u(val); ok {
				e.HasFileFrames, e.FileFrames = true, v
			}
		case "file_channels":
			if v, ok := u(val); ok {
				e.HasFileChannels, e.FileChannels = true, uint8(v)
			}
		case "file_freq":
			if v, ok := f32(val); ok {
				e.HasFileFreq, e.FileFreq = true, v
			}
		case "gain":
			param(val, modulation.PGain, func(v float32) { e.HasGain, e.Gain = true, v })
		case "postgain":
			param(val, modulation.PPostgain, func(v float32) { e.HasPostgain, e.Postgain = true, v })
		case "velocity":
			if v, ok := f32(val); ok {
				e.HasVelocity, e.Velocity = true, v
			}
		case "pan":
			param(val, modulation.PPan, func(v float32) { e.HasPan, e.Pan = true, v })
		case "attack":
			if v, ok := f32(val); ok {
				e.HasAttack, e.Attack = true, v
			}
		case "decay":
			if v, ok := f32(val); ok {
				e.HasDecay, e.Decay = true, v
			}
		case "sustain":
			if v, ok := f32(val); ok {
				e.HasSustain, e.Sustain = true, v
			}
		case "release":
			if v, ok := f32(val); ok {
				e.HasRelease, e.Release = true, v
			}
		case "lpf", "cutoff":
			param(val, modulation.PLpf, func(v float32) { e.HasLpf, e.Lpf = true, v })
		case "lpq", "resonance":
			param(val, modulation.PLpq, func(v float32) { e.HasLpq, e.Lpq = true, v })
		case "lpe", "lpenv":
			if v, ok := f32(val); ok {
				e.HasLpe, e.Lpe = true, v
			}
		case "lpa", "lpattack":
			if v, ok := f32(val); ok {
				e.HasLpa, e.Lpa = true, v
			}
		case "lpd", "lpdecay":
			if v, ok := f32(val); ok {
				e.HasLpd, e.Lpd = true, v
			}
		case "lps", "lpsustain":
			if v, ok := f32(val); ok {
				e.HasLps, e.Lps = true, v
			}
		case "lpr", "lprelease":
			if v, ok := f32(val); ok {
				e.HasLpr, e.Lpr = true, v
			}
		case "hpf", "hcutoff":
			param(val, modulation.PHpf, func(v float32) { e.HasHpf, e.Hpf = true, v })
		case "hpq", "hresonance":
			param(val, modulation.PHpq, func(v float32) { e.HasHpq, e.Hpq = true, v })
		case "hpe", "hpenv":
			if v, ok := f32(val); ok {
				e.HasHpe, e.Hpe = true, v
			}
		case "hpa":
			if v, ok := f32(val); ok {
				e.HasHpa, e.Hpa = true, v
			}
		case "hpd":
			if v, ok := f32(val); ok {
				e.HasHpd, e.Hpd = true, v
			}
		case "hps":
			if v, ok := f32(val); ok {
				e.HasHps, e.Hps = true, v
			}
		case "hpr":
			if v, ok := f32(val); ok {
				e.HasHpr, e.Hpr = true, v
			}
		case "bpf", "bandf":
			param(val, modulation.PBpf, func(v float32) { e.HasBpf, e.Bpf = true, v })
		case "bpq", "bandq":
			param(val, modulation.PBpq, func(v float32) { e.HasBpq, e.Bpq = true, v })
		case "bpe", "bpenv":
			if v, ok := f32(val); ok {
				e.HasBpe, e.Bpe = true, v
			}
		case "bpa", "bpattack":
			if v, ok := f32(val); ok {
				e.HasBpa, e.Bpa = true, v
			}
		case "bpd", "bpdecay":
			if v, ok := f32(val); ok {
				e.HasBpd, e.Bpd = true, v
			}
		case "bps", "bpsustain":
			if v, ok := f32(val); ok {
				e.HasBps, e.Bps = true, v
			}
		case "bpr", "bprelease":
			if v, ok := f32(val); ok {
				e.HasBpr, e.Bpr = true, v
			}
		case "llpf":
			param(val, modulation.PLlpf, func(v float32) { e.HasLlpf, e.Llpf = true, v })
		case "llpq":
			param(val, modulation.PLlpq, func(v float32) { e.HasLlpq, e.Llpq = true, v })
		case "lhpf":
			param(val, modulation.PLhpf, func(v float32) { e.HasLhpf, e.Lhpf = true, v })
		case "lhpq":
			param(val, modulation.PLhpq, func(v float32) { e.HasLhpq, e.Lhpq = true, v })
		case "lbpf":
			param(val, modulation.PLbpf, func(v float32) { e.HasLbpf, e.Lbpf = true, v })
		case "lbpq":
			param(val, modulation.PLbpq, func(v float32) { e.HasLbpq, e.Lbpq = true, v })
		case "ftype":
			if v, ok := types.ParseFilterSlope(val); ok {
				e.HasFtype, e.Ftype = true, v
			}
		case "penv":
			if v, ok := f32(val); ok {
				e.HasPenv, e.Penv = true, v
			}
		case "patt":
			if v, ok := f32(val); ok {
				e.HasPatt, e.Patt = true, v
			}
		case "pdec":
			if v, ok := f32(val); ok {
				e.HasPdec, e.Pdec = true, v
			}
		case "psus":
			if v, ok := f32(val); ok {
				e.HasPsus, e.Psus = true, v
			}
		case "prel":
			if v, ok := f32(val); ok {
				e.HasPrel, e.Prel = true, v
			}
		case "vib":
			param(val, modulation.PVib, func(v float32) { e.HasVib, e.Vib = true, v })
		case "vibmod":
			param(val, modulation.PVibMod, func(v float32) { e.HasVibmod, e.Vibmod = true, v })
		case "vibshape":
			if v, ok := types.ParseLfoShape(val); ok {
				e.HasVibshape, e.Vibshape = true, v
			}
		case "fm", "fmi":
			param(val, modulation.PFm, func(v float32) { e.HasFm, e.Fm = true, v })
		case "fmh":
			param(val, modulation.PFmH, func(v float32) { e.HasFmh, e.Fmh = true, v })
		case "fmshape":
			if v, ok := types.ParseLfoShape(val); ok {
				e.HasFmshape, e.Fmshape = true, v
			}
		case "fme":
			if v, ok := f32(val); ok {
				e.HasFme, e.Fme = true, v
			}
		case "fma":
			if v, ok := f32(val); ok {
				e.HasFma, e.Fma = true, v
			}
		case "fmd":
			if v, ok := f32(val); ok {
				e.HasFmd, e.Fmd = true, v
			}
		case "fms":
			if v, ok := f32(val); ok {
				e.HasFms, e.Fms = true, v
			}
		case "fmr":
			if v, ok := f32(val); ok {
				e.HasFmr, e.Fmr = true, v
			}
		case "fm2":
			param(val, modulation.PFm2, func(v float32) { e.HasFm2, e.Fm2 = true, v })
		case "fm2h":
			param(val, modulation.PFm2H, func(v float32) { e.HasFm2h, e.Fm2h = true, v })
		case "fmalgo":
			if v, ok := u(val); ok {
				e.HasFmalgo, e.Fmalgo = true, uint8(v)
			}
		case "fmfb":
			param(val, modulation.PFmFb, func(v float32) { e.HasFmfb, e.Fmfb = true, v })
		case "am":
			param(val, modulation.PAm, func(v float32) { e.HasAm, e.Am = true, v })
		case "amdepth":
			param(val, modulation.PAmDepth, func(v float32) { e.HasAmdepth, e.Amdepth = true, v })
		case "amshape":
			if v, ok := types.ParseLfoShape(val); ok {
				e.HasAmshape, e.Amshape = true, v
			}
		case "rm":
			param(val, modulation.PRm, func(v float32) { e.HasRm, e.Rm = true, v })
		case "rmdepth":
			param(val, modulation.PRmDepth, func(v float32) { e.HasRmdepth, e.Rmdepth = true, v })
		case "rmshape":
			if v, ok := types.ParseLfoShape(val); ok {
				e.HasRmshape, e.Rmshape = true, v
			}
		case "phaser", "phaserrate":
			param(val, modulation.PPhaser, func(v float32) { e.HasPhaser, e.Phaser = true, v })
		case "phaserdepth":
			param(val, modulation.PPhaserDepth, func(v float32) { e.HasPhaserdepth, e.Phaserdepth = true, v })
		case "phasersweep":
			param(val, modulation.PPhaserSweep, func(v float32) { e.HasPhasersweep, e.Phasersweep = true, v })
		case "phasercenter":
			param(val, modulation.PPhaserCenter, func(v float32) { e.HasPhasercenter, e.Phasercenter = true, v })
		case "flanger", "flangerrate":
			param(val, modulation.PFlanger, func(v float32) { e.HasFlanger, e.Flanger = true, v })
		case "flangerdepth":
			param(val, modulation.PFlangerDepth, func(v float32) { e.HasFlangerdepth, e.Flangerdepth = true, v })
		case "flangerfeedback":
			param(val, modulation.PFlangerFeedback, func(v float32) { e.HasFlangerfeedback, e.Flangerfeedback = true, v })
		case "feedback", "fb":
			param(val, modulation.PFeedback, func(v float32) { e.HasFeedback, e.Feedback = true, v })
		case "fbtime", "fbt":
			if v, ok := f32(val); ok {
				e.HasFbtime, e.Fbtime = true, v
			}
		case "fbdamp", "fbd":
			if v, ok := f32(val); ok {
				e.HasFbdamp, e.Fbdamp = true, v
			}
		case "fblfo":
			if v, ok := f32(val); ok {
				e.HasFblfo, e.Fblfo = true, v
			}
		case "fblfodepth":
			if v, ok := f32(val); ok {
				e.HasFblfodepth, e.Fblfodepth = true, v
			}
		case "fblfoshape":
			if v, ok := types.ParseLfoShape(val); ok {
				e.HasFblfoshape, e.Fblfoshape = true, v
			}
		case "chorus", "chorusrate":
			param(val, modulation.PChorus, func(v float32) { e.HasChorus, e.Chorus = true, v })
		case "chorusdepth":
			param(val, modulation.PChorusDepth, func(v float32) { e.HasChorusdepth, e.Chorusdepth = true, v })
		case "chorusdelay":
			param(val, modulation.PChorusDelay, func(v float32) { e.HasChorusdelay, e.Chorusdelay = true, v })
		case "comb":
			param(val, modulation.PComb, func(v float32) { e.HasComb, e.Comb = true, v })
		case "combfreq":
			if v, ok := f32(val); ok {
				e.HasCombfreq, e.Combfreq = true, v
			}
		case "combfeedback":
			if v, ok := f32(val); ok {
				e.HasCombfeedback, e.Combfeedback = true, v
			}
		case "combdamp":
			if v, ok := f32(val); ok {
				e.HasCombdamp, e.Combdamp = true, v
			}
		case "coarse":
			param(val, modulation.PCoarse, func(v float32) { e.HasCoarse, e.Coarse = true, v })
		case "crush":
			param(val, modulation.PCrush, func(v float32) { e.HasCrush, e.Crush = true, v })
		case "fold":
			param(val, modulation.PFold, func(v float32) { e.HasFold, e.Fold = true, v })
		case "wrap":
			param(val, modulation.PWrap, func(v float32) { e.HasWrap, e.Wrap = true, v })
		case "distort":
			param(val, modulation.PDistort, func(v float32) { e.HasDistort, e.Distort = true, v })
		case "distortvol":
			if v, ok := f32(val); ok {
				e.HasDistortvol, e.Distortvol = true, v
			}
		case "width":
			param(val, modulation.PWidth, func(v float32) { e.HasWidth, e.Width = true, v })
		case "haas":
			param(val, modulation.PHaas, func(v float32) { e.HasHaas, e.Haas = true, v })
		case "eqlo":
			param(val, modulation.PEqLo, func(v float32) { e.HasEqlo, e.Eqlo = true, v })
		case "eqmid":
			param(val, modulation.PEqMid, func(v float32) { e.HasEqmid, e.Eqmid = true, v })
		case "eqhi":
			param(val, modulation.PEqHi, func(v float32) { e.HasEqhi, e.Eqhi = true, v })
		case "tilt":
			param(val, modulation.PTilt, func(v float32) { e.HasTilt, e.Tilt = true, v })
		case "smear":
			param(val, modulation.PSmear, func(v float32) { e.HasSmear, e.Smear = true, v })
		case "delay":
			param(val, modulation.PDelay, func(v float32) { e.HasDelay, e.Delay = true, v })
		case "delaytime":
			if v, ok := f32(val); ok {
				e.HasDelaytime, e.Delaytime = true, v
			}
		case "delayfeedback":
			if v, ok := f32(val); ok {
				e.HasDelayfeedback, e.Delayfeedback = true, v
			}
		case "delaytype", "dtype":
			if v, ok := types.ParseDelayType(val); ok {
				e.HasDelaytype, e.Delaytype = true, v
			}
		case "verb", "reverb":
			param(val, modulation.PVerb, func(v float32) { e.HasVerb, e.Verb = true, v })
		case "verbtype", "vtype":
			if v, ok := types.ParseReverbType(val); ok {
				e.HasVerbtype, e.Verbtype = true, v
			}
		case "verbdecay":
			if v, ok := f32(val); ok {
				e.HasVerbdecay, e.Verbdecay = true, v
			}
		case "verbdamp":
			if v, ok := f32(val); ok {
				e.HasVerbdamp, e.Verbdamp = true, v
			}
		case "verbpredelay":
			if v, ok := f32(val); ok {
				e.HasVerbpredelay, e.Verbpredelay = true, v
			}
		case "verbdiff":
			if v, ok := f32(val); ok {
				e.HasVerbdiff, e.Verbdiff = true, v
			}
		}
	}

	return e
}
