// Package modulation implements the inline parameter-modulation grammar
// attached to command values: oscillating (LFO-like), transitional
// (up to four envelope segments) and random (hold/smooth/drunk) chains,
// each ticked once per audio sample and written back onto a VoiceParams
// field identified by ParamId.
package modulation

import (
	"strconv"
	"strings"

	"github.com/sova-org/doux/internal/dsp"
)

// ParamId names every VoiceParams field that can carry an inline
// modulator, mirroring the command keys parsed by internal/event.
type ParamId int

const (
	PFreq ParamId = iota
	PDetune
	PSpeed
	PGlide
	PPw
	PSpread
	PSize
	PMult
	PWarp
	PMirror
	PSub
	PSubOct
	PScan
	PWtLen
	PHarmonics
	PTimbre
	PMorph
	PWave
	PAttack
	PDecay
	PSustain
	PRelease
	PLpf
	PLpq
	PHpf
	PHpq
	PBpf
	PBpq
	PLlpf
	PLlpq
	PLhpf
	PLhpq
	PLbpf
	PLbpq
	PPenv
	PVib
	PVibMod
	PFm
	PFmH
	PFm2
	PFm2H
	PFmFb
	PAm
	PAmDepth
	PRm
	PRmDepth
	PPhaser
	PPhaserDepth
	PPhaserSweep
	PPhaserCenter
	PFlanger
	PFlangerDepth
	PFlangerFeedback
	PChorus
	PChorusDepth
	PChorusDelay
	PComb
	PCombFreq
	PCombFeedback
	PCombDamp
	PFeedback
	PFbTime
	PFbDamp
	PFbLfoDepth
	PCoarse
	PCrush
	PFold
	PWrap
	PDistort
	PDistortVol
	PWidth
	PHaas
	PEqLo
	PEqMid
	PEqHi
	PTilt
	PSmear
	PDelay
	PDelayTime
	PDelayFeedback
	PVerb
	PVerbDecay
	PVerbDamp
	PVerbPredelay
	PVerbDiff
	PPan
	PGain
	PPostgain
)

// ModCurve selects the shape of a Transition segment's approach to its
// target value.
type ModCurve int

const (
	CurveLinear ModCurve = iota
	CurveExponential
	CurveSmooth
)

// ModShape selects the waveform of an Oscillate chain or the statistics
// of a Random chain.
type ModShape int

const (
	ShapeSine ModShape = iota
	ShapeTriangle
	ShapeSaw
	ShapeSquare
	ShapeHold
	ShapeRand
	ShapeDrunk
)

// ModSegment is one leg of a Transition chain.
type ModSegment struct {
	Target float32
	Freq   float32
	Curve  ModCurve
}

// ChainKind distinguishes the two ModChain variants.
type ChainKind int

const (
	ChainOscillate ChainKind = iota
	ChainTransition
)

// ModChain is a parsed inline modulator: either an oscillating min/max
// sweep or a chain of up to four transition segments.
type ModChain struct {
	Kind ChainKind

	// Oscillate / Random fields.
	Min, Max float32
	Freq     float32
	Shape    ModShape

	// Transition fields.
	Start    float32
	Segments [4]ModSegment
	Count    int
	Looping  bool
}

// lcg is a tiny linear-congruential generator used for the deterministic
// seeding of Random-chain draws (matches the reference implementation's
// choice of a fast, non-cryptographic generator for audio-rate noise).
func lcg(seed uint32) uint32 {
	return seed*1664525 + 1013904223
}

// Parse attempts to interpret value as a modulator chain. ok is false if
// value contains none of the modulator grammar's marker characters, in
// which case the caller should fall back to scalar parsing.
func Parse(value string) (ModChain, bool) {
	if strings.ContainsAny(value, "~?>") {
		if strings.Contains(value, ">") {
			if mc, ok := parseTransition(value); ok {
				return mc, true
			}
		}
		if strings.Contains(value, "~") && !strings.Contains(value, ">") {
			if mc, ok := parseOscillate(value); ok {
				return mc, true
			}
		}
		if strings.Contains(value, "?") {
			if mc, ok := parseRandom(value); ok {
				return mc, true
			}
		}
	}
	return ModChain{}, false
}

// parseOscillate parses "min~max:period[suffix]".
func parseOscillate(s string) (ModChain, bool) {
	parts := strings.SplitN(s, "~", 2)
	if len(parts) != 2 {
		return ModChain{}, false
	}
	minV, err := strconv.ParseFloat(parts[0], 32)
	if err != nil {
		return ModChain{}, false
	}
	rest := parts[1]
	colonIdx := strings.Index(rest, ":")
	if colonIdx < 0 {
		return ModChain{}, false
	}
	maxStr := rest[:colonIdx]
	periodStr := rest[colonIdx+1:]
	maxV, err := strconv.ParseFloat(maxStr, 32)
	if err != nil {
		return ModChain{}, false
	}

	shape := ShapeSine
	suffix := byte(0)
	if len(periodStr) > 0 {
		last := periodStr[len(periodStr)-1]
		if last == 't' || last == 'w' || last == 'q' {
			suffix = last
			periodStr = periodStr[:len(periodStr)-1]
		}
	}
	switch suffix {
	case 't':
		shape = ShapeTriangle
	case 'w':
		shape = ShapeSaw
	case 'q':
		shape = ShapeSquare
	}
	period, err := strconv.ParseFloat(periodStr, 32)
	if err != nil || period <= 0 {
		return ModChain{}, false
	}

	return ModChain{
		Kind:  ChainOscillate,
		Min:   float32(minV),
		Max:   float32(maxV),
		Freq:  float32(1.0 / period),
		Shape: shape,
	}, true
}

// parseRandom parses "min?max:period[suffix]" where suffix selects
// hold (none), smooth-random (s) or drunk-walk (d).
func parseRandom(s string) (ModChain, bool) {
	parts := strings.SplitN(s, "?", 2)
	if len(parts) != 2 {
		return ModChain{}, false
	}
	minV, err := strconv.ParseFloat(parts[0], 32)
	if err != nil {
		return ModChain{}, false
	}
	rest := parts[1]
	colonIdx := strings.Index(rest, ":")
	if colonIdx < 0 {
		return ModChain{}, false
	}
	maxStr := rest[:colonIdx]
	periodStr := rest[colonIdx+1:]
	maxV, err := strconv.ParseFloat(maxStr, 32)
	if err != nil {
		return ModChain{}, false
	}

	shape := ShapeHold
	suffix := byte(0)
	if len(periodStr) > 0 {
		last := periodStr[len(periodStr)-1]
		if last == 's' || last == 'd' {
			suffix = last
			periodStr = periodStr[:len(periodStr)-1]
		}
	}
	switch suffix {
	case 's':
		shape = ShapeRand
	case 'd':
		shape = ShapeDrunk
	}
	period, err := strconv.ParseFloat(periodStr, 32)
	if err != nil || period <= 0 {
		return ModChain{}, false
	}

	return ModChain{
		Kind:  ChainOscillate,
		Min:   float32(minV),
		Max:   float32(maxV),
		Freq:  float32(1.0 / period),
		Shape: shape,
	}, true
}

// parseTransition parses "start>target:dur[curve][>target:dur[curve]]{0,3}[~]".
func parseTransition(s string) (ModChain, bool) {
	looping := false
	if strings.HasSuffix(s, "~") {
		looping = true
		s = s[:len(s)-1]
	}
	legs := strings.Split(s, ">")
	if len(legs) < 2 {
		return ModChain{}, false
	}
	start, err := strconv.ParseFloat(legs[0], 32)
	if err != nil {
		return ModChain{}, false
	}

	var segs [4]ModSegment
	count := 0
	for _, leg := range legs[1:] {
		if count >= 4 {
			break
		}
		colonIdx := strings.Index(leg, ":")
		if colonIdx < 0 {
			return ModChain{}, false
		}
		targetStr := leg[:colonIdx]
		durStr := leg[colonIdx+1:]
		target, err := strconv.ParseFloat(targetStr, 32)
		if err != nil {
			return ModChain{}, false
		}
		curve := CurveLinear
		if len(durStr) > 0 {
			last := durStr[len(durStr)-1]
			if last == 'e' || last == 's' {
				if last == 'e' {
					curve = CurveExponential
				} else {
					curve = CurveSmooth
				}
				durStr = durStr[:len(durStr)-1]
			}
		}
		dur, err := strconv.ParseFloat(durStr, 32)
		if err != nil || dur <= 0 {
			return ModChain{}, false
		}
		segs[count] = ModSegment{Target: float32(target), Freq: float32(1.0 / dur), Curve: curve}
		count++
	}
	if count == 0 {
		return ModChain{}, false
	}

	return ModChain{
		Kind:     ChainTransition,
		Start:    float32(start),
		Segments: segs,
		Count:    count,
		Looping:  looping,
	}, true
}

// ParamMod is the runtime state of one installed modulator: its parsed
// chain plus a playhead (phase for Oscillate, segment index + elapsed
// time for Transition) and the random-walk state for Random chains.
type ParamMod struct {
	Chain      ModChain
	Phase      float32
	SegmentIdx int
	SegStart   float32
	PrevRand   float32
	NextRand   float32
	Seed       uint32
	DrunkPos   float32
}

// NewParamMod installs a chain with fresh playhead state.
func NewParamMod(chain ModChain, seed uint32) ParamMod {
	return ParamMod{Chain: chain, Seed: seed, DrunkPos: 0.5, SegStart: chain.Start}
}

// Tick advances the modulator by one sample (isr = 1/sample_rate) and
// returns its current output value.
func (m *ParamMod) Tick(isr float32) float32 {
	switch m.Chain.Kind {
	case ChainTransition:
		return m.tickTransition(isr)
	default:
		return m.tickOscillate(isr)
	}
}

func (m *ParamMod) tickOscillate(isr float32) float32 {
	c := &m.Chain
	before := m.Phase
	m.Phase += c.Freq * isr
	for m.Phase >= 1 {
		m.Phase -= 1
	}

	switch c.Shape {
	case ShapeTriangle:
		return interpolate(c.Min, c.Max, dsp.TriAt(m.Phase)*0.5+0.5)
	case ShapeSaw:
		return interpolate(c.Min, c.Max, m.Phase)
	case ShapeSquare:
		if m.Phase < 0.5 {
			return c.Max
		}
		return c.Min
	case ShapeHold:
		if m.Phase < before {
			m.Seed = lcg(m.Seed)
			m.PrevRand = float32(m.Seed)/float32(1<<32)*(c.Max-c.Min) + c.Min
		}
		return m.PrevRand
	case ShapeRand:
		if m.Phase < before {
			m.PrevRand = m.NextRand
			m.Seed = lcg(m.Seed)
			m.NextRand = float32(m.Seed)/float32(1<<32)*(c.Max-c.Min) + c.Min
		}
		return interpolate(m.PrevRand, m.NextRand, m.Phase)
	case ShapeDrunk:
		if m.Phase < before {
			m.Seed = lcg(m.Seed)
			step := (float32(m.Seed)/float32(1<<32)*2 - 1) * 0.25
			m.DrunkPos += step
			if m.DrunkPos < 0 {
				m.DrunkPos = 0
			}
			if m.DrunkPos > 1 {
				m.DrunkPos = 1
			}
		}
		return interpolate(c.Min, c.Max, m.DrunkPos)
	default:
		return interpolate(c.Min, c.Max, dsp.SineAt(m.Phase)*0.5+0.5)
	}
}

func (m *ParamMod) tickTransition(isr float32) float32 {
	c := &m.Chain
	if m.SegmentIdx >= c.Count {
		return c.Segments[c.Count-1].Target
	}
	seg := c.Segments[m.SegmentIdx]
	m.Phase += seg.Freq * isr
	if m.Phase >= 1 {
		m.Phase = 0
		m.SegStart = seg.Target
		m.SegmentIdx++
		if m.SegmentIdx >= c.Count {
			if c.Looping {
				m.SegmentIdx = 0
				m.SegStart = c.Start
			} else {
				return seg.Target
			}
		}
		seg = c.Segments[m.SegmentIdx]
	}

	var x float32
	switch seg.Curve {
	case CurveExponential:
		x = dsp.Powf(m.Phase, 2.0)
	case CurveSmooth:
		x = m.Phase * m.Phase * (3 - 2*m.Phase)
	default:
		x = m.Phase
	}
	return interpolate(m.SegStart, seg.Target, x)
}

func interpolate(a, b, t float32) float32 {
	return a + (b-a)*t
}
