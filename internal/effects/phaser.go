package effects

import (
	"math"

	"github.com/sova-org/doux/internal/dsp"
)

// notchOffset separates the two swept notch frequencies so the phaser's
// comb pattern doesn't collapse to a single notch.
const notchOffset = 282.0

// Phaser is a dual-notch phaser: two cascaded notch biquads whose center
// frequency is swept by a shared LFO, with the second notch offset by
// notchOffset Hz.
type Phaser struct {
	sr         float32
	notch1     dsp.Biquad
	notch2     dsp.Biquad
	phase      float32
	Depth      float32
	SweepHz    float32
	CenterHz   float32
	// SweepRangeHz is the +/- excursion around CenterHz; zero selects
	// the default 0.8*CenterHz excursion.
	SweepRangeHz float32
}

// NewPhaser creates a phaser at the given sample rate.
func NewPhaser(sr float32) *Phaser {
	return &Phaser{sr: sr, CenterHz: 800, SweepHz: 0.3, Depth: 0.7}
}

// Process runs one mono sample (called per channel) through the phaser.
func (p *Phaser) Process(in float32) float32 {
	if p.Depth <= 0 {
		return in
	}
	p.phase += p.SweepHz / p.sr
	for p.phase >= 1 {
		p.phase -= 1
	}
	lfo := dsp.Sinf(2 * math.Pi * p.phase)
	sweepRange := p.SweepRangeHz
	if sweepRange <= 0 {
		sweepRange = p.CenterHz * 0.8
	}
	f1 := p.CenterHz + lfo*sweepRange
	f2 := f1 + notchOffset
	if f1 < 20 {
		f1 = 20
	}
	if f2 > p.sr*0.45 {
		f2 = p.sr * 0.45
	}
	wet := p.notch1.Process(p.sr, f1, 0.7, 0, dsp.Notch, in)
	wet = p.notch2.Process(p.sr, f2, 0.7, 0, dsp.Notch, wet)
	return in*(1-p.Depth) + wet*p.Depth
}

// Reset clears the phaser's filter memory and LFO phase.
func (p *Phaser) Reset() {
	p.notch1.Reset()
	p.notch2.Reset()
	p.phase = 0
}
