package effects

import (
	"math"

	"github.com/sova-org/doux/internal/dsp"
)

const flangerBufferSize = 512
const flangerMinDelayMs = 0.5
const flangerMaxDelayMs = 10.0

// Flanger is a short modulated delay with feedback, producing the
// characteristic metallic sweep.
type Flanger struct {
	sr       float32
	buf      [flangerBufferSize]float32
	pos      int
	phase    float32
	Rate     float32
	Depth    float32
	Feedback float32
}

// NewFlanger creates a flanger at the given sample rate.
func NewFlanger(sr float32) *Flanger {
	return &Flanger{sr: sr, Rate: 0.2, Depth: 0.5, Feedback: 0.3}
}

// Process runs one mono sample through the flanger.
func (f *Flanger) Process(in float32) float32 {
	if f.Depth <= 0 {
		return in
	}
	f.phase += f.Rate / f.sr
	for f.phase >= 1 {
		f.phase -= 1
	}
	lfo := dsp.Sinf(2*math.Pi*f.phase)*0.5 + 0.5
	delayMs := flangerMinDelayMs + lfo*(flangerMaxDelayMs-flangerMinDelayMs)*f.Depth
	delaySamples := delayMs * f.sr / 1000.0

	readPos := float32(f.pos) - delaySamples
	for readPos < 0 {
		readPos += flangerBufferSize
	}
	idx := int(readPos) % flangerBufferSize
	idx2 := (idx + 1) % flangerBufferSize
	frac := readPos - float32(int(readPos))
	delayed := f.buf[idx]*(1-frac) + f.buf[idx2]*frac

	f.buf[f.pos] = in + delayed*f.Feedback
	f.pos = (f.pos + 1) % flangerBufferSize

	return in*0.5 + delayed*0.5
}

// Reset clears the flanger's delay buffer and LFO phase.
func (f *Flanger) Reset() {
	f.buf = [flangerBufferSize]float32{}
	f.pos = 0
	f.phase = 0
}
