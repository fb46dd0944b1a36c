package effects

import "github.com/sova-org/doux/internal/dsp"

// feedbackBufferSize covers delay times up to roughly 700ms at 48kHz.
const feedbackBufferSize = 32768

// Feedback is a feedback delay whose time is swept by a sine LFO,
// producing pitched artifacts and a shimmering wash as the feedback
// tap drifts. This extends the plain fixed-time feedback delay with an
// LFO, grounded on the phaser/flanger/chorus modulation idiom used
// elsewhere in this package.
type Feedback struct {
	sr       float32
	buf      [feedbackBufferSize]float32
	pos      int
	phase    float32
	TimeMs   float32
	Feedback float32
	LfoRate  float32
	LfoDepth float32
}

// NewFeedback creates a feedback delay at the given sample rate.
func NewFeedback(sr float32) *Feedback {
	return &Feedback{sr: sr, TimeMs: 300, Feedback: 0.45, LfoRate: 0.15, LfoDepth: 0}
}

// Process runs one sample through the feedback delay, mixing dry and
// wet 50/50 per the original fixed-time delay's convention.
func (f *Feedback) Process(in float32) float32 {
	f.phase += f.LfoRate / f.sr
	if f.phase >= 1 {
		f.phase -= 1
	}
	mod := dsp.SineAt(f.phase) * f.LfoDepth

	delayMs := f.TimeMs * (1 + mod)
	if delayMs < 1 {
		delayMs = 1
	}
	delaySamples := delayMs * f.sr / 1000.0
	if delaySamples >= feedbackBufferSize-1 {
		delaySamples = feedbackBufferSize - 2
	}

	readPos := float32(f.pos) - delaySamples
	for readPos < 0 {
		readPos += feedbackBufferSize
	}
	idx := int(readPos) % feedbackBufferSize
	idx2 := (idx + 1) % feedbackBufferSize
	frac := readPos - float32(int(readPos))
	wet := f.buf[idx]*(1-frac) + f.buf[idx2]*frac

	fb := f.Feedback
	if fb > 0.95 {
		fb = 0.95
	}
	f.buf[f.pos] = in + wet*fb
	f.pos++
	if f.pos >= feedbackBufferSize {
		f.pos = 0
	}
	return (in + wet) * 0.5
}

// Reset clears the feedback delay's buffer and LFO phase.
func (f *Feedback) Reset() {
	for i := range f.buf {
		f.buf[i] = 0
	}
	f.pos = 0
	f.phase = 0
}
