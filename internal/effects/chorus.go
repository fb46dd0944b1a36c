package effects

import (
	"math"

	"github.com/sova-org/doux/internal/dsp"
)

const chorusBufferSize = 2048
const chorusVoices = 3

// Chorus is a 3-voice stereo chorus over a shared mono delay buffer: each
// voice's LFO is offset by 120 degrees. Voices 0 and 2 feed the left
// output and voice 1 the right, with voice 2 also mixed at half gain
// into both; each voice reads one delay for both channels, so left and
// right are not modulated in opposite phase.
type Chorus struct {
	sr    float32
	buf   [chorusBufferSize]float32
	pos   int
	phase float32
	Rate  float32
	Depth float32
	// BaseDelayMs is the chorus voices' center delay; zero selects the
	// default 15ms.
	BaseDelayMs float32
}

// NewChorus creates a chorus at the given sample rate.
func NewChorus(sr float32) *Chorus {
	return &Chorus{sr: sr, Rate: 0.5, Depth: 0.5}
}

func (c *Chorus) readDelayed(delaySamples float32) float32 {
	readPos := float32(c.pos) - delaySamples
	for readPos < 0 {
		readPos += chorusBufferSize
	}
	idx := int(readPos) % chorusBufferSize
	idx2 := (idx + 1) % chorusBufferSize
	frac := readPos - float32(int(readPos))
	return c.buf[idx]*(1-frac) + c.buf[idx2]*frac
}

// Process runs one stereo sample through the chorus given a mono input
// (the dry voice signal); returns stereo wet output.
func (c *Chorus) Process(in float32) (float32, float32) {
	if c.Depth <= 0 {
		return in, in
	}
	c.buf[c.pos] = in
	c.phase += c.Rate / c.sr
	for c.phase >= 1 {
		c.phase -= 1
	}

	baseDelayMs := c.BaseDelayMs
	if baseDelayMs <= 0 {
		baseDelayMs = 15.0
	}
	depthMs := c.Depth * 8.0

	var left, right float32
	for v := 0; v < chorusVoices; v++ {
		offset := float32(v) / chorusVoices
		lfo := dsp.Sinf(2 * math.Pi * (c.phase + offset))
		delayMs := baseDelayMs + lfo*depthMs
		delaySamples := delayMs * c.sr / 1000.0
		wet := c.readDelayed(delaySamples)
		// Equal-power accumulation across voices.
		const gain = 0.577 // 1/sqrt(3)
		if v%2 == 0 {
			left += wet * gain
		} else {
			right += wet * gain
		}
		if v == chorusVoices-1 {
			// Center voice contributes to both channels for width.
			left += wet * gain * 0.5
			right += wet * gain * 0.5
		}
	}

	c.pos = (c.pos + 1) % chorusBufferSize
	return in*0.5 + left*0.5, in*0.5 + right*0.5
}

// Reset clears the chorus delay buffer and LFO phase.
func (c *Chorus) Reset() {
	c.buf = [chorusBufferSize]float32{}
	c.pos = 0
	c.phase = 0
}
