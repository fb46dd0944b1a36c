package effects

// combBufferSize bounds the comb's delay line; at low frequencies the
// period can be several thousand samples at audio sample rates.
const combBufferSize = 2048

// Comb is a single feedback comb filter with a one-pole damping filter
// in the feedback path, output wet-only (no dry mix — callers blend it
// in at the orbit send level).
type Comb struct {
	buf      [combBufferSize]float32
	pos      int
	damp     float32
	Freq     float32
	Feedback float32
	Damp     float32
}

// Process runs one sample through the comb at the given sample rate.
func (c *Comb) Process(sr, in float32) float32 {
	freq := c.Freq
	if freq < 20 {
		freq = 20
	}
	delaySamples := sr / freq
	if delaySamples >= combBufferSize {
		delaySamples = combBufferSize - 1
	}
	readPos := float32(c.pos) - delaySamples
	for readPos < 0 {
		readPos += combBufferSize
	}
	idx := int(readPos) % combBufferSize
	idx2 := (idx + 1) % combBufferSize
	frac := readPos - float32(int(readPos))
	wet := c.buf[idx]*(1-frac) + c.buf[idx2]*frac

	c.damp += (1 - c.Damp) * (wet - c.damp)

	fb := c.Feedback
	if fb > 0.98 {
		fb = 0.98
	}
	c.buf[c.pos] = in + c.damp*fb
	c.pos++
	if c.pos >= combBufferSize {
		c.pos = 0
	}
	return wet
}

// Reset clears the comb's delay line and damping state.
func (c *Comb) Reset() {
	for i := range c.buf {
		c.buf[i] = 0
	}
	c.pos = 0
	c.damp = 0
}
