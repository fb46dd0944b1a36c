package effects

const haasBufferSize = 2048

// Haas applies a short delay-only offset to one channel (no feedback),
// widening perceived stereo image via the precedence effect.
type Haas struct {
	buf      [haasBufferSize]float32
	pos      int
	DelayMs  float32
	sr       float32
}

// NewHaas creates a Haas-delay effect at the given sample rate.
func NewHaas(sr float32) *Haas {
	return &Haas{sr: sr}
}

// Process delays the right channel relative to left by DelayMs.
func (h *Haas) Process(l, r float32) (float32, float32) {
	if h.DelayMs <= 0 {
		return l, r
	}
	delaySamples := h.DelayMs * h.sr / 1000.0
	if delaySamples >= haasBufferSize {
		delaySamples = haasBufferSize - 1
	}
	h.buf[h.pos] = r
	readPos := float32(h.pos) - delaySamples
	for readPos < 0 {
		readPos += haasBufferSize
	}
	idx := int(readPos) % haasBufferSize
	h.pos = (h.pos + 1) % haasBufferSize
	return l, h.buf[idx]
}

// Reset clears the Haas delay buffer.
func (h *Haas) Reset() {
	h.buf = [haasBufferSize]float32{}
	h.pos = 0
}
