package effects

import "github.com/sova-org/doux/internal/dsp"

// reverbSrRef is the sample rate the Dattorro tap/delay lengths below
// were tuned at; other rates scale every length proportionally.
const reverbSrRef = 29761.0

func scaleDelay(samples int, sr float32) int {
	n := int(float32(samples) * sr / reverbSrRef)
	if n < 1 {
		n = 1
	}
	return n
}

// reverbBuffer is a circular buffer supporting plain delay read/write
// and Schroeder allpass diffusion, as used throughout the Dattorro
// plate topology.
type reverbBuffer struct {
	buf      []float32
	writePos int
}

func newReverbBuffer(size int) *reverbBuffer {
	return &reverbBuffer{buf: make([]float32, size)}
}

func (b *reverbBuffer) write(v float32) {
	b.buf[b.writePos] = v
	b.writePos = (b.writePos + 1) % len(b.buf)
}

func (b *reverbBuffer) read(delay int) float32 {
	if delay > len(b.buf)-1 {
		delay = len(b.buf) - 1
	}
	var pos int
	if b.writePos >= delay {
		pos = b.writePos - delay
	} else {
		pos = len(b.buf) - (delay - b.writePos)
	}
	return b.buf[pos]
}

func (b *reverbBuffer) readWrite(value float32, delay int) float32 {
	out := b.read(delay)
	b.write(value)
	return out
}

func (b *reverbBuffer) allpass(input float32, delay int, coeff float32) float32 {
	delayed := b.read(delay)
	v := input - coeff*delayed
	b.write(v)
	return delayed + coeff*v
}

func (b *reverbBuffer) clear() {
	for i := range b.buf {
		b.buf[i] = 0
	}
}

// DattorroVerb is a stereo plate reverb built from four input
// diffusers feeding a figure-8 tank of two decay-diffuser/delay pairs,
// with seven-tap stereo output mixing per channel.
type DattorroVerb struct {
	preDelay *reverbBuffer

	inDiff1, inDiff2, inDiff3, inDiff4 *reverbBuffer

	decayDiff1L, delay1L, decayDiff2L, delay2L *reverbBuffer
	decayDiff1R, delay1R, decayDiff2R, delay2R *reverbBuffer

	dampL, dampR float32

	preDelayLen int

	tap1L, tap2L, tap3L, tap4L, tap5L, tap6L, tap7L int
	tap1R, tap2R, tap3R, tap4R, tap5R, tap6R, tap7R int
}

// NewDattorroVerb creates a Dattorro plate reverb at the given sample
// rate, scaling all internal delay lengths from their 29761Hz-tuned
// reference values.
func NewDattorroVerb(sr float32) *DattorroVerb {
	preDelayLen := scaleDelay(4800, sr)
	inDiff1Len := scaleDelay(142, sr)
	inDiff2Len := scaleDelay(107, sr)
	inDiff3Len := scaleDelay(379, sr)
	inDiff4Len := scaleDelay(277, sr)
	decayDiff1LLen := scaleDelay(672, sr)
	delay1LLen := scaleDelay(4453, sr)
	decayDiff2LLen := scaleDelay(1800, sr)
	delay2LLen := scaleDelay(3720, sr)
	decayDiff1RLen := scaleDelay(908, sr)
	delay1RLen := scaleDelay(4217, sr)
	decayDiff2RLen := scaleDelay(2656, sr)
	delay2RLen := scaleDelay(3163, sr)

	return &DattorroVerb{
		preDelay: newReverbBuffer(preDelayLen + 1),

		inDiff1: newReverbBuffer(inDiff1Len + 1),
		inDiff2: newReverbBuffer(inDiff2Len + 1),
		inDiff3: newReverbBuffer(inDiff3Len + 1),
		inDiff4: newReverbBuffer(inDiff4Len + 1),

		decayDiff1L: newReverbBuffer(decayDiff1LLen + 1),
		delay1L:     newReverbBuffer(delay1LLen + 1),
		decayDiff2L: newReverbBuffer(decayDiff2LLen + 1),
		delay2L:     newReverbBuffer(delay2LLen + 1),

		decayDiff1R: newReverbBuffer(decayDiff1RLen + 1),
		delay1R:     newReverbBuffer(delay1RLen + 1),
		decayDiff2R: newReverbBuffer(decayDiff2RLen + 1),
		delay2R:     newReverbBuffer(delay2RLen + 1),

		preDelayLen: preDelayLen,

		tap1L: scaleDelay(266, sr), tap2L: scaleDelay(2974, sr), tap3L: scaleDelay(1913, sr),
		tap4L: scaleDelay(1996, sr), tap5L: scaleDelay(1990, sr), tap6L: scaleDelay(187, sr), tap7L: scaleDelay(1066, sr),

		tap1R: scaleDelay(353, sr), tap2R: scaleDelay(3627, sr), tap3R: scaleDelay(1228, sr),
		tap4R: scaleDelay(2673, sr), tap5R: scaleDelay(2111, sr), tap6R: scaleDelay(335, sr), tap7R: scaleDelay(121, sr),
	}
}

// Process runs one mono input sample through the plate and returns a
// stereo pair. decay, damping, predelay and diffusion are all expected
// in [0,1].
func (d *DattorroVerb) Process(input, decay, damping, predelay, diffusion float32) (float32, float32) {
	if decay < 0 {
		decay = 0
	} else if decay > 0.99 {
		decay = 0.99
	}
	if damping < 0 {
		damping = 0
	} else if damping > 1 {
		damping = 1
	}
	if diffusion < 0 {
		diffusion = 0
	} else if diffusion > 1 {
		diffusion = 1
	}

	diff1 := 0.75 * diffusion
	diff2 := 0.625 * diffusion
	decayDiff1 := 0.7 * diffusion
	decayDiff2 := 0.5 * diffusion

	preDelaySamples := int(predelay * float32(d.preDelayLen))
	if preDelaySamples > d.preDelayLen {
		preDelaySamples = d.preDelayLen
	}

	in := dsp.Ftz(input)
	pre := d.preDelay.readWrite(in, preDelaySamples)

	x := pre
	x = d.inDiff1.allpass(x, len(d.inDiff1.buf)-1, diff1)
	x = d.inDiff2.allpass(x, len(d.inDiff2.buf)-1, diff1)
	x = d.inDiff3.allpass(x, len(d.inDiff3.buf)-1, diff2)
	x = d.inDiff4.allpass(x, len(d.inDiff4.buf)-1, diff2)

	tankLIn := x + d.delay2R.read(len(d.delay2R.buf)-1)*decay
	tankRIn := x + d.delay2L.read(len(d.delay2L.buf)-1)*decay

	l := d.decayDiff1L.allpass(tankLIn, len(d.decayDiff1L.buf)-1, -decayDiff1)
	l = d.delay1L.readWrite(l, len(d.delay1L.buf)-1)
	d.dampL = dsp.Ftz(l*(1-damping) + d.dampL*damping)
	l = d.dampL * decay
	l = d.decayDiff2L.allpass(l, len(d.decayDiff2L.buf)-1, decayDiff2)
	d.delay2L.write(l)

	r := d.decayDiff1R.allpass(tankRIn, len(d.decayDiff1R.buf)-1, -decayDiff1)
	r = d.delay1R.readWrite(r, len(d.delay1R.buf)-1)
	d.dampR = dsp.Ftz(r*(1-damping) + d.dampR*damping)
	r = d.dampR * decay
	r = d.decayDiff2R.allpass(r, len(d.decayDiff2R.buf)-1, decayDiff2)
	d.delay2R.write(r)

	outL := d.delay1L.read(d.tap1L) + d.delay1L.read(d.tap2L) -
		d.decayDiff2L.read(d.tap3L) + d.delay2L.read(d.tap4L) -
		d.delay1R.read(d.tap5R) - d.decayDiff2R.read(d.tap6R) - d.delay2R.read(d.tap7R)

	outR := d.delay1R.read(d.tap1R) + d.delay1R.read(d.tap2R) -
		d.decayDiff2R.read(d.tap3R) + d.delay2R.read(d.tap4R) -
		d.delay1L.read(d.tap5L) - d.decayDiff2L.read(d.tap6L) - d.delay2L.read(d.tap7L)

	return outL * 0.6, outR * 0.6
}

// Reset clears every delay line and damping state in the plate.
func (d *DattorroVerb) Reset() {
	d.preDelay.clear()
	d.inDiff1.clear()
	d.inDiff2.clear()
	d.inDiff3.clear()
	d.inDiff4.clear()
	d.decayDiff1L.clear()
	d.delay1L.clear()
	d.decayDiff2L.clear()
	d.delay2L.clear()
	d.decayDiff1R.clear()
	d.delay1R.clear()
	d.decayDiff2R.clear()
	d.delay2R.clear()
	d.dampL, d.dampR = 0, 0
}
