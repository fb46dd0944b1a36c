package effects

import "github.com/sova-org/doux/internal/dsp"

const tiltFreq = 800.0
const tiltMaxDb = 6.0

// Tilt is a single high-shelf tone control: positive amount brightens,
// negative amount darkens, pivoting around tiltFreq.
type Tilt struct {
	shelf dsp.Biquad
	// Amount in [-1,1] maps to +/- tiltMaxDb.
	Amount float32
}

// Process runs one sample through the tilt shelf.
func (t *Tilt) Process(sr, in float32) float32 {
	if t.Amount == 0 {
		return in
	}
	gainDb := t.Amount * tiltMaxDb
	return t.shelf.Process(sr, tiltFreq, 0.707, gainDb, dsp.Highshelf, in)
}

// Reset clears the shelf filter's memory.
func (t *Tilt) Reset() {
	t.shelf.Reset()
}

// EQ3Band implements the 3-band equalizer (low shelf, mid peak, high
// shelf) split at 200Hz/1000Hz/5000Hz.
type EQ3Band struct {
	low  dsp.Biquad
	mid  dsp.Biquad
	high dsp.Biquad
	LoDb float32
	MidDb float32
	HiDb float32
}

const (
	eqLoFreq  = 200.0
	eqMidFreq = 1000.0
	eqHiFreq  = 5000.0
)

// Process runs one sample through the three cascaded bands.
func (eq *EQ3Band) Process(sr, in float32) float32 {
	out := in
	if eq.LoDb != 0 {
		out = eq.low.Process(sr, eqLoFreq, 0.707, eq.LoDb, dsp.Lowshelf, out)
	}
	if eq.MidDb != 0 {
		out = eq.mid.Process(sr, eqMidFreq, 0.9, eq.MidDb, dsp.Peaking, out)
	}
	if eq.HiDb != 0 {
		out = eq.high.Process(sr, eqHiFreq, 0.707, eq.HiDb, dsp.Highshelf, out)
	}
	return out
}

// Reset clears all three bands' filter memory.
func (eq *EQ3Band) Reset() {
	eq.low.Reset()
	eq.mid.Reset()
	eq.high.Reset()
}
