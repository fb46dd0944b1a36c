package dsp

import "math/rand"

// PinkNoise generates approximately 1/f noise with Paul Kellet's filter
// method (seven weighted first-order sections of white noise).
type PinkNoise struct {
	b [7]float32
}

// Next draws one sample of pink noise in roughly [-1,1].
func (p *PinkNoise) Next(rng *rand.Rand) float32 {
	white := rng.Float32()*2 - 1
	p.b[0] = 0.99886*p.b[0] + white*0.0555179
	p.b[1] = 0.99332*p.b[1] + white*0.0750759
	p.b[2] = 0.96900*p.b[2] + white*0.1538520
	p.b[3] = 0.86650*p.b[3] + white*0.3104856
	p.b[4] = 0.55000*p.b[4] + white*0.5329522
	p.b[5] = -0.7616*p.b[5] - white*0.0168980
	sum := p.b[0] + p.b[1] + p.b[2] + p.b[3] + p.b[4] + p.b[5] + p.b[6] + white*0.5362
	p.b[6] = white * 0.115926
	return sum * 0.11
}

// Reset clears the pink-noise filter state.
func (p *PinkNoise) Reset() {
	p.b = [7]float32{}
}

// BrownNoise generates brown (red) noise via a leaky integrator over
// white noise.
type BrownNoise struct {
	out float32
}

// Next draws one sample of brown noise in roughly [-1,1].
func (b *BrownNoise) Next(rng *rand.Rand) float32 {
	white := rng.Float32()*2 - 1
	b.out = (b.out + 0.02*white) / 1.02
	return b.out * 3.5
}

// Reset clears the brown-noise integrator state.
func (b *BrownNoise) Reset() {
	b.out = 0
}
