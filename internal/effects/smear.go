package effects

import "github.com/sova-org/doux/internal/dsp"

const smearStages = 12

// Smear diffuses transients with a cascade of second-order (biquad)
// allpass sections centered around a break frequency, blurring sharp
// attacks without changing overall magnitude. It has no first-order
// allpass stages.
type Smear struct {
	stages [smearStages]dsp.Biquad
	Amount float32
	Freq   float32
}

// NewSmear creates a smear effect with the default 1200Hz break
// frequency; the sample rate is passed to each Process call.
func NewSmear() *Smear {
	return &Smear{Freq: 1200}
}

// Process runs one sample through the allpass cascade, cross-fading by
// Amount between dry and fully-smeared signal.
func (s *Smear) Process(sr, in float32) float32 {
	if s.Amount <= 0 {
		return in
	}
	wet := in
	for i := range s.stages {
		wet = s.stages[i].Process(sr, s.Freq, 0.7, 0, dsp.Allpass, wet)
	}
	return in*(1-s.Amount) + wet*s.Amount
}

// Reset clears all cascade stages.
func (s *Smear) Reset() {
	for i := range s.stages {
		s.stages[i].Reset()
	}
}
