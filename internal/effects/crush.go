package effects

import "math"

// Crush quantizes the signal to 2^(bits-1) levels, producing bitcrush
// distortion.
func Crush(in float32, bits float32) float32 {
	if bits <= 0 || bits >= 24 {
		return in
	}
	levels := float32(math.Pow(2, float64(bits)-1))
	return float32(math.Round(float64(in*levels))) / levels
}
