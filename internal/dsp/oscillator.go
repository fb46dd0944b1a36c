package dsp

// PolyBlep returns the band-limited correction bump for a phase
// discontinuity, given current phase t in [0,1) and phase increment dt.
func PolyBlep(t, dt float32) float32 {
	if t < dt {
		t /= dt
		return t + t - t*t - 1
	}
	if t > 1-dt {
		t = (t - 1) / dt
		return t*t + t + t + 1
	}
	return 0
}

// PhaseShape optionally reshapes a raw [0,1) phase before it is fed to a
// waveform kernel: multiply, then power-curve warp, then mirror-fold,
// then step-quantize to Size levels.
type PhaseShape struct {
	Size  uint16
	Mult  float32
	Warp  float32
	Mirror float32
}

// NewPhaseShape returns the identity shape (no-op chain).
func NewPhaseShape() PhaseShape {
	return PhaseShape{Size: 0, Mult: 1.0, Warp: 0.0, Mirror: 0.0}
}

// IsActive reports whether this shape differs from the identity.
func (p PhaseShape) IsActive() bool {
	return p.Size > 0 || p.Mult != 1.0 || p.Warp != 0.0 || p.Mirror != 0.0
}

// EffectiveMult returns the multiplier used during phase advancement;
// only meaningful when the shape chain is active.
func (p PhaseShape) EffectiveMult() float32 {
	if p.Mult <= 0 {
		return 1.0
	}
	return p.Mult
}

// Apply runs the mult -> warp -> mirror -> size chain over a raw phase.
func (p PhaseShape) Apply(phase float32) float32 {
	x := phase
	if p.Mult != 1.0 {
		x = x * p.EffectiveMult()
		x -= float32(int(x))
		if x < 0 {
			x += 1
		}
	}
	if p.Warp != 0.0 {
		absWarp := p.Warp
		if absWarp < 0 {
			absWarp = -absWarp
		}
		exp := absWarp * 2
		if exp < 0.01 {
			exp = 0.01
		}
		if p.Warp < 0 {
			x = 1 - Powf(1-x, exp)
		} else {
			x = Powf(x, exp)
		}
	}
	if p.Mirror > 0 {
		m := p.Mirror
		if m > 1 {
			m = 1
		}
		if x > m {
			span := 1 - m
			if span < 1e-6 {
				span = 1e-6
			}
			x = m - (x-m)*(m/span)
			if x < 0 {
				x = 0
			}
		}
	}
	if p.Size > 0 {
		n := float32(p.Size)
		x = float32(int(x*n)) / n
	}
	return x
}

// Phasor advances a phase accumulator in [0,1) and produces the
// synthesis waveforms. Besides the phase, its state holds the
// sample-and-hold LFO value and that mode's random seed.
type Phasor struct {
	Phase   float32
	ShValue float32
	shSeed  uint32
}

// NewPhasor returns a Phasor with the deterministic default seed shared
// across voices for reproducible sample-and-hold behavior.
func NewPhasor() Phasor {
	return Phasor{shSeed: 123456789}
}

func (p *Phasor) nextRand() float32 {
	p.shSeed ^= p.shSeed << 13
	p.shSeed ^= p.shSeed >> 17
	p.shSeed ^= p.shSeed << 5
	return float32(p.shSeed)/float32(1<<32)*2 - 1
}

// Update advances phase by freq*isr and wraps to [0,1).
func (p *Phasor) Update(freq, isr float32) float32 {
	p.Phase += freq * isr
	for p.Phase >= 1 {
		p.Phase -= 1
	}
	for p.Phase < 0 {
		p.Phase += 1
	}
	return p.Phase
}

// Sine renders a sine at the current phase.
func (p *Phasor) Sine() float32 {
	return Sinf(2 * 3.14159265 * p.Phase)
}

// Tri renders a triangle at the current phase.
func (p *Phasor) Tri() float32 {
	if p.Phase < 0.5 {
		return 4*p.Phase - 1
	}
	return 3 - 4*p.Phase
}

// Saw renders a PolyBLEP-corrected sawtooth.
func (p *Phasor) Saw(dt float32) float32 {
	raw := 2*p.Phase - 1
	return raw - PolyBlep(p.Phase, dt)
}

// Zaw renders a reversed (descending) PolyBLEP sawtooth.
func (p *Phasor) Zaw(dt float32) float32 {
	return -p.Saw(dt)
}

// Pulse renders a PolyBLEP-corrected pulse with duty cycle pw in (0,1).
func (p *Phasor) Pulse(pw, dt float32) float32 {
	var v float32
	if p.Phase < pw {
		v = 1
	} else {
		v = -1
	}
	v += PolyBlep(p.Phase, dt)
	shifted := p.Phase + (1 - pw)
	shifted -= float32(int(shifted))
	v -= PolyBlep(shifted, dt)
	return v
}

// Pulze is Pulse with the opposite polarity, matching the engine's
// "zquare" alias.
func (p *Phasor) Pulze(pw, dt float32) float32 {
	return -p.Pulse(pw, dt)
}

// Lfo renders one of the five LFO shapes for the current phase; shape is
// a modulation.LfoShape-compatible small int to avoid an import cycle
// (0 sine, 1 tri, 2 saw, 3 square, 4 sample-and-hold).
func (p *Phasor) Lfo(shape int) float32 {
	switch shape {
	case 1:
		return p.Tri()
	case 2:
		return 2*p.Phase - 1
	case 3:
		if p.Phase < 0.5 {
			return 1
		}
		return -1
	case 4:
		return p.ShValue
	default:
		return p.Sine()
	}
}

// UpdateSh advances the phase and, on cycle wrap, draws a new held
// random value for the sample-and-hold LFO shape.
func (p *Phasor) UpdateSh(freq, isr float32) float32 {
	before := p.Phase
	phase := p.Update(freq, isr)
	if phase < before {
		p.ShValue = p.nextRand()
	}
	return phase
}

// Stateless "at phase" variants used for unison/spread voices that each
// need their own phase but share no persistent state.

func SineAt(phase float32) float32 { return Sinf(2 * 3.14159265 * phase) }

func TriAt(phase float32) float32 {
	if phase < 0.5 {
		return 4*phase - 1
	}
	return 3 - 4*phase
}

func SawAt(phase, dt float32) float32 {
	raw := 2*phase - 1
	return raw - PolyBlep(phase, dt)
}

func ZawAt(phase, dt float32) float32 {
	return -SawAt(phase, dt)
}

func PulseAt(phase, pw, dt float32) float32 {
	var v float32
	if phase < pw {
		v = 1
	} else {
		v = -1
	}
	v += PolyBlep(phase, dt)
	shifted := phase + (1 - pw)
	shifted -= float32(int(shifted))
	v -= PolyBlep(shifted, dt)
	return v
}

func PulzeAt(phase, pw, dt float32) float32 {
	return -PulseAt(phase, pw, dt)
}
