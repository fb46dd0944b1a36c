package dsp

// Lerp interpolates between y0 and y1 as x goes 0..1, applying a power
// curve x^exp to x first: exp=1 is linear, exp>1 biases toward y0
// (convex). The envelope's decay and release segments get the concave
// 1-(1-x)^exp shape by passing 1-x with the endpoints swapped.
func Lerp(x, y0, y1, exp float32) float32 {
	if x < 0 {
		x = 0
	}
	if x > 1 {
		x = 1
	}
	curved := Powf(x, exp)
	return y0 + curved*(y1-y0)
}

// AdsrState is the envelope's current segment.
type AdsrState int

const (
	AdsrOff AdsrState = iota
	AdsrAttack
	AdsrDecay
	AdsrSustain
	AdsrRelease
)

// Adsr is a four-segment envelope with curved attack/decay/release
// segments and clickless retriggering: a new attack always starts from
// whatever value the envelope currently holds, not from zero.
type Adsr struct {
	State       AdsrState
	StartTime   float64
	StartVal    float32
	AttackCurve float32
	DecayCurve  float32
}

// NewAdsr returns an envelope at rest with the default curve exponents.
func NewAdsr() Adsr {
	return Adsr{State: AdsrOff, AttackCurve: 2.0, DecayCurve: 2.0}
}

// IsOff reports whether the envelope has fully released.
func (a *Adsr) IsOff() bool {
	return a.State == AdsrOff
}

// Update advances the envelope for the current sample and returns its
// output in [0,1]. gate > 0 holds/extends the note; a 0->>0 gate while
// already off is a no-op; a rising edge from any state (including
// mid-release) retriggers the attack from the current output value.
func (a *Adsr) Update(time float64, gate float32, attack, decay, sustain, release float32) float32 {
	gated := gate > 0

	switch a.State {
	case AdsrOff:
		if gated {
			a.State = AdsrAttack
			a.StartTime = time
			a.StartVal = 0
		} else {
			return 0
		}
	case AdsrRelease:
		if gated {
			a.State = AdsrAttack
			a.StartTime = time
			a.StartVal = a.valueAt(time, attack, decay, sustain, release)
		}
	default:
		if !gated {
			a.State = AdsrRelease
			a.StartTime = time
			a.StartVal = a.valueAt(time, attack, decay, sustain, release)
		}
	}

	return a.valueAt(time, attack, decay, sustain, release)
}

func (a *Adsr) valueAt(time float64, attack, decay, sustain, release float32) float32 {
	elapsed := float32(time - a.StartTime)
	if attack < 0.0001 {
		attack = 0.0001
	}
	if decay < 0.0001 {
		decay = 0.0001
	}
	if release < 0.0001 {
		release = 0.0001
	}

	switch a.State {
	case AdsrAttack:
		if elapsed >= attack {
			a.State = AdsrDecay
			a.StartTime = time
			a.StartVal = 1
			return a.valueAt(time, attack, decay, sustain, release)
		}
		x := elapsed / attack
		return Lerp(x, a.StartVal, 1, a.AttackCurve)
	case AdsrDecay:
		if elapsed >= decay {
			a.State = AdsrSustain
			return sustain
		}
		x := elapsed / decay
		return Lerp(1-x, sustain, 1, a.DecayCurve)
	case AdsrSustain:
		return sustain
	case AdsrRelease:
		if elapsed >= release {
			a.State = AdsrOff
			return 0
		}
		x := elapsed / release
		return Lerp(1-x, 0, a.StartVal, a.DecayCurve)
	default:
		return 0
	}
}

// EnvelopeParams bundles a secondary envelope's amount plus its four
// time/level parameters and an active flag, matching the field groups
// repeated for the filter/pitch/FM envelopes on VoiceParams.
type EnvelopeParams struct {
	Env     float32
	Attack  float32
	Decay   float32
	Sustain float32
	Release float32
	Active  bool
}

// InitEnvelope merges a command's optional envelope-amount and ADSR
// fields into a concrete EnvelopeParams. If none of the five were set
// on this command the envelope is left inactive with its resting
// defaults; otherwise every unset field falls back to its default and
// Active is true. Sustain's default depends on which of attack/decay
// were specified, matching a one-shot-vs-hold heuristic: attack alone
// implies sustain-until-release, decay alone implies decaying to
// silence, and both together implies a decaying one-shot too.
func InitEnvelope(hasEnv bool, env float32, hasAtt bool, att float32, hasDec bool, dec float32, hasSus bool, sus float32, hasRel bool, rel float32) EnvelopeParams {
	if !hasEnv && !hasAtt && !hasDec && !hasSus && !hasRel {
		return EnvelopeParams{Env: 1.0, Attack: 0.003, Decay: 0, Sustain: 1.0, Release: 0.005, Active: false}
	}

	var susVal float32
	switch {
	case hasSus:
		susVal = sus
		if susVal > 1 {
			susVal = 1
		}
	case !hasSus && hasAtt && !hasDec:
		susVal = 1.0
	case !hasSus && !hasAtt && hasDec:
		susVal = 0.0
	case !hasSus && hasAtt && hasDec:
		susVal = 0.0
	default:
		susVal = 1.0
	}

	p := EnvelopeParams{Env: 1.0, Attack: 0.003, Decay: 0, Sustain: susVal, Release: 0.005, Active: true}
	if hasEnv {
		p.Env = env
	}
	if hasAtt {
		p.Attack = att
	}
	if hasDec {
		p.Decay = dec
	}
	if hasRel {
		p.Release = rel
	}
	return p
}
