// Package orbit implements the send/return busses that voices mix into:
// each orbit owns its own delay, reverb (Dattorro plate or Vital-style
// FDN) and comb filter, accumulating per-sample sends from every voice
// routed to it before running its effects once per block sample.
package orbit

import (
	"github.com/sova-org/doux/internal/effects"
	"github.com/sova-org/doux/internal/types"
)

// silenceThreshold and silenceHoldoff gate the orbit's effects
// processing once its tails have decayed below audibility, so idle
// orbits don't burn CPU pumping near-zero samples through a dense FDN.
const (
	silenceThreshold = 1e-7
	silenceHoldoff   = 48000
)

// EffectParams bundles the per-block send parameters read from the
// voices currently routed to an orbit (or its own static settings).
type EffectParams struct {
	DelayTime     float32
	DelayFeedback float32
	DelayType     types.DelayType

	VerbType     types.ReverbType
	VerbDecay    float32
	VerbDamp     float32
	VerbPredelay float32
	VerbDiff     float32

	CombFreq     float32
	CombFeedback float32
	CombDamp     float32
}

// Orbit is one send/return bus: voices accumulate into its Add*Send
// methods every sample, Process runs the effects once, and the engine
// reads back *Out for the final mix.
type Orbit struct {
	Delay     *effects.Delay
	DelaySend [types.Channels]float32
	DelayOut  [types.Channels]float32

	Verb     *effects.DattorroVerb
	Fdn      *effects.VitalVerb
	VerbSend [types.Channels]float32
	VerbOut  [types.Channels]float32

	Comb     effects.Comb
	CombSend [types.Channels]float32
	CombOut  [types.Channels]float32

	Sr float32

	silentSamples uint32
}

// New creates an orbit at the given sample rate with both reverb
// engines available, selected per-block by EffectParams.VerbType.
func New(sr float32) *Orbit {
	return &Orbit{
		Delay:         effects.NewDelay(sr),
		Verb:          effects.NewDattorroVerb(sr),
		Fdn:           effects.NewVitalVerb(sr),
		Sr:            sr,
		silentSamples: silenceHoldoff + 1,
	}
}

// ClearSends zeroes all three send accumulators; callers do this once
// per sample before voices add their contributions.
func (o *Orbit) ClearSends() {
	o.DelaySend = [types.Channels]float32{}
	o.VerbSend = [types.Channels]float32{}
	o.CombSend = [types.Channels]float32{}
}

// AddDelaySend accumulates a voice's contribution to the delay bus.
func (o *Orbit) AddDelaySend(ch int, value float32) {
	o.DelaySend[ch] += value
}

// AddVerbSend accumulates a voice's contribution to the reverb bus.
func (o *Orbit) AddVerbSend(ch int, value float32) {
	o.VerbSend[ch] += value
}

// AddCombSend accumulates a voice's contribution to the comb bus.
func (o *Orbit) AddCombSend(ch int, value float32) {
	o.CombSend[ch] += value
}

// Process runs one sample's worth of accumulated sends through the
// orbit's effects, updating DelayOut/VerbOut/CombOut. Once the bus has
// been silent for longer than the holdoff window it skips the (costly)
// reverb processing entirely and reports silence directly.
func (o *Orbit) Process(p *EffectParams) {
	hasInput := o.DelaySend[0] != 0 || o.DelaySend[1] != 0 ||
		o.VerbSend[0] != 0 || o.VerbSend[1] != 0 ||
		o.CombSend[0] != 0 || o.CombSend[1] != 0

	if hasInput {
		o.silentSamples = 0
	} else if o.silentSamples > silenceHoldoff {
		o.DelayOut = [types.Channels]float32{}
		o.VerbOut = [types.Channels]float32{}
		o.CombOut = [types.Channels]float32{}
		return
	}

	o.Delay.Params = effects.DelayParams{
		TimeMs:   p.DelayTime * 1000.0,
		Feedback: p.DelayFeedback,
		Type:     effects.DelayType(p.DelayType),
	}
	dl, dr := o.Delay.Process(o.DelaySend[0], o.DelaySend[1])
	o.DelayOut[0], o.DelayOut[1] = dl, dr

	verbInput := (o.VerbSend[0] + o.VerbSend[1]) * 0.5
	switch p.VerbType {
	case types.ReverbVital:
		vl, vr := o.Fdn.Process(verbInput, p.VerbDecay, p.VerbDamp, p.VerbPredelay, p.VerbDiff,
			1.0, 1.0, 0.0, 1.0, 1.0, p.VerbPredelay, 0.3)
		o.VerbOut[0], o.VerbOut[1] = vl, vr
	default:
		vl, vr := o.Verb.Process(verbInput, p.VerbDecay, p.VerbDamp, p.VerbPredelay, p.VerbDiff)
		o.VerbOut[0], o.VerbOut[1] = vl, vr
	}

	o.Comb.Freq = p.CombFreq
	o.Comb.Feedback = p.CombFeedback
	o.Comb.Damp = p.CombDamp
	combInput := (o.CombSend[0] + o.CombSend[1]) * 0.5
	combOut := o.Comb.Process(o.Sr, combInput)
	o.CombOut[0], o.CombOut[1] = combOut, combOut

	energy := abs32(o.DelayOut[0]) + abs32(o.DelayOut[1]) +
		abs32(o.VerbOut[0]) + abs32(o.VerbOut[1]) +
		abs32(o.CombOut[0]) + abs32(o.CombOut[1])

	if energy < silenceThreshold {
		if o.silentSamples < ^uint32(0) {
			o.silentSamples++
		}
	} else {
		o.silentSamples = 0
	}
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
