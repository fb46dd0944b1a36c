package event

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sova-org/doux/internal/types"
)

func TestParseBasicFields(t *testing.T) {
	e := Parse("/freq/440/sound/saw/lpf/800/voice/2")
	require.True(t, e.HasFreq)
	require.Equal(t, float32(440), e.Freq)
	require.True(t, e.HasSound)
	require.Equal(t, "saw", e.Sound)
	require.True(t, e.HasLpf)
	require.Equal(t, float32(800), e.Lpf)
	require.True(t, e.HasVoice)
	require.Equal(t, 2, e.Voice)
}

func TestParseAliases(t *testing.T) {
	e := Parse("/cutoff/500/resonance/0.3/d/1.5")
	require.True(t, e.HasLpf, "expected cutoff alias to set Lpf")
	require.Equal(t, float32(500), e.Lpf)
	require.True(t, e.HasLpq, "expected resonance alias to set Lpq")
	require.Equal(t, float32(0.3), e.Lpq)
	require.True(t, e.HasDuration, "expected d alias to set Duration")
	require.Equal(t, float32(1.5), e.Duration)
}

func TestParseNoteConvertsToFreq(t *testing.T) {
	e := Parse("/note/69")
	require.True(t, e.HasFreq, "expected note to set freq")
	require.InDelta(t, 440, e.Freq, 1, "expected note 69 to be ~440Hz")
}

func TestParseInlineModulator(t *testing.T) {
	e := Parse("/lpf/200~2000:0.5")
	require.False(t, e.HasLpf, "expected inline modulator to bypass literal assignment")
	require.Len(t, e.Mods, 1)
}

func TestParseEnumFields(t *testing.T) {
	e := Parse("/ftype/24db/vibshape/square/delaytype/pingpong/verbtype/vital")
	require.Equal(t, types.Db24, e.Ftype)
	require.Equal(t, types.LfoSquare, e.Vibshape)
	require.Equal(t, types.DelayPingPong, e.Delaytype)
	require.Equal(t, types.ReverbVital, e.Verbtype)
}

func TestParseIgnoresUnknownKeys(t *testing.T) {
	e := Parse("/bogus/123/freq/330")
	require.True(t, e.HasFreq, "expected unknown key to be skipped, freq still set")
	require.Equal(t, float32(330), e.Freq)
}

func TestParseEmptyInput(t *testing.T) {
	e := Parse("")
	require.False(t, e.HasFreq)
	require.False(t, e.HasSound)
	require.Empty(t, e.Mods)
}
