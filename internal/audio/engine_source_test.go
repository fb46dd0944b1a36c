package audio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	calls     int
	lastInput []float32
}

func (f *fakeEngine) ProcessBlock(output, liveInput []float32) {
	f.calls++
	f.lastInput = liveInput
	for i := range output {
		output[i] = 1
	}
}

func TestEngineSourceProcessForwards(t *testing.T) {
	fake := &fakeEngine{}
	live := []float32{0.1, 0.2}
	src := NewEngineSource(fake, live)

	dst := make([]float32, 4)
	src.Process(dst)

	require.Equal(t, 1, fake.calls)
	require.Equal(t, live, fake.lastInput)
	for _, v := range dst {
		require.Equal(t, float32(1), v)
	}
}

func TestEngineSourceFinishedAfterStop(t *testing.T) {
	src := NewEngineSource(&fakeEngine{}, nil)
	require.False(t, src.Finished())
	src.Stop()
	require.True(t, src.Finished())
}

func TestRenderToWAVProducesHeaderAndSamples(t *testing.T) {
	fake := &fakeEngine{}
	wav := RenderToWAV(fake, 48000, 2, 128, 0.01)

	require.Equal(t, "RIFF", string(wav[0:4]))
	require.Equal(t, "WAVE", string(wav[8:12]))
	require.Greater(t, fake.calls, 0)
	require.Greater(t, len(wav), 44)
}
