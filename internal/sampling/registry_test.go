package sampling

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryMonotonicContains(t *testing.T) {
	r := NewSampleRegistry()
	require.False(t, r.Contains("kick"), "expected empty registry to not contain kick")

	r.Insert("kick", NewSampleData([]float32{0, 0, 1, 1}, 1, 65.406))
	require.True(t, r.Contains("kick"), "expected registry to contain kick after insert")

	r.Insert("snare", NewSampleData([]float32{1}, 1, 65.406))
	require.True(t, r.Contains("kick"), "kick should still be present after an unrelated insert")
}

func TestReadInterpolatedMidpoint(t *testing.T) {
	d := NewSampleData([]float32{0, 1}, 1, 65.406)
	v := d.ReadInterpolated(0.5, 0)
	require.Equal(t, float32(0.5), v)
}
