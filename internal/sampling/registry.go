// Package sampling implements the lock-free sample registry, background
// decode loader, and playback cursor used by sample-backed voices.
package sampling

import (
	"sync/atomic"
)

// SampleData is immutable once published: interleaved PCM frames,
// channel count, nominal base frequency, and the frame counts needed to
// distinguish a head-preload from a fully decoded file.
type SampleData struct {
	Frames      []float32
	Channels    uint8
	Freq        float32
	FrameCount  uint32
	TotalFrames uint32
}

// NewSampleData builds a fully-decoded sample (FrameCount == TotalFrames).
func NewSampleData(samples []float32, channels uint8, freq float32) *SampleData {
	frameCount := uint32(len(samples) / int(channels))
	return &SampleData{Frames: samples, Channels: channels, Freq: freq, FrameCount: frameCount, TotalFrames: frameCount}
}

// NewSampleDataHead builds a head-preload sample whose TotalFrames
// exceeds FrameCount until the full decode is published.
func NewSampleDataHead(samples []float32, channels uint8, freq float32, totalFrames uint32) *SampleData {
	frameCount := uint32(len(samples) / int(channels))
	return &SampleData{Frames: samples, Channels: channels, Freq: freq, FrameCount: frameCount, TotalFrames: totalFrames}
}

// ReadInterpolated linearly interpolates between the frame at pos and
// the next frame on the given channel.
func (d *SampleData) ReadInterpolated(pos float32, channel int) float32 {
	ch := channel
	if ch >= int(d.Channels) {
		ch = int(d.Channels) - 1
	}
	channels := int(d.Channels)

	frame := int(pos)
	nextFrame := frame + 1
	maxFrame := int(d.FrameCount) - 1
	if nextFrame > maxFrame {
		nextFrame = maxFrame
	}
	frac := pos - float32(int(pos))

	idx0 := frame*channels + ch
	idx1 := nextFrame*channels + ch

	var s0, s1 float32
	if idx0 >= 0 && idx0 < len(d.Frames) {
		s0 = d.Frames[idx0]
	}
	if idx1 >= 0 && idx1 < len(d.Frames) {
		s1 = d.Frames[idx1]
	}
	return s0 + frac*(s1-s0)
}

// SampleRegistry is a lock-free, atomically-swappable immutable mapping
// from canonical sample name to SampleData. Reads never block; writers
// (the loader goroutine) build a new map and atomically replace the
// pointer, so in-flight readers keep using their own snapshot.
type SampleRegistry struct {
	samples atomic.Pointer[map[string]*SampleData]
}

// NewSampleRegistry returns an empty registry.
func NewSampleRegistry() *SampleRegistry {
	r := &SampleRegistry{}
	empty := make(map[string]*SampleData)
	r.samples.Store(&empty)
	return r
}

// Get returns the sample data for name, or nil if absent. Lock-free.
func (r *SampleRegistry) Get(name string) *SampleData {
	m := r.samples.Load()
	if m == nil {
		return nil
	}
	return (*m)[name]
}

// Insert publishes a sample under name via copy-and-swap.
func (r *SampleRegistry) Insert(name string, data *SampleData) {
	old := r.samples.Load()
	newMap := make(map[string]*SampleData, len(*old)+1)
	for k, v := range *old {
		newMap[k] = v
	}
	newMap[name] = data
	r.samples.Store(&newMap)
}

// Contains reports whether name is currently published. Once true for a
// given name, it stays true for the registry's lifetime (names are
// never removed).
func (r *SampleRegistry) Contains(name string) bool {
	m := r.samples.Load()
	_, ok := (*m)[name]
	return ok
}

// Len returns the number of published samples.
func (r *SampleRegistry) Len() int {
	return len(*r.samples.Load())
}
