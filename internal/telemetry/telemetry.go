// Package telemetry measures DSP load and voice/scheduler activity for
// a running engine, entirely through atomics so the audio thread never
// blocks on a mutex to publish a metric a control thread wants to read.
package telemetry

import (
	"sync/atomic"
	"time"
)

// loadScale is the fixed-point scale used to store a float32 load ratio
// inside an atomic uint32.
const loadScale = 1_000_000.0

const defaultSmoothing = 0.9

// ProcessLoadMeasurer tracks DSP load as the ratio of processing time
// to buffer time, exponentially smoothed. A load of 1.0 means the
// audio callback used all of its available time budget.
type ProcessLoadMeasurer struct {
	bufferTimeNs atomic.Uint64
	loadFixed    atomic.Uint32
	smoothing    float32
}

// NewProcessLoadMeasurer creates a measurer with the given smoothing
// factor, clamped to [0, 0.99]; higher values respond more slowly.
func NewProcessLoadMeasurer(smoothing float32) *ProcessLoadMeasurer {
	if smoothing < 0 {
		smoothing = 0
	} else if smoothing > 0.99 {
		smoothing = 0.99
	}
	return &ProcessLoadMeasurer{smoothing: smoothing}
}

// NewDefaultProcessLoadMeasurer creates a measurer with the engine's
// default smoothing factor.
func NewDefaultProcessLoadMeasurer() *ProcessLoadMeasurer {
	return NewProcessLoadMeasurer(defaultSmoothing)
}

// SetBufferTime records how long one audio block has to fill, in
// nanoseconds, against which processing time is measured as a ratio.
func (m *ProcessLoadMeasurer) SetBufferTime(ns uint64) {
	m.bufferTimeNs.Store(ns)
}

// ScopedTimer records elapsed wall-clock time against its measurer
// when Stop is called; callers defer Stop to mimic the teacher's
// RAII-on-drop timer.
type ScopedTimer struct {
	measurer *ProcessLoadMeasurer
	start    time.Time
}

// StartTimer begins timing one audio block; callers must call Stop
// (typically via defer) when the block finishes processing.
func (m *ProcessLoadMeasurer) StartTimer() *ScopedTimer {
	return &ScopedTimer{measurer: m, start: time.Now()}
}

// Stop records the elapsed time since StartTimer as one load sample.
func (t *ScopedTimer) Stop() {
	t.measurer.RecordSample(uint64(time.Since(t.start).Nanoseconds()))
}

// RecordSample folds one elapsed-time measurement into the smoothed
// load estimate.
func (m *ProcessLoadMeasurer) RecordSample(elapsedNs uint64) {
	bufferNs := m.bufferTimeNs.Load()
	if bufferNs == 0 {
		return
	}

	instantLoad := float32(elapsedNs) / float32(bufferNs)
	if instantLoad > 2.0 {
		instantLoad = 2.0
	}

	oldFixed := m.loadFixed.Load()
	oldLoad := float32(oldFixed) / loadScale
	newLoad := m.smoothing*oldLoad + (1-m.smoothing)*instantLoad
	m.loadFixed.Store(uint32(newLoad * loadScale))
}

// GetLoad returns the current smoothed load ratio.
func (m *ProcessLoadMeasurer) GetLoad() float32 {
	return float32(m.loadFixed.Load()) / loadScale
}

// Reset zeroes the smoothed load estimate.
func (m *ProcessLoadMeasurer) Reset() {
	m.loadFixed.Store(0)
}

// EngineMetrics aggregates every cross-thread-visible counter the
// engine publishes: DSP load plus voice and scheduler activity.
type EngineMetrics struct {
	Load            *ProcessLoadMeasurer
	ActiveVoices    atomic.Uint32
	PeakVoices      atomic.Uint32
	ScheduleDepth   atomic.Uint32
	SamplePoolBytes atomic.Uint64
}

// NewEngineMetrics creates a zeroed metrics block with a default-smoothed
// load measurer.
func NewEngineMetrics() *EngineMetrics {
	return &EngineMetrics{Load: NewDefaultProcessLoadMeasurer()}
}

// ResetPeakVoices zeroes the high-water voice count, typically called
// once per telemetry reporting interval.
func (m *EngineMetrics) ResetPeakVoices() {
	m.PeakVoices.Store(0)
}

// SamplePoolMB reports the sample registry's resident size in
// megabytes.
func (m *EngineMetrics) SamplePoolMB() float32 {
	return float32(m.SamplePoolBytes.Load()) / (1024.0 * 1024.0)
}
