package telemetry

import (
	"testing"
	"time"
)

func TestLoadMeasurerConvergesTowardInstantLoad(t *testing.T) {
	m := NewProcessLoadMeasurer(0)
	m.SetBufferTime(1_000_000)
	m.RecordSample(500_000)
	if got := m.GetLoad(); got < 0.49 || got > 0.51 {
		t.Fatalf("expected load ~0.5 with zero smoothing, got %v", got)
	}
}

func TestLoadMeasurerIgnoresZeroBufferTime(t *testing.T) {
	m := NewDefaultProcessLoadMeasurer()
	m.RecordSample(500_000)
	if got := m.GetLoad(); got != 0 {
		t.Fatalf("expected load to stay 0 without a buffer time set, got %v", got)
	}
}

func TestLoadMeasurerClampsInstantLoad(t *testing.T) {
	m := NewProcessLoadMeasurer(0)
	m.SetBufferTime(1)
	m.RecordSample(1_000_000_000)
	if got := m.GetLoad(); got > 2.01 {
		t.Fatalf("expected instant load to clamp at 2.0, got %v", got)
	}
}

func TestLoadMeasurerReset(t *testing.T) {
	m := NewProcessLoadMeasurer(0)
	m.SetBufferTime(1_000_000)
	m.RecordSample(500_000)
	m.Reset()
	if got := m.GetLoad(); got != 0 {
		t.Fatalf("expected load 0 after reset, got %v", got)
	}
}

func TestScopedTimerRecordsSample(t *testing.T) {
	m := NewProcessLoadMeasurer(0)
	m.SetBufferTime(uint64(time.Millisecond.Nanoseconds()))
	func() {
		timer := m.StartTimer()
		defer timer.Stop()
		time.Sleep(time.Millisecond)
	}()
	if got := m.GetLoad(); got <= 0 {
		t.Fatalf("expected nonzero load after scoped timer, got %v", got)
	}
}

func TestEngineMetricsSamplePoolMB(t *testing.T) {
	m := NewEngineMetrics()
	m.SamplePoolBytes.Store(2 * 1024 * 1024)
	if got := m.SamplePoolMB(); got != 2 {
		t.Fatalf("expected 2MB, got %v", got)
	}
}

func TestEngineMetricsResetPeakVoices(t *testing.T) {
	m := NewEngineMetrics()
	m.PeakVoices.Store(7)
	m.ResetPeakVoices()
	if got := m.PeakVoices.Load(); got != 0 {
		t.Fatalf("expected peak voices reset to 0, got %v", got)
	}
}
