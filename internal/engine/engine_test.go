package engine

import (
	"math"
	"testing"
)

func finite(t *testing.T, label string, v float32) {
	t.Helper()
	if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
		t.Fatalf("%s is not finite: %v", label, v)
	}
}

func TestEvaluatePlayAllocatesVoice(t *testing.T) {
	e := New(48000)
	idx, ok := e.Evaluate("/freq/440/gain/0.8")
	if !ok {
		t.Fatalf("expected play to succeed")
	}
	if idx != 0 {
		t.Fatalf("expected first voice at index 0, got %d", idx)
	}
	if e.ActiveVoices != 1 {
		t.Fatalf("expected 1 active voice, got %d", e.ActiveVoices)
	}
	if e.Voices[0].Params.Freq != 440 {
		t.Fatalf("expected freq 440, got %v", e.Voices[0].Params.Freq)
	}
}

func TestEvaluateReleaseAndHush(t *testing.T) {
	e := New(48000)
	e.Evaluate("/freq/440")
	e.Evaluate("/freq/220")
	e.Evaluate("/hush")
	for i := 0; i < e.ActiveVoices; i++ {
		if e.Voices[i].Params.Gate != 0 {
			t.Fatalf("expected gate 0 after hush on voice %d", i)
		}
	}
}

func TestEvaluatePanicClearsVoices(t *testing.T) {
	e := New(48000)
	e.Evaluate("/freq/440")
	e.Evaluate("/freq/220")
	e.Evaluate("/panic")
	if e.ActiveVoices != 0 {
		t.Fatalf("expected 0 active voices after panic, got %d", e.ActiveVoices)
	}
}

func TestEvaluateDeltaSchedulesEvent(t *testing.T) {
	e := New(48000)
	e.Evaluate("/delta/0.5/freq/330")
	if e.Schedule.IsEmpty() {
		t.Fatalf("expected a scheduled event")
	}
}

func TestProcessBlockBounded(t *testing.T) {
	e := New(48000)
	e.Evaluate("/freq/440/gain/0.5/lpf/2000/verb/0.3/delay/0.2")
	e.Evaluate("/freq/220/sound/saw/orbit/1/comb/0.4")

	out := make([]float32, 128*2)
	for block := 0; block < 200; block++ {
		e.ProcessBlock(out, nil)
		for i, s := range out {
			finite(t, "output", s)
			if s < -1.0001 || s > 1.0001 {
				t.Fatalf("sample %d out of range: %v", i, s)
			}
		}
	}
}

func TestProcessBlockVoiceDiesAndFrees(t *testing.T) {
	e := New(48000)
	e.Evaluate("/freq/440/attack/0.001/decay/0/sustain/0/release/0.001/gate/1")
	if e.ActiveVoices != 1 {
		t.Fatalf("expected 1 active voice")
	}
	e.Evaluate("/voice/0/gate/0")

	out := make([]float32, 128*2)
	for block := 0; block < 50; block++ {
		e.ProcessBlock(out, nil)
	}
	if e.ActiveVoices != 0 {
		t.Fatalf("expected voice to free itself after release, got %d active", e.ActiveVoices)
	}
}

func TestEvaluateInlineModInstallsMod(t *testing.T) {
	e := New(48000)
	e.Evaluate("/freq/440/lpf/200~2000:0.1")
	v := e.Voices[0]
	if len(v.Mods) != 1 {
		t.Fatalf("expected 1 installed mod, got %d", len(v.Mods))
	}
}

func TestEvaluateCutGroupReleasesPrevious(t *testing.T) {
	e := New(48000)
	e.Evaluate("/freq/440/cut/1")
	e.Evaluate("/freq/220/cut/1")
	if e.Voices[0].Params.Gate != 0 {
		t.Fatalf("expected first cut-group voice released")
	}
	if e.Voices[1].Params.Gate == 0 {
		t.Fatalf("expected second cut-group voice still gated")
	}
}

func TestMetricsTrackActiveVoices(t *testing.T) {
	e := New(48000)
	e.Evaluate("/freq/440")
	e.Evaluate("/freq/220")
	out := make([]float32, 128*2)
	e.ProcessBlock(out, nil)
	if got := e.Metrics.ActiveVoices.Load(); got != 2 {
		t.Fatalf("expected 2 active voices tracked, got %d", got)
	}
}
