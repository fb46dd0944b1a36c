package voice

import (
	"math"
	"testing"
)

func TestVoiceProcessBounded(t *testing.T) {
	v := New(48000)
	v.Params.Freq = 220
	v.Params.Gate = 1
	isr := float32(1.0 / 48000.0)
	for i := 0; i < 20000; i++ {
		if i == 10000 {
			v.Params.Gate = 0
		}
		v.Process(isr, nil, 0)
		for _, ch := range v.Ch {
			if math.IsNaN(float64(ch)) || math.IsInf(float64(ch), 0) {
				t.Fatalf("voice produced non-finite output at sample %d: %v", i, ch)
			}
		}
	}
}

func TestVoiceReleaseEventuallyFinishes(t *testing.T) {
	v := New(48000)
	v.Params.Freq = 220
	v.Params.Gate = 1
	v.Params.Release = 0.01
	isr := float32(1.0 / 48000.0)
	for i := 0; i < 1000; i++ {
		v.Process(isr, nil, 0)
	}
	v.Params.Gate = 0
	finished := false
	for i := 0; i < 48000; i++ {
		if !v.Process(isr, nil, 0) {
			finished = true
			break
		}
	}
	if !finished {
		t.Fatalf("voice never finished after release")
	}
}

func TestVoiceSpreadModeBounded(t *testing.T) {
	v := New(48000)
	v.Params.Freq = 220
	v.Params.Spread = 10
	v.Params.Gate = 1
	isr := float32(1.0 / 48000.0)
	for i := 0; i < 5000; i++ {
		v.Process(isr, nil, 0)
	}
	for _, ch := range v.Ch {
		if math.IsNaN(float64(ch)) || math.IsInf(float64(ch), 0) {
			t.Fatalf("spread voice produced non-finite output: %v", ch)
		}
	}
}
