package config

import (
	"flag"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	c := Default()
	if c.Channels != 2 {
		t.Fatalf("expected 2 channels by default, got %d", c.Channels)
	}
	if c.SampleRate != 48000 {
		t.Fatalf("expected 48000Hz by default, got %d", c.SampleRate)
	}
}

func TestWithChaining(t *testing.T) {
	c := Default().
		WithOutputDevice("speakers").
		WithChannels(1).
		WithSamplePath("./samples/kicks").
		WithSamplePath("./samples/hats").
		WithBufferSize(256)

	if c.OutputDevice != "speakers" {
		t.Fatalf("expected output device set, got %q", c.OutputDevice)
	}
	if c.Channels != 1 {
		t.Fatalf("expected 1 channel, got %d", c.Channels)
	}
	if len(c.SamplePaths) != 2 {
		t.Fatalf("expected 2 sample paths, got %v", c.SamplePaths)
	}
	if c.BufferSize != 256 {
		t.Fatalf("expected buffer size 256, got %d", c.BufferSize)
	}
}

func TestRegisterFlagsParsesRepeatedSamplePath(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	build := RegisterFlags(fs)
	err := fs.Parse([]string{
		"-sample-rate", "44100",
		"-channels", "2",
		"-sample-path", "/a",
		"-sample-path", "/b",
	})
	if err != nil {
		t.Fatalf("flag parse error: %v", err)
	}
	c := build()
	if c.SampleRate != 44100 {
		t.Fatalf("expected sample rate 44100, got %d", c.SampleRate)
	}
	if len(c.SamplePaths) != 2 || c.SamplePaths[0] != "/a" || c.SamplePaths[1] != "/b" {
		t.Fatalf("expected two sample paths in order, got %v", c.SamplePaths)
	}
}

func TestScanSamplePathsSkipsMissingDirs(t *testing.T) {
	entries := ScanSamplePaths([]string{"/nonexistent/path/doux-test"})
	if len(entries) != 0 {
		t.Fatalf("expected no entries from a missing dir, got %v", entries)
	}
}
