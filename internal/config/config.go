// Package config holds the Doux engine's static configuration:
// output/input device selection, channel count, sample search paths
// and buffer size, plus the flag-based loading used by cmd/douxd.
package config

import (
	"flag"

	"github.com/sova-org/doux/internal/sampling"
	"github.com/sova-org/doux/internal/types"
)

// Config configures one engine instance.
type Config struct {
	// OutputDevice names an output device (name or index); empty uses
	// the system default.
	OutputDevice string
	// InputDevice names an input device for live-input voices; empty
	// uses the system default.
	InputDevice string
	// Channels is the number of output channels; it is used as given
	// and is not clamped to the device's channel count.
	Channels int
	// SamplePaths lists directories scanned for loadable samples.
	SamplePaths []string
	// BufferSize is the audio buffer size in frames; zero uses the
	// system default.
	BufferSize int
	// SampleRate is the engine's internal processing rate.
	SampleRate int
	// MaxVoices bounds the polyphony pool.
	MaxVoices int
}

// Default returns the engine's default configuration: stereo, system
// audio devices, no sample paths, 48kHz, full polyphony.
func Default() Config {
	return Config{
		Channels:   types.Channels,
		SampleRate: 48000,
		MaxVoices:  types.MaxVoices,
	}
}

// WithOutputDevice sets the output device and returns the config for
// chaining.
func (c Config) WithOutputDevice(device string) Config {
	c.OutputDevice = device
	return c
}

// WithInputDevice sets the input device and returns the config for
// chaining.
func (c Config) WithInputDevice(device string) Config {
	c.InputDevice = device
	return c
}

// WithChannels sets the output channel count and returns the config
// for chaining.
func (c Config) WithChannels(channels int) Config {
	c.Channels = channels
	return c
}

// WithSamplePath appends one sample directory and returns the config
// for chaining.
func (c Config) WithSamplePath(path string) Config {
	c.SamplePaths = append(c.SamplePaths, path)
	return c
}

// WithSamplePaths appends multiple sample directories and returns the
// config for chaining.
func (c Config) WithSamplePaths(paths []string) Config {
	c.SamplePaths = append(c.SamplePaths, paths...)
	return c
}

// WithBufferSize sets the buffer size and returns the config for
// chaining.
func (c Config) WithBufferSize(size int) Config {
	c.BufferSize = size
	return c
}

// samplePathList lets -sample-path be given multiple times on the
// command line, each appending one directory.
type samplePathList []string

func (s *samplePathList) String() string {
	if s == nil {
		return ""
	}
	return "[" + joinStrings(*s, ",") + "]"
}

func (s *samplePathList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

func joinStrings(ss []string, sep string) string {
	out := ""
	for i, s := range ss {
		if i > 0 {
			out += sep
		}
		out += s
	}
	return out
}

// RegisterFlags registers the config's fields onto a flag.FlagSet,
// returning a function that builds the final Config once Parse has
// run. Used by cmd/douxd so main() keeps the usual flag.Parse shape.
func RegisterFlags(fs *flag.FlagSet) func() Config {
	def := Default()

	sampleRate := fs.Int("sample-rate", def.SampleRate, "engine processing sample rate")
	channels := fs.Int("channels", def.Channels, "output channel count")
	maxVoices := fs.Int("max-voices", def.MaxVoices, "maximum simultaneous voices")
	outputDevice := fs.String("output-device", "", "output device name or index (default: system default)")
	inputDevice := fs.String("input-device", "", "input device name or index (default: system default)")
	bufferSize := fs.Int("buffer-size", 0, "audio buffer size in frames (0: system default)")

	var samplePaths samplePathList
	fs.Var(&samplePaths, "sample-path", "directory to scan for samples (repeatable)")

	return func() Config {
		return Config{
			OutputDevice: *outputDevice,
			InputDevice:  *inputDevice,
			Channels:     *channels,
			SamplePaths:  append([]string{}, samplePaths...),
			BufferSize:   *bufferSize,
			SampleRate:   *sampleRate,
			MaxVoices:    *maxVoices,
		}
	}
}

// ScanSamplePaths walks every configured sample directory and returns
// the union of discovered sample entries, skipping directories that
// fail to open rather than aborting the whole scan.
func ScanSamplePaths(paths []string) []sampling.SampleEntry {
	var all []sampling.SampleEntry
	for _, dir := range paths {
		entries, err := sampling.ScanSamplesDir(dir)
		if err != nil {
			continue
		}
		all = append(all, entries...)
	}
	return all
}
