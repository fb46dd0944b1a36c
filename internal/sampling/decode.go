package sampling

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultBaseFreq is the base pitch assigned to loaded samples absent
// other information (C2).
const DefaultBaseFreq = 65.406

// HeadFrames is the number of frames decoded for a fast head-preload
// before the full file is available.
const HeadFrames = 4096

var audioExtensions = map[string]bool{
	".wav": true,
}

func isAudioFile(path string) bool {
	return audioExtensions[strings.ToLower(filepath.Ext(path))]
}

// ScanSamplesDir walks dir, building an index of sample entries without
// decoding any PCM. A direct file "kick.wav" becomes "kick"; a folder
// "hats/" with files sorted alphabetically becomes "hats/0", "hats/1", ...
func ScanSamplesDir(dir string) ([]SampleEntry, error) {
	var entries []SampleEntry

	topLevel, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	for _, de := range topLevel {
		full := filepath.Join(dir, de.Name())
		if de.IsDir() {
			children, err := os.ReadDir(full)
			if err != nil {
				continue
			}
			var names []string
			for _, c := range children {
				if !c.IsDir() && isAudioFile(c.Name()) {
					names = append(names, c.Name())
				}
			}
			sort.Strings(names)
			for i, n := range names {
				entries = append(entries, SampleEntry{
					Name: fmt.Sprintf("%s/%d", de.Name(), i),
					Path: filepath.Join(full, n),
				})
			}
		} else if isAudioFile(de.Name()) {
			name := strings.TrimSuffix(de.Name(), filepath.Ext(de.Name()))
			entries = append(entries, SampleEntry{Name: name, Path: full})
		}
	}
	return entries, nil
}

// DecodeSampleFile reads a RIFF/WAVE PCM or IEEE-float file and resamples
// it (linear interpolation) to targetSr if the file's own rate differs.
//
// No library in the retrieval pack covers audio file decoding, so this
// reads the WAVE container directly against encoding/binary rather than
// pulling in an unrelated dependency.
func DecodeSampleFile(path string, targetSr float32) (*SampleData, error) {
	raw, channels, fileSr, err := readWav(path)
	if err != nil {
		return nil, err
	}
	resampled := resampleLinear(raw, int(channels), fileSr, targetSr)
	return NewSampleData(resampled, channels, DefaultBaseFreq), nil
}

// DecodeSampleHead decodes only the first HeadFrames frames (or the
// whole file if shorter), tagging TotalFrames with the file's real
// frame count so callers can detect and later upgrade a head-preload.
func DecodeSampleHead(path string, targetSr float32) (*SampleData, error) {
	raw, channels, fileSr, err := readWav(path)
	if err != nil {
		return nil, err
	}
	totalFrames := uint32(len(raw) / int(channels))
	headFrames := uint32(HeadFrames)
	if headFrames > totalFrames {
		headFrames = totalFrames
	}
	head := raw[:int(headFrames)*int(channels)]
	resampled := resampleLinear(head, int(channels), fileSr, targetSr)
	scaledTotal := uint32(float32(totalFrames) * targetSr / fileSr)
	return NewSampleDataHead(resampled, channels, DefaultBaseFreq, scaledTotal), nil
}

func resampleLinear(samples []float32, channels int, fromSr, toSr float32) []float32 {
	if fromSr == toSr || fromSr <= 0 {
		return samples
	}
	frameCount := len(samples) / channels
	ratio := fromSr / toSr
	outFrames := int(float32(frameCount) / ratio)
	out := make([]float32, outFrames*channels)
	for i := 0; i < outFrames; i++ {
		srcPos := float32(i) * ratio
		f0 := int(srcPos)
		f1 := f0 + 1
		if f1 >= frameCount {
			f1 = frameCount - 1
		}
		frac := srcPos - float32(f0)
		for c := 0; c < channels; c++ {
			s0 := samples[f0*channels+c]
			s1 := samples[f1*channels+c]
			out[i*channels+c] = s0 + frac*(s1-s0)
		}
	}
	return out
}

// readWav is a minimal RIFF/WAVE parser supporting 16/24/32-bit PCM and
// 32-bit IEEE float, mono or stereo.
func readWav(path string) ([]float32, uint8, float32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, 0, err
	}
	if len(data) < 44 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, 0, 0, fmt.Errorf("%s: not a RIFF/WAVE file", path)
	}

	var channels uint16
	var sampleRate uint32
	var bitsPerSample uint16
	var audioFormat uint16
	var pcm []byte

	pos := 12
	for pos+8 <= len(data) {
		chunkID := string(data[pos : pos+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8
		if body+chunkSize > len(data) {
			chunkSize = len(data) - body
		}
		switch chunkID {
		case "fmt ":
			audioFormat = binary.LittleEndian.Uint16(data[body : body+2])
			channels = binary.LittleEndian.Uint16(data[body+2 : body+4])
			sampleRate = binary.LittleEndian.Uint32(data[body+4 : body+8])
			bitsPerSample = binary.LittleEndian.Uint16(data[body+14 : body+16])
		case "data":
			pcm = data[body : body+chunkSize]
		}
		pos = body + chunkSize
		if chunkSize%2 == 1 {
			pos++
		}
	}
	if pcm == nil || channels == 0 {
		return nil, 0, 0, fmt.Errorf("%s: missing fmt or data chunk", path)
	}

	var samples []float32
	switch {
	case audioFormat == 3 && bitsPerSample == 32:
		samples = make([]float32, len(pcm)/4)
		for i := range samples {
			bits := binary.LittleEndian.Uint32(pcm[i*4 : i*4+4])
			samples[i] = math.Float32frombits(bits)
		}
	case bitsPerSample == 16:
		samples = make([]float32, len(pcm)/2)
		for i := range samples {
			v := int16(binary.LittleEndian.Uint16(pcm[i*2 : i*2+2]))
			samples[i] = float32(v) / 32768.0
		}
	case bitsPerSample == 24:
		n := len(pcm) / 3
		samples = make([]float32, n)
		for i := 0; i < n; i++ {
			b0, b1, b2 := pcm[i*3], pcm[i*3+1], pcm[i*3+2]
			v := int32(b0) | int32(b1)<<8 | int32(b2)<<16
			if v&0x800000 != 0 {
				v |= -1 << 24
			}
			samples[i] = float32(v) / 8388608.0
		}
	case bitsPerSample == 32:
		samples = make([]float32, len(pcm)/4)
		for i := range samples {
			v := int32(binary.LittleEndian.Uint32(pcm[i*4 : i*4+4]))
			samples[i] = float32(v) / 2147483648.0
		}
	default:
		return nil, 0, 0, fmt.Errorf("%s: unsupported bit depth %d", path, bitsPerSample)
	}

	return samples, uint8(channels), float32(sampleRate), nil
}
