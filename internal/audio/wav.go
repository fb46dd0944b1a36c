package audio

import (
	"encoding/binary"
	"math"
)

// EncodeWAVFloat32LE wraps interleaved float32 samples in a canonical
// WAVE_FORMAT_IEEE_FLOAT RIFF header. Used by the file-render path to
// dump an offline engine pass to disk without pulling in a codec
// library for a format this simple.
func EncodeWAVFloat32LE(samples []float32, sampleRate, channels int) []byte {
	dataSize := len(samples) * 4
	byteRate := sampleRate * channels * 4
	blockAlign := channels * 4
	chunkSize := 36 + dataSize
	out := make([]byte, 44+dataSize)
	copy(out[0:], []byte("RIFF"))
	binary.LittleEndian.PutUint32(out[4:], uint32(chunkSize))
	copy(out[8:], []byte("WAVE"))
	copy(out[12:], []byte("fmt "))
	binary.LittleEndian.PutUint32(out[16:], 16)
	binary.LittleEndian.PutUint16(out[20:], 3)
	binary.LittleEndian.PutUint16(out[22:], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:], 32)
	copy(out[36:], []byte("data"))
	binary.LittleEndian.PutUint32(out[40:], uint32(dataSize))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[44+i*4:], math.Float32bits(s))
	}
	return out
}

// RenderToWAV runs engine for the given duration at its own block size
// and returns the result as an encoded WAV file. Intended for the
// command-line renderer path, where output goes to a file instead of
// a live audio device.
func RenderToWAV(engine EngineProcessor, sampleRate, channels int, blockSize int, seconds float64) []byte {
	if blockSize <= 0 {
		blockSize = 128
	}
	frames := int(float64(sampleRate) * seconds)
	out := make([]float32, frames*channels)
	block := blockSize * channels
	for off := 0; off < len(out); off += block {
		end := off + block
		if end > len(out) {
			end = len(out)
		}
		engine.ProcessBlock(out[off:end], nil)
	}
	return EncodeWAVFloat32LE(out, sampleRate, channels)
}
