package engine

import (
	"encoding/binary"
	"fmt"
	"math"
)

// DecodePCM16 interprets raw bytes as little-endian signed 16-bit PCM and
// normalizes each sample to [-1, 1]. A buffer that is not a whole number of
// samples is a caller error.
func DecodePCM16(raw []byte) ([]float32, error) {
	if len(raw)%2 != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a whole number of 16-bit samples", ErrInvalidAudio, len(raw))
	}

	samples := make([]float32, len(raw)/2)
	for i := range samples {
		s := int16(binary.LittleEndian.Uint16(raw[i*2 : i*2+2]))
		samples[i] = float32(s) / 32768.0
	}
	return samples, nil
}

// RMSEnergy computes the root-mean-square energy of 16-bit signed PCM audio
// in raw sample units (0..32767).
func RMSEnergy(raw []byte) float64 {
	if len(raw) < 2 {
		return 0
	}

	numSamples := len(raw) / 2
	var sumSquares float64

	for i := 0; i < numSamples; i++ {
		sample := int16(binary.LittleEndian.Uint16(raw[i*2 : i*2+2]))
		sumSquares += float64(sample) * float64(sample)
	}

	return math.Sqrt(sumSquares / float64(numSamples))
}
