package engine

import (
	"errors"
	"math"
	"testing"
)

func TestDecodePCM16(t *testing.T) {
	// Little-endian samples: 0, 16384, -32768, 32767.
	raw := []byte{
		0x00, 0x00,
		0x00, 0x40,
		0x00, 0x80,
		0xFF, 0x7F,
	}

	samples, err := DecodePCM16(raw)
	if err != nil {
		t.Fatalf("DecodePCM16: %v", err)
	}
	want := []float32{0, 0.5, -1, 32767.0 / 32768.0}
	if len(samples) != len(want) {
		t.Fatalf("got %d samples, want %d", len(samples), len(want))
	}
	for i := range want {
		if math.Abs(float64(samples[i]-want[i])) > 1e-6 {
			t.Errorf("sample %d = %v, want %v", i, samples[i], want[i])
		}
	}
}

func TestDecodePCM16OddLength(t *testing.T) {
	_, err := DecodePCM16([]byte{0x01, 0x02, 0x03})
	if !errors.Is(err, ErrInvalidAudio) {
		t.Errorf("err = %v, want ErrInvalidAudio", err)
	}
}

func TestDecodePCM16Empty(t *testing.T) {
	samples, err := DecodePCM16(nil)
	if err != nil {
		t.Fatalf("DecodePCM16(nil): %v", err)
	}
	if len(samples) != 0 {
		t.Errorf("got %d samples, want 0", len(samples))
	}
}

func TestRMSEnergy(t *testing.T) {
	if got := RMSEnergy(nil); got != 0 {
		t.Errorf("RMSEnergy(nil) = %v, want 0", got)
	}

	// Constant amplitude 1000 has RMS 1000.
	raw := make([]byte, 0, 32)
	for i := 0; i < 16; i++ {
		raw = append(raw, 0xE8, 0x03) // 1000 LE
	}
	if got := RMSEnergy(raw); math.Abs(got-1000) > 1e-9 {
		t.Errorf("RMSEnergy = %v, want 1000", got)
	}
}
