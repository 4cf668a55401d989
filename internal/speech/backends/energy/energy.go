// Package energy provides a local RMS-based classifier. It needs no model
// files, which makes it the fallback when no inference sidecar is available.
package energy

import (
	"context"
	"strconv"

	"github.com/sunflower9264/meow-voice/internal/speech/engine"
	"github.com/sunflower9264/meow-voice/internal/speech/registry"
)

// defaultFullScale is the RMS level, in raw sample units, that maps to
// probability 1.0. Typical speech at normal gain sits around 2000-6000.
const defaultFullScale = 6000.0

func init() {
	registry.VAD.Register("energy", func(config map[string]string) (engine.Classifier, error) {
		fullScale := defaultFullScale
		if v := config["energy_full_scale"]; v != "" {
			parsed, err := strconv.ParseFloat(v, 64)
			if err == nil && parsed > 0 {
				fullScale = parsed
			}
		}
		return &Classifier{fullScale: fullScale}, nil
	})
}

// Classifier scores frames by RMS energy scaled into [0, 1].
type Classifier struct {
	fullScale float64
}

func (c *Classifier) Classify(_ context.Context, frame []byte, _ int) (float32, error) {
	if _, err := engine.DecodePCM16(frame); err != nil {
		return 0, err
	}

	prob := engine.RMSEnergy(frame) / c.fullScale
	if prob > 1 {
		prob = 1
	}
	return float32(prob), nil
}

func (c *Classifier) Close() error {
	return nil
}
