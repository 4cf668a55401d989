package vad

import (
	"context"

	"github.com/sunflower9264/meow-voice/internal/speech/engine"
)

// Detect classifies a single frame with no history, hysteresis, or silence
// tracking: a pure function of the frame and the threshold. Identical bytes
// yield an identical decision for a deterministic classifier.
func Detect(ctx context.Context, c engine.Classifier, frame []byte, sampleRate int, threshold float32) (hasVoice bool, probability float32, err error) {
	prob, err := c.Classify(ctx, frame, sampleRate)
	if err != nil {
		return false, 0, err
	}
	return prob >= threshold, prob, nil
}
