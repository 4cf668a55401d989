package engine

import (
	"context"
	"io"
)

// SynthesisRequest carries the text and voice parameters for one synthesis
// call. Rate, pitch and volume follow the edge-tts convention ("+0%",
// "+0Hz", "+0%"); backends that cannot honor a parameter ignore it.
type SynthesisRequest struct {
	Text   string
	Voice  string
	Rate   string
	Pitch  string
	Volume string
}

// Voice describes an available TTS voice.
type Voice struct {
	ID     string
	Name   string
	Locale string
	Gender string
}

// TTSEngine synthesizes speech from text. Synthesize returns the audio as a
// stream so large utterances can be forwarded to the caller incrementally;
// the caller owns closing it.
//
// Voices returns an error when the catalog cannot be fetched — an empty
// slice with a nil error means the backend genuinely has no voices, which is
// a different condition.
type TTSEngine interface {
	Synthesize(ctx context.Context, req SynthesisRequest) (io.ReadCloser, error)
	Voices(ctx context.Context) ([]Voice, error)
	Models() []ModelInfo
	Close() error
}
