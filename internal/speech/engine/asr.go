package engine

import "context"

// Transcription is the result of transcribing one finalized utterance.
type Transcription struct {
	Text     string
	Language string
}

// ModelInfo describes an available model for a backend.
type ModelInfo struct {
	ID          string
	DisplayName string
	IsDefault   bool
}

// ASREngine converts one complete utterance of audio into text. It is
// invoked once per finalized utterance and keeps no per-call state.
type ASREngine interface {
	Transcribe(ctx context.Context, audio []byte, format, language string) (Transcription, error)
	Models() []ModelInfo
	Close() error
}
