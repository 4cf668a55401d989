package registry

import "github.com/sunflower9264/meow-voice/internal/speech/engine"

// TTS is the global registry of speech synthesis backends.
var TTS = New[engine.TTSEngine]()
