package registry

import "github.com/sunflower9264/meow-voice/internal/speech/engine"

// ASR is the global registry of speech recognition backends.
var ASR = New[engine.ASREngine]()
