package registry

import "github.com/sunflower9264/meow-voice/internal/speech/engine"

// VAD is the global registry of voice activity classifier backends.
var VAD = New[engine.Classifier]()
