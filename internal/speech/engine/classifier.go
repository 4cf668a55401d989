package engine

import "context"

// Classifier scores a single fixed-size audio frame for speech content,
// returning a probability in [0, 1]. Implementations must be safe for
// concurrent use; they must not retry failed inference internally.
type Classifier interface {
	Classify(ctx context.Context, frame []byte, sampleRate int) (float32, error)
	Close() error
}

// Guarded wraps a classifier with a model-availability check that runs
// before every call, not only at startup. Model files can disappear (or
// appear) independently of session state, so the gate is re-evaluated per
// frame.
func Guarded(c Classifier, available func() bool) Classifier {
	return &guarded{inner: c, available: available}
}

type guarded struct {
	inner     Classifier
	available func() bool
}

func (g *guarded) Classify(ctx context.Context, frame []byte, sampleRate int) (float32, error) {
	if !g.available() {
		return 0, ErrModelUnavailable
	}
	return g.inner.Classify(ctx, frame, sampleRate)
}

func (g *guarded) Close() error {
	return g.inner.Close()
}
