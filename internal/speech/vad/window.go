package vad

// Default tuning. Thresholds may be overridden per request; the window and
// silence geometry are fixed per store.
const (
	// DefaultThreshold is the high threshold: probability at or above it
	// counts as a raw voice frame.
	DefaultThreshold float32 = 0.5

	// DefaultThresholdLow is the low threshold: probability at or below it
	// counts as silence. Probabilities strictly between the two thresholds
	// fall in the ambiguous zone and count as neither.
	DefaultThresholdLow float32 = 0.15

	// DefaultWindowSize is the number of recent raw frame decisions kept.
	DefaultWindowSize = 5

	// DefaultConfirmFrames is how many of the windowed decisions must be
	// voiced before the session confirms speech.
	DefaultConfirmFrames = 3

	// DefaultSilenceEndFrames is how many consecutive silent frames end an
	// utterance (~1s at 60ms frames).
	DefaultSilenceEndFrames = 16
)

// Config holds the geometry of the per-session state machine.
type Config struct {
	WindowSize       int
	ConfirmFrames    int
	SilenceEndFrames int
}

// DefaultConfig returns the stock tuning used by the service.
func DefaultConfig() Config {
	return Config{
		WindowSize:       DefaultWindowSize,
		ConfirmFrames:    DefaultConfirmFrames,
		SilenceEndFrames: DefaultSilenceEndFrames,
	}
}

func (c Config) withDefaults() Config {
	if c.WindowSize <= 0 {
		c.WindowSize = DefaultWindowSize
	}
	if c.ConfirmFrames <= 0 {
		c.ConfirmFrames = DefaultConfirmFrames
	}
	if c.SilenceEndFrames <= 0 {
		c.SilenceEndFrames = DefaultSilenceEndFrames
	}
	return c
}

// window is a bounded FIFO of raw per-frame voice decisions. A single
// spurious high-probability frame cannot flip the confirmed state; confirm
// of the last size frames agreeing can. Before the window has seen confirm
// frames, confirmation is impossible by construction.
type window struct {
	slots   []bool
	size    int
	confirm int
}

func newWindow(size, confirm int) *window {
	return &window{size: size, confirm: confirm}
}

// push appends a raw decision, evicting the oldest when full.
func (w *window) push(voiced bool) {
	w.slots = append(w.slots, voiced)
	if len(w.slots) > w.size {
		w.slots = w.slots[len(w.slots)-w.size:]
	}
}

// confirmed reports whether at least confirm of the recorded decisions are
// voiced.
func (w *window) confirmed() bool {
	var n int
	for _, v := range w.slots {
		if v {
			n++
		}
	}
	return n >= w.confirm
}

func (w *window) snapshot() []bool {
	cp := make([]bool, len(w.slots))
	copy(cp, w.slots)
	return cp
}
