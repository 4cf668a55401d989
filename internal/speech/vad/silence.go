package vad

// silenceTracker counts consecutive silent frames to detect the end of an
// utterance. The end signal is edge-triggered: it fires once when the run
// reaches the limit and then latches until a confirmed-voice frame resets
// the cycle, so callers never see it re-fire on every frame past the limit.
type silenceTracker struct {
	run   int
	limit int
	ended bool
}

func newSilenceTracker(limit int) *silenceTracker {
	return &silenceTracker{limit: limit}
}

// voice resets the tracker on a confirmed-voice frame and re-arms the end
// signal.
func (t *silenceTracker) voice() {
	t.run = 0
	t.ended = false
}

// silent records one frame at or below the low threshold and reports whether
// this frame ended the utterance.
func (t *silenceTracker) silent() bool {
	t.run++
	if t.run >= t.limit && !t.ended {
		t.ended = true
		return true
	}
	return false
}

// ambiguous records a frame between the thresholds: the silence run breaks,
// but the end latch stays as it is. Ambiguous frames alone can never re-arm
// the signal.
func (t *silenceTracker) ambiguous() {
	t.run = 0
}
