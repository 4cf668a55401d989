package vad

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sunflower9264/meow-voice/internal/speech/engine"
)

// scriptClassifier replays a fixed sequence of probabilities, then repeats
// the last one. An optional error short-circuits every call.
type scriptClassifier struct {
	mu    sync.Mutex
	probs []float32
	next  int
	err   error
}

func (c *scriptClassifier) Classify(_ context.Context, _ []byte, _ int) (float32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return 0, c.err
	}
	if len(c.probs) == 0 {
		return 0, nil
	}
	p := c.probs[min(c.next, len(c.probs)-1)]
	c.next++
	return p, nil
}

func (c *scriptClassifier) Close() error { return nil }

// feed processes n frames for id; the store's scripted classifier decides
// each frame's probability.
func feed(t *testing.T, st *Store, id string, n int) (last Event) {
	t.Helper()
	for i := 0; i < n; i++ {
		ev, err := st.Process(context.Background(), id, []byte{0, 0}, 16000, DefaultThreshold, DefaultThresholdLow)
		if err != nil {
			t.Fatalf("Process(%q) frame %d: %v", id, i+1, err)
		}
		last = ev
	}
	return last
}

func TestStoreProcessUnknownSession(t *testing.T) {
	st := NewStore(&scriptClassifier{probs: []float32{0.9}}, DefaultConfig())
	_, err := st.Process(context.Background(), "ghost", []byte{0, 0}, 16000, 0.5, 0.15)
	if !errors.Is(err, engine.ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

// speech_ended fires on exactly the 16th consecutive silent frame after
// voice was confirmed, and never again until voice is re-confirmed.
func TestStoreSpeechEndsExactlyOnce(t *testing.T) {
	// Alternating probabilities leave the window at [T,F,T,F,T]: confirmed
	// on the 5th frame, but the very next silent frame drops the majority,
	// so every silent frame below counts toward the run.
	c := &scriptClassifier{probs: []float32{0.9, 0.05, 0.9, 0.05, 0.9}}
	st := NewStore(c, DefaultConfig())
	st.Start("s1")

	var confirmed bool
	for i := 0; i < 5; i++ {
		ev, err := st.Process(context.Background(), "s1", []byte{0, 0}, 16000, 0.5, 0.15)
		if err != nil {
			t.Fatalf("priming frame %d: %v", i+1, err)
		}
		confirmed = ev.VoiceConfirmed
	}
	if !confirmed {
		t.Fatal("voice not confirmed after priming frames")
	}

	// 16 silent frames: only the 16th ends speech.
	c.mu.Lock()
	c.probs = []float32{0.05}
	c.mu.Unlock()

	for i := 1; i <= 16; i++ {
		ev, err := st.Process(context.Background(), "s1", []byte{0, 0}, 16000, 0.5, 0.15)
		if err != nil {
			t.Fatalf("silent frame %d: %v", i, err)
		}
		if want := i == 16; ev.SpeechEnded != want {
			t.Errorf("silent frame %d: SpeechEnded = %v, want %v", i, ev.SpeechEnded, want)
		}
	}

	// Frames 17+ must not re-fire.
	for i := 17; i <= 25; i++ {
		ev, err := st.Process(context.Background(), "s1", []byte{0, 0}, 16000, 0.5, 0.15)
		if err != nil {
			t.Fatalf("silent frame %d: %v", i, err)
		}
		if ev.SpeechEnded {
			t.Errorf("silent frame %d: SpeechEnded re-fired", i)
		}
	}

	// Re-confirm voice, then a fresh silence run fires again.
	c.mu.Lock()
	c.probs = []float32{0.9}
	c.mu.Unlock()
	feed(t, st, "s1", 3)

	c.mu.Lock()
	c.probs = []float32{0.05}
	c.mu.Unlock()
	var fired int
	for i := 0; i < 20; i++ {
		ev, err := st.Process(context.Background(), "s1", []byte{0, 0}, 16000, 0.5, 0.15)
		if err != nil {
			t.Fatalf("second run frame %d: %v", i+1, err)
		}
		if ev.SpeechEnded {
			fired++
		}
	}
	if fired != 1 {
		t.Errorf("second silence run fired %d times, want 1", fired)
	}
}

// A duplicate start discards all prior state: the old silence run must not
// leak into the new session.
func TestStoreDuplicateStartWins(t *testing.T) {
	c := &scriptClassifier{probs: []float32{0.05}}
	st := NewStore(c, DefaultConfig())
	if replaced := st.Start("dup"); replaced {
		t.Error("first Start should not report a replacement")
	}

	// Build up a silence run of 15 — one short of ending.
	feed(t, st, "dup", 15)

	if replaced := st.Start("dup"); !replaced {
		t.Error("duplicate Start should report a replacement")
	}

	// If state leaked, the very next silent frame would end speech.
	ev, err := st.Process(context.Background(), "dup", []byte{0, 0}, 16000, 0.5, 0.15)
	if err != nil {
		t.Fatalf("Process after restart: %v", err)
	}
	if ev.SpeechEnded {
		t.Error("silence run leaked across session restart")
	}
	if st.Len() != 1 {
		t.Errorf("Len() = %d, want 1", st.Len())
	}
}

func TestStoreEndTolerant(t *testing.T) {
	st := NewStore(&scriptClassifier{probs: []float32{0.9}}, DefaultConfig())

	hadVoice, found := st.End("never-started")
	if hadVoice || found {
		t.Errorf("End(absent) = (%v, %v), want (false, false)", hadVoice, found)
	}

	st.Start("e1")
	feed(t, st, "e1", 3)

	hadVoice, found = st.End("e1")
	if !hadVoice || !found {
		t.Errorf("End(live) = (%v, %v), want (true, true)", hadVoice, found)
	}

	// Double-end is a tolerated no-op.
	hadVoice, found = st.End("e1")
	if hadVoice || found {
		t.Errorf("End(ended) = (%v, %v), want (false, false)", hadVoice, found)
	}
}

// A failed classification must leave the session untouched: no window slot,
// no silence increment.
func TestStoreFailedClassifyDoesNotMutate(t *testing.T) {
	c := &scriptClassifier{probs: []float32{0.9}}
	st := NewStore(c, DefaultConfig())
	st.Start("atomic")
	feed(t, st, "atomic", 2)

	c.mu.Lock()
	c.err = engine.ErrClassifierFailure
	c.mu.Unlock()
	if _, err := st.Process(context.Background(), "atomic", []byte{0, 0}, 16000, 0.5, 0.15); !errors.Is(err, engine.ErrClassifierFailure) {
		t.Fatalf("err = %v, want ErrClassifierFailure", err)
	}

	st.mu.RLock()
	s := st.sessions["atomic"]
	st.mu.RUnlock()
	if got := len(s.window.snapshot()); got != 2 {
		t.Errorf("window length = %d after failed classify, want 2", got)
	}

	// The next successful frame is the third observation and confirms.
	c.mu.Lock()
	c.err = nil
	c.next = 0
	c.mu.Unlock()
	ev := feed(t, st, "atomic", 1)
	if !ev.VoiceConfirmed {
		t.Error("third successful frame did not confirm")
	}
}

// Sessions for different ids never corrupt each other under concurrency.
func TestStoreConcurrentSessionsIsolated(t *testing.T) {
	c := &scriptClassifier{probs: []float32{0.9}}
	st := NewStore(c, DefaultConfig())

	const frames = 200
	ids := []string{"a", "b", "c", "d"}
	for _, id := range ids {
		st.Start(id)
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			for i := 0; i < frames; i++ {
				_, err := st.Process(context.Background(), id, []byte{0, 0}, 16000, 0.5, 0.15)
				if err != nil {
					t.Errorf("Process(%q): %v", id, err)
					return
				}
			}
		}(id)
	}
	wg.Wait()

	for _, id := range ids {
		st.mu.RLock()
		s := st.sessions[id]
		st.mu.RUnlock()
		if got := len(s.window.snapshot()); got != DefaultWindowSize {
			t.Errorf("session %q window length = %d, want %d", id, got, DefaultWindowSize)
		}
		if !s.HasVoice() {
			t.Errorf("session %q lost its voice state", id)
		}
	}
}

func TestStoreShutdownDropsSessions(t *testing.T) {
	st := NewStore(&scriptClassifier{}, DefaultConfig())
	st.Start("x")
	st.Start("y")
	st.Shutdown()
	if st.Len() != 0 {
		t.Errorf("Len() = %d after shutdown, want 0", st.Len())
	}
}
