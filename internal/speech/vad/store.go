package vad

import (
	"context"
	"fmt"
	"sync"

	"github.com/sunflower9264/meow-voice/internal/speech/engine"
)

// Store owns all live sessions and the classifier they share. It is the only
// shared mutable state in the engine: the store mutex guards the id map,
// while each session's own mutex serializes its frames. Sessions for
// different ids make progress in parallel.
type Store struct {
	cfg        Config
	classifier engine.Classifier

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates a session store backed by the given classifier.
func NewStore(classifier engine.Classifier, cfg Config) *Store {
	return &Store{
		cfg:        cfg.withDefaults(),
		classifier: classifier,
		sessions:   make(map[string]*Session),
	}
}

// Start creates a fresh session for id: empty window, zero silence run, no
// voice. A duplicate start is not an error — the previous session is
// discarded and the new one wins. Returns whether an existing session was
// replaced.
func (st *Store) Start(id string) (replaced bool) {
	st.mu.Lock()
	_, replaced = st.sessions[id]
	st.sessions[id] = newSession(id, st.cfg)
	st.mu.Unlock()
	return replaced
}

// Process classifies one frame and applies it to the session. The session
// mutex is held across the classifier call so that frames are applied in
// arrival order; two in-flight frames for one session are logically ordered
// audio, so serializing them is the contract, not a penalty. The session is
// mutated only after classification succeeds — a failed call leaves the
// window and silence run untouched.
func (st *Store) Process(ctx context.Context, id string, frame []byte, sampleRate int, threshold, thresholdLow float32) (Event, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return Event{}, fmt.Errorf("%w: %q", engine.ErrSessionNotFound, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prob, err := st.classifier.Classify(ctx, frame, sampleRate)
	if err != nil {
		return Event{}, err
	}

	return s.apply(prob, threshold, thresholdLow), nil
}

// End removes the session and returns its terminal has-voice state. Ending
// an absent id is a tolerated no-op (found=false), because double-end is
// expected under at-least-once delivery.
func (st *Store) End(id string) (hadVoice, found bool) {
	st.mu.Lock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()

	if !ok {
		return false, false
	}
	return s.HasVoice(), true
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Shutdown drops all live sessions. Called once at process teardown.
func (st *Store) Shutdown() {
	st.mu.Lock()
	st.sessions = make(map[string]*Session)
	st.mu.Unlock()
}
