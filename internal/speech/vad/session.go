// Package vad implements the streaming voice-activity session engine: a
// per-session state machine that turns noisy frame-level speech
// probabilities into a debounced voice signal with clean utterance
// boundaries.
package vad

import "sync"

// Event is the outcome of applying one classified frame to a session.
// VoiceStarted and SpeechEnded are edges: they fire on the frame that makes
// the transition and stay false until the opposite transition re-arms them.
type Event struct {
	Probability    float32
	VoiceConfirmed bool
	VoiceStarted   bool
	SpeechEnded    bool
}

// Session holds the mutable state for one audio stream: the hysteresis
// window, the silence tracker, and the sticky has-voice flag. Frames for a
// session are applied strictly in arrival order; the store serializes all
// mutation under the session mutex, including the classifier call, so two
// concurrent frames for one id can never interleave.
type Session struct {
	mu sync.Mutex

	id       string
	window   *window
	silence  *silenceTracker
	hasVoice bool
}

func newSession(id string, cfg Config) *Session {
	return &Session{
		id:      id,
		window:  newWindow(cfg.WindowSize, cfg.ConfirmFrames),
		silence: newSilenceTracker(cfg.SilenceEndFrames),
	}
}

// apply records one frame probability against the thresholds and advances
// the state machine. Callers must hold s.mu.
func (s *Session) apply(prob, threshold, thresholdLow float32) Event {
	s.window.push(prob >= threshold)
	confirmed := s.window.confirmed()

	ev := Event{Probability: prob, VoiceConfirmed: confirmed}

	switch {
	case confirmed:
		ev.VoiceStarted = !s.hasVoice
		s.hasVoice = true
		s.silence.voice()
	case prob <= thresholdLow:
		if s.silence.silent() {
			ev.SpeechEnded = true
			s.hasVoice = false
		}
	default:
		// Ambiguous zone: neither confirms voice nor counts as silence.
		s.silence.ambiguous()
	}

	return ev
}

// HasVoice reports whether the session currently believes speech is active.
func (s *Session) HasVoice() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasVoice
}
