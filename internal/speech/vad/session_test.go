package vad

import "testing"

// The canonical trace: [0.9, 0.9, 0.9, 0.1, 0.1] at threshold 0.5. Frame 3
// confirms (3 of 3 voiced); frames 4 and 5 keep the session confirmed
// because 3 of the last 5 decisions are still voiced.
func TestSessionCanonicalTrace(t *testing.T) {
	s := newSession("trace", DefaultConfig())

	steps := []struct {
		prob        float32
		wantWindow  []bool
		wantConfirm bool
	}{
		{0.9, []bool{true}, false},
		{0.9, []bool{true, true}, false},
		{0.9, []bool{true, true, true}, true},
		{0.1, []bool{true, true, true, false}, true},
		{0.1, []bool{true, true, true, false, false}, true},
	}

	for i, step := range steps {
		ev := s.apply(step.prob, 0.5, 0.15)

		got := s.window.snapshot()
		if len(got) != len(step.wantWindow) {
			t.Fatalf("frame %d: window length = %d, want %d", i+1, len(got), len(step.wantWindow))
		}
		for j := range got {
			if got[j] != step.wantWindow[j] {
				t.Errorf("frame %d: window[%d] = %v, want %v", i+1, j, got[j], step.wantWindow[j])
			}
		}
		if ev.VoiceConfirmed != step.wantConfirm {
			t.Errorf("frame %d: VoiceConfirmed = %v, want %v", i+1, ev.VoiceConfirmed, step.wantConfirm)
		}
	}
}

func TestSessionNoConfirmationBeforeThreeFrames(t *testing.T) {
	s := newSession("early", DefaultConfig())
	for i := 1; i <= 2; i++ {
		if ev := s.apply(0.99, 0.5, 0.15); ev.VoiceConfirmed {
			t.Errorf("frame %d: VoiceConfirmed = true before 3 frames", i)
		}
	}
}

func TestSessionConfirmedVoiceSetsHasVoice(t *testing.T) {
	s := newSession("sticky", DefaultConfig())
	if s.HasVoice() {
		t.Error("fresh session has voice")
	}
	for i := 0; i < 3; i++ {
		s.apply(0.9, 0.5, 0.15)
	}
	if !s.HasVoice() {
		t.Error("session did not record voice after confirmation")
	}
}

func TestSessionSilenceRunResets(t *testing.T) {
	s := newSession("reset", DefaultConfig())

	// Two silent frames, then an ambiguous one: run breaks.
	s.apply(0.05, 0.5, 0.15)
	s.apply(0.05, 0.5, 0.15)
	if s.silence.run != 2 {
		t.Fatalf("silence run = %d, want 2", s.silence.run)
	}
	s.apply(0.3, 0.5, 0.15)
	if s.silence.run != 0 {
		t.Errorf("silence run = %d after ambiguous frame, want 0", s.silence.run)
	}

	// Confirmed voice also resets the run.
	for i := 0; i < 3; i++ {
		s.apply(0.9, 0.5, 0.15)
	}
	s.apply(0.05, 0.5, 0.15)
	if s.silence.run != 1 {
		t.Errorf("silence run = %d, want 1", s.silence.run)
	}
	for i := 0; i < 3; i++ {
		s.apply(0.9, 0.5, 0.15)
	}
	if s.silence.run != 0 {
		t.Errorf("silence run = %d after confirmed voice, want 0", s.silence.run)
	}
}

// An ambiguous frame must not change has_voice in either direction.
func TestSessionAmbiguousZoneKeepsHasVoice(t *testing.T) {
	s := newSession("ambiguous", DefaultConfig())

	s.apply(0.3, 0.5, 0.15)
	if s.HasVoice() {
		t.Error("ambiguous frame set has_voice on a fresh session")
	}

	for i := 0; i < 3; i++ {
		s.apply(0.9, 0.5, 0.15)
	}
	// Window is [T,T,T,F] then [T,T,T,F,F]: still confirmed. Push enough
	// ambiguous frames to drop confirmation entirely.
	for i := 0; i < 5; i++ {
		s.apply(0.3, 0.5, 0.15)
	}
	if !s.HasVoice() {
		t.Error("ambiguous frames cleared has_voice")
	}
}

// VoiceStarted must fire only on the frame that first confirms voice, and
// again only after a completed end of speech.
func TestSessionVoiceStartedEdge(t *testing.T) {
	s := newSession("edge", DefaultConfig())

	var starts int
	for i := 0; i < 5; i++ {
		if ev := s.apply(0.9, 0.5, 0.15); ev.VoiceStarted {
			starts++
		}
	}
	if starts != 1 {
		t.Errorf("VoiceStarted fired %d times during sustained voice, want 1", starts)
	}

	// Drive the session through an end of speech, then confirm again.
	var ended bool
	for i := 0; i < 25 && !ended; i++ {
		ended = s.apply(0.05, 0.5, 0.15).SpeechEnded
	}
	if !ended {
		t.Fatal("speech never ended")
	}

	starts = 0
	for i := 0; i < 5; i++ {
		if ev := s.apply(0.9, 0.5, 0.15); ev.VoiceStarted {
			starts++
		}
	}
	if starts != 1 {
		t.Errorf("VoiceStarted fired %d times after re-confirmation, want 1", starts)
	}
}
