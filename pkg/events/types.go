// Package events defines the envelope and payloads published on the event bus.
package events

import (
	"encoding/json"
	"time"
)

// EventType identifies the kind of event flowing through the system.
type EventType string

const (
	SessionStarted EventType = "voice.session.started"
	VoiceStarted   EventType = "voice.started"
	VoiceEnded     EventType = "voice.ended"
	SessionEnded   EventType = "voice.session.ended"
)

// Envelope is the standard event wrapper published to the event bus.
type Envelope struct {
	ID        string            `json:"id"`
	Type      EventType         `json:"type"`
	Source    string            `json:"source"`
	SessionID string            `json:"session_id"`
	Timestamp time.Time         `json:"timestamp"`
	Data      json.RawMessage   `json:"data"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// SessionStartedData is the payload for voice.session.started events.
type SessionStartedData struct {
	SampleRate int `json:"sample_rate"`
}

// VoiceStartedData is the payload for voice.started events, emitted when a
// session first confirms voice after silence.
type VoiceStartedData struct {
	Probability float32 `json:"probability"`
}

// VoiceEndedData is the payload for voice.ended events, emitted once per
// detected end of speech.
type VoiceEndedData struct {
	SilentFrames int `json:"silent_frames"`
}

// SessionEndedData is the payload for voice.session.ended events.
type SessionEndedData struct {
	HadVoice bool `json:"had_voice"`
}
