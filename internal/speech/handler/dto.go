package handler

// DetectRequest is the request body for one-shot voice detection.
// Omitted or zero sample_rate and threshold fall back to the server
// defaults; a zero threshold is never a usable cutoff, so zero and
// absent are deliberately the same thing.
type DetectRequest struct {
	AudioData  string  `json:"audio_data"` // base64-encoded 16-bit PCM
	SampleRate int     `json:"sample_rate,omitempty"`
	Threshold  float32 `json:"threshold,omitempty"`
}

// DetectResponse is the one-shot detection result.
type DetectResponse struct {
	HasVoice    bool    `json:"has_voice"`
	Probability float32 `json:"probability"`
}

// SessionStartRequest starts a streaming VAD session. An empty session_id
// asks the server to generate one.
type SessionStartRequest struct {
	SessionID  string `json:"session_id,omitempty"`
	SampleRate int    `json:"sample_rate,omitempty"`
}

// SessionStartResponse echoes the session id in use.
type SessionStartResponse struct {
	SessionID string `json:"session_id"`
}

// SessionProcessRequest feeds one frame to a streaming session.
// Zero threshold and threshold_low mean the server defaults, same as
// [DetectRequest].
type SessionProcessRequest struct {
	SessionID    string  `json:"session_id"`
	AudioData    string  `json:"audio_data"` // base64-encoded 16-bit PCM
	SampleRate   int     `json:"sample_rate,omitempty"`
	Threshold    float32 `json:"threshold,omitempty"`
	ThresholdLow float32 `json:"threshold_low,omitempty"`
}

// SessionProcessResponse is the per-frame session verdict.
type SessionProcessResponse struct {
	Probability    float32 `json:"probability"`
	VoiceConfirmed bool    `json:"voice_confirmed"`
	SpeechEnded    bool    `json:"speech_ended"`
	SessionActive  bool    `json:"session_active"`
}

// SessionEndRequest ends a streaming session.
type SessionEndRequest struct {
	SessionID string `json:"session_id"`
}

// SessionEndResponse reports the session's terminal state. Found is false
// when the session was already gone, which callers treat as success.
type SessionEndResponse struct {
	HadVoice bool `json:"had_voice"`
	Found    bool `json:"found"`
}

// TranscribeRequest is the request body for unary transcription.
type TranscribeRequest struct {
	AudioData string `json:"audio_data"` // base64-encoded audio
	Format    string `json:"format,omitempty"`
	Language  string `json:"language,omitempty"`
}

// TranscribeResponse carries the transcription result.
type TranscribeResponse struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}

// SynthesizeRequest is the request body for speech synthesis. Rate, pitch
// and volume use signed percentage strings such as "+10%".
type SynthesizeRequest struct {
	Text   string `json:"text"`
	Voice  string `json:"voice,omitempty"`
	Rate   string `json:"rate,omitempty"`
	Pitch  string `json:"pitch,omitempty"`
	Volume string `json:"volume,omitempty"`
}

// VoiceInfo describes one available TTS voice.
type VoiceInfo struct {
	Backend string `json:"backend"`
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Locale  string `json:"locale,omitempty"`
	Gender  string `json:"gender,omitempty"`
}

// VoicesResponse lists voices across all configured TTS backends.
type VoicesResponse struct {
	Voices []VoiceInfo `json:"voices"`
}

// HealthResponse reports service liveness and model availability.
type HealthResponse struct {
	Status string          `json:"status"`
	Models map[string]bool `json:"models,omitempty"`
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
}
