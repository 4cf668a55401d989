// Package config defines the service configuration loaded from the
// environment.
package config

import (
	"strings"

	"github.com/pitabwire/frame/config"
)

// VoiceConfig holds configuration for the voice service.
type VoiceConfig struct {
	config.ConfigurationDefault

	VADBackend string `envDefault:"silero" env:"VAD_BACKEND"`
	ASRBackend string `envDefault:"funasr" env:"ASR_BACKEND"`
	TTSBackend string `envDefault:"edge"   env:"TTS_BACKEND"`

	// TTSExtraBackends lists additional TTS backends to instantiate beside
	// the default, comma separated. Voice listing queries all of them.
	TTSExtraBackends string `envDefault:"" env:"TTS_EXTRA_BACKENDS"`

	SileroURL string `envDefault:"http://localhost:8001" env:"SILERO_URL"`
	FunASRURL string `envDefault:"http://localhost:8002" env:"FUNASR_URL"`
	EdgeURL   string `envDefault:"http://localhost:8003" env:"EDGE_TTS_URL"`

	DeepgramAPIKey   string `envDefault:""                          env:"DEEPGRAM_API_KEY"`
	ElevenLabsAPIKey string `envDefault:""                          env:"ELEVENLABS_API_KEY"`
	OpenAIAPIKey     string `envDefault:""                          env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string `envDefault:"https://api.openai.com/v1" env:"OPENAI_BASE_URL"`

	ModelsDir string `envDefault:"./models" env:"MODELS_DIR"`

	DefaultSampleRate int `envDefault:"16000" env:"DEFAULT_SAMPLE_RATE"`

	// VAD tuning. Zero values fall back to the engine defaults.
	VADWindowSize       int `envDefault:"5"  env:"VAD_WINDOW_SIZE"`
	VADConfirmFrames    int `envDefault:"3"  env:"VAD_CONFIRM_FRAMES"`
	VADSilenceEndFrames int `envDefault:"16" env:"VAD_SILENCE_END_FRAMES"`
}

// ExtraTTSBackends parses the comma-separated extra backend list.
func (c *VoiceConfig) ExtraTTSBackends() []string {
	if c.TTSExtraBackends == "" {
		return nil
	}
	parts := strings.Split(c.TTSExtraBackends, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// BackendSettings flattens the config into the map consumed by backend
// factories.
func (c *VoiceConfig) BackendSettings() map[string]string {
	return map[string]string{
		"silero_url":         c.SileroURL,
		"funasr_url":         c.FunASRURL,
		"edge_url":           c.EdgeURL,
		"deepgram_api_key":   c.DeepgramAPIKey,
		"elevenlabs_api_key": c.ElevenLabsAPIKey,
		"openai_api_key":     c.OpenAIAPIKey,
		"openai_base_url":    c.OpenAIBaseURL,
	}
}
