// Package elevenlabs synthesizes speech through the ElevenLabs REST API.
package elevenlabs

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/sunflower9264/meow-voice/internal/speech/backends/restutil"
	"github.com/sunflower9264/meow-voice/internal/speech/engine"
	"github.com/sunflower9264/meow-voice/internal/speech/registry"
)

const defaultVoiceID = "21m00Tcm4TlvDq8ikWAM" // Rachel

func init() {
	registry.TTS.Register("elevenlabs", func(config map[string]string) (engine.TTSEngine, error) {
		apiKey := config["elevenlabs_api_key"]
		if apiKey == "" {
			apiKey = config["api_key"]
		}
		if apiKey == "" {
			return nil, fmt.Errorf("elevenlabs API key required (set elevenlabs_api_key in config)")
		}
		model := config["model"]
		if model == "" {
			model = "eleven_multilingual_v2"
		}
		return &TTS{apiKey: apiKey, model: model}, nil
	})
}

type synthesizeRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type voicesResponse struct {
	Voices []struct {
		VoiceID string `json:"voice_id"`
		Name    string `json:"name"`
		Labels  struct {
			Gender string `json:"gender"`
			Accent string `json:"accent"`
		} `json:"labels"`
	} `json:"voices"`
}

// TTS implements TTSEngine using the ElevenLabs streaming endpoint.
type TTS struct {
	apiKey string
	model  string
}

func (e *TTS) Synthesize(ctx context.Context, req engine.SynthesisRequest) (io.ReadCloser, error) {
	voice := req.Voice
	if voice == "" {
		voice = defaultVoiceID
	}

	apiURL := fmt.Sprintf("https://api.elevenlabs.io/v1/text-to-speech/%s/stream", voice)

	headers := map[string]string{
		"xi-api-key":   e.apiKey,
		"Content-Type": "application/json",
	}

	body := synthesizeRequest{
		Text:    req.Text,
		ModelID: e.model,
		VoiceSettings: voiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.75,
		},
	}

	stream, err := restutil.DoRaw(ctx, http.MethodPost, apiURL, headers, restutil.JSONBody(body))
	if err != nil {
		return nil, fmt.Errorf("elevenlabs synthesize: %w", err)
	}
	return stream, nil
}

func (e *TTS) Voices(ctx context.Context) ([]engine.Voice, error) {
	headers := map[string]string{"xi-api-key": e.apiKey}

	var resp voicesResponse
	err := restutil.DoJSON(ctx, http.MethodGet, "https://api.elevenlabs.io/v1/voices", headers, nil, &resp)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs voices: %w", err)
	}

	voices := make([]engine.Voice, 0, len(resp.Voices))
	for _, v := range resp.Voices {
		voices = append(voices, engine.Voice{
			ID:     v.VoiceID,
			Name:   v.Name,
			Gender: v.Labels.Gender,
		})
	}
	return voices, nil
}

func (e *TTS) Models() []engine.ModelInfo {
	return []engine.ModelInfo{
		{ID: "eleven_multilingual_v2", DisplayName: "Multilingual v2", IsDefault: true},
		{ID: "eleven_monolingual_v1", DisplayName: "Monolingual v1"},
		{ID: "eleven_turbo_v2", DisplayName: "Turbo v2"},
	}
}

func (e *TTS) Close() error {
	return nil
}
