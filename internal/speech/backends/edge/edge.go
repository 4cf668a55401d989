// Package edge synthesizes speech through an Edge TTS sidecar.
package edge

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/sunflower9264/meow-voice/internal/speech/backends/restutil"
	"github.com/sunflower9264/meow-voice/internal/speech/engine"
	"github.com/sunflower9264/meow-voice/internal/speech/registry"
)

const defaultVoice = "zh-CN-XiaoxiaoNeural"

func init() {
	registry.TTS.Register("edge", func(config map[string]string) (engine.TTSEngine, error) {
		base := config["edge_url"]
		if base == "" {
			base = config["url"]
		}
		if base == "" {
			return nil, fmt.Errorf("edge TTS sidecar URL required (set edge_url in config)")
		}
		voice := config["voice"]
		if voice == "" {
			voice = defaultVoice
		}
		return &TTS{baseURL: base, defaultVoice: voice}, nil
	})
}

type synthesizeRequest struct {
	Text   string `json:"text"`
	Voice  string `json:"voice"`
	Rate   string `json:"rate,omitempty"`
	Pitch  string `json:"pitch,omitempty"`
	Volume string `json:"volume,omitempty"`
}

type voiceEntry struct {
	ShortName string `json:"ShortName"`
	Name      string `json:"FriendlyName"`
	Locale    string `json:"Locale"`
	Gender    string `json:"Gender"`
}

// TTS implements TTSEngine against the sidecar's /synthesize and /voices
// endpoints. The sidecar streams MP3 audio as it is produced.
type TTS struct {
	baseURL      string
	defaultVoice string
}

func (t *TTS) Synthesize(ctx context.Context, req engine.SynthesisRequest) (io.ReadCloser, error) {
	voice := req.Voice
	if voice == "" {
		voice = t.defaultVoice
	}

	body := synthesizeRequest{
		Text:   req.Text,
		Voice:  voice,
		Rate:   req.Rate,
		Pitch:  req.Pitch,
		Volume: req.Volume,
	}

	headers := map[string]string{"Content-Type": "application/json"}
	stream, err := restutil.DoRaw(ctx, http.MethodPost, t.baseURL+"/synthesize", headers, restutil.JSONBody(body))
	if err != nil {
		return nil, fmt.Errorf("edge synthesize: %w", err)
	}
	return stream, nil
}

func (t *TTS) Voices(ctx context.Context) ([]engine.Voice, error) {
	var entries []voiceEntry
	err := restutil.DoJSON(ctx, http.MethodGet, t.baseURL+"/voices", nil, nil, &entries)
	if err != nil {
		return nil, fmt.Errorf("edge voices: %w", err)
	}

	voices := make([]engine.Voice, 0, len(entries))
	for _, e := range entries {
		voices = append(voices, engine.Voice{
			ID:     e.ShortName,
			Name:   e.Name,
			Locale: e.Locale,
			Gender: e.Gender,
		})
	}
	return voices, nil
}

func (t *TTS) Models() []engine.ModelInfo {
	return []engine.ModelInfo{
		{ID: "edge", DisplayName: "Microsoft Edge Neural", IsDefault: true},
	}
}

func (t *TTS) Close() error {
	return nil
}
