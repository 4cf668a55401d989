// Package funasr transcribes audio through a FunASR inference sidecar.
package funasr

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/sunflower9264/meow-voice/internal/speech/backends/restutil"
	"github.com/sunflower9264/meow-voice/internal/speech/engine"
	"github.com/sunflower9264/meow-voice/internal/speech/registry"
)

func init() {
	registry.ASR.Register("funasr", func(config map[string]string) (engine.ASREngine, error) {
		base := config["funasr_url"]
		if base == "" {
			base = config["url"]
		}
		if base == "" {
			return nil, fmt.Errorf("funasr inference URL required (set funasr_url in config)")
		}
		model := config["model"]
		if model == "" {
			model = "paraformer-zh"
		}
		return &ASR{baseURL: base, model: model}, nil
	})
}

type transcribeRequest struct {
	AudioData string `json:"audio_data"`
	Format    string `json:"format"`
	Language  string `json:"language"`
	Model     string `json:"model"`
}

type transcribeResponse struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// ASR implements ASREngine against the sidecar's /transcribe endpoint.
type ASR struct {
	baseURL string
	model   string
}

func (a *ASR) Transcribe(ctx context.Context, audio []byte, format, language string) (engine.Transcription, error) {
	if len(audio) == 0 {
		return engine.Transcription{}, fmt.Errorf("%w: empty audio", engine.ErrInvalidAudio)
	}

	req := transcribeRequest{
		AudioData: base64.StdEncoding.EncodeToString(audio),
		Format:    format,
		Language:  language,
		Model:     a.model,
	}

	var resp transcribeResponse
	err := restutil.DoJSON(ctx, http.MethodPost, a.baseURL+"/transcribe", nil, req, &resp)
	if err != nil {
		return engine.Transcription{}, fmt.Errorf("funasr transcribe: %w", err)
	}

	lang := resp.Language
	if lang == "" {
		lang = language
	}
	return engine.Transcription{Text: resp.Text, Language: lang}, nil
}

func (a *ASR) Models() []engine.ModelInfo {
	return []engine.ModelInfo{
		{ID: "paraformer-zh", DisplayName: "Paraformer (Chinese)", IsDefault: true},
		{ID: "paraformer-en", DisplayName: "Paraformer (English)"},
		{ID: "sensevoice-small", DisplayName: "SenseVoice Small"},
	}
}

func (a *ASR) Close() error {
	return nil
}
