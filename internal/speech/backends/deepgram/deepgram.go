// Package deepgram transcribes audio through the Deepgram REST API.
package deepgram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sunflower9264/meow-voice/internal/speech/backends/restutil"
	"github.com/sunflower9264/meow-voice/internal/speech/engine"
	"github.com/sunflower9264/meow-voice/internal/speech/registry"
)

func init() {
	registry.ASR.Register("deepgram", func(config map[string]string) (engine.ASREngine, error) {
		apiKey := config["deepgram_api_key"]
		if apiKey == "" {
			apiKey = config["api_key"]
		}
		if apiKey == "" {
			return nil, fmt.Errorf("deepgram API key required (set deepgram_api_key in config)")
		}
		model := config["model"]
		if model == "" {
			model = "nova-2"
		}
		return &ASR{apiKey: apiKey, model: model}, nil
	})
}

type listenResponse struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string `json:"transcript"`
			} `json:"alternatives"`
			DetectedLanguage string `json:"detected_language"`
		} `json:"channels"`
	} `json:"results"`
}

// contentTypes maps the wire formats we accept to Deepgram content types.
var contentTypes = map[string]string{
	"pcm": "audio/l16;rate=16000;channels=1",
	"wav": "audio/wav",
	"mp3": "audio/mpeg",
	"ogg": "audio/ogg",
}

// ASR implements ASREngine using the Deepgram pre-recorded listen API.
type ASR struct {
	apiKey string
	model  string
}

func (d *ASR) Transcribe(ctx context.Context, audio []byte, format, language string) (engine.Transcription, error) {
	if len(audio) == 0 {
		return engine.Transcription{}, fmt.Errorf("%w: empty audio", engine.ErrInvalidAudio)
	}

	contentType, ok := contentTypes[format]
	if !ok {
		return engine.Transcription{}, fmt.Errorf("%w: unsupported format %q", engine.ErrInvalidAudio, format)
	}

	params := url.Values{}
	params.Set("model", d.model)
	if language != "" {
		params.Set("language", language)
	} else {
		params.Set("detect_language", "true")
	}
	apiURL := "https://api.deepgram.com/v1/listen?" + params.Encode()

	headers := map[string]string{
		"Authorization": "Token " + d.apiKey,
		"Content-Type":  contentType,
	}

	body, err := restutil.DoRaw(ctx, http.MethodPost, apiURL, headers, bytes.NewReader(audio))
	if err != nil {
		return engine.Transcription{}, fmt.Errorf("deepgram listen: %w", err)
	}
	defer body.Close()

	var resp listenResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return engine.Transcription{}, fmt.Errorf("deepgram decode: %w", err)
	}

	if len(resp.Results.Channels) == 0 || len(resp.Results.Channels[0].Alternatives) == 0 {
		return engine.Transcription{Language: language}, nil
	}

	channel := resp.Results.Channels[0]
	lang := language
	if channel.DetectedLanguage != "" {
		lang = channel.DetectedLanguage
	}
	return engine.Transcription{
		Text:     channel.Alternatives[0].Transcript,
		Language: lang,
	}, nil
}

func (d *ASR) Models() []engine.ModelInfo {
	return []engine.ModelInfo{
		{ID: "nova-2", DisplayName: "Nova 2", IsDefault: true},
		{ID: "nova-2-general", DisplayName: "Nova 2 General"},
		{ID: "nova-2-meeting", DisplayName: "Nova 2 Meeting"},
		{ID: "nova-2-phonecall", DisplayName: "Nova 2 Phone Call"},
		{ID: "enhanced", DisplayName: "Enhanced"},
		{ID: "base", DisplayName: "Base"},
	}
}

func (d *ASR) Close() error {
	return nil
}
