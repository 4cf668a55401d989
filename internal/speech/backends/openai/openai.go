// Package openai provides ASR and TTS backends over the OpenAI API,
// including any OpenAI-compatible server reachable through base_url.
package openai

import (
	"bytes"
	"context"
	"fmt"
	"io"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/sunflower9264/meow-voice/internal/speech/engine"
	"github.com/sunflower9264/meow-voice/internal/speech/registry"
)

func init() {
	registry.ASR.Register("openai", func(config map[string]string) (engine.ASREngine, error) {
		client, err := newClient(config)
		if err != nil {
			return nil, err
		}
		model := config["model"]
		if model == "" {
			model = goopenai.Whisper1
		}
		return &ASR{client: client, model: model}, nil
	})

	registry.TTS.Register("openai", func(config map[string]string) (engine.TTSEngine, error) {
		client, err := newClient(config)
		if err != nil {
			return nil, err
		}
		model := config["model"]
		if model == "" {
			model = string(goopenai.TTSModel1)
		}
		return &TTS{client: client, model: model}, nil
	})
}

func newClient(config map[string]string) (*goopenai.Client, error) {
	apiKey := config["openai_api_key"]
	if apiKey == "" {
		apiKey = config["api_key"]
	}
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key required (set openai_api_key in config)")
	}

	cfg := goopenai.DefaultConfig(apiKey)
	baseURL := config["openai_base_url"]
	if baseURL == "" {
		baseURL = config["base_url"]
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return goopenai.NewClientWithConfig(cfg), nil
}

// ASR implements ASREngine using the transcriptions API.
type ASR struct {
	client *goopenai.Client
	model  string
}

func (o *ASR) Transcribe(ctx context.Context, audio []byte, format, language string) (engine.Transcription, error) {
	if len(audio) == 0 {
		return engine.Transcription{}, fmt.Errorf("%w: empty audio", engine.ErrInvalidAudio)
	}

	// The API wants a container format, so raw PCM gets a WAV header.
	reader, filename, err := wrapAudio(audio, format)
	if err != nil {
		return engine.Transcription{}, err
	}

	resp, err := o.client.CreateTranscription(ctx, goopenai.AudioRequest{
		Model:    o.model,
		Reader:   reader,
		FilePath: filename,
		Format:   goopenai.AudioResponseFormatVerboseJSON,
		Language: language,
	})
	if err != nil {
		return engine.Transcription{}, fmt.Errorf("openai transcription: %w", err)
	}

	lang := resp.Language
	if lang == "" {
		lang = language
	}
	return engine.Transcription{Text: resp.Text, Language: lang}, nil
}

func wrapAudio(audio []byte, format string) (io.Reader, string, error) {
	switch format {
	case "", "pcm":
		var buf bytes.Buffer
		if err := writeWAVHeader(&buf, len(audio)); err != nil {
			return nil, "", fmt.Errorf("write WAV header: %w", err)
		}
		buf.Write(audio)
		return &buf, "audio.wav", nil
	case "wav", "mp3", "ogg", "flac", "webm":
		return bytes.NewReader(audio), "audio." + format, nil
	default:
		return nil, "", fmt.Errorf("%w: unsupported format %q", engine.ErrInvalidAudio, format)
	}
}

func (o *ASR) Models() []engine.ModelInfo {
	return []engine.ModelInfo{
		{ID: goopenai.Whisper1, DisplayName: "Whisper 1", IsDefault: true},
	}
}

func (o *ASR) Close() error {
	return nil
}

// TTS implements TTSEngine using the speech API.
type TTS struct {
	client *goopenai.Client
	model  string
}

func (o *TTS) Synthesize(ctx context.Context, req engine.SynthesisRequest) (io.ReadCloser, error) {
	voice := req.Voice
	if voice == "" {
		voice = string(goopenai.VoiceAlloy)
	}

	speed, err := parseRate(req.Rate)
	if err != nil {
		return nil, err
	}

	resp, err := o.client.CreateSpeech(ctx, goopenai.CreateSpeechRequest{
		Model:          goopenai.SpeechModel(o.model),
		Input:          req.Text,
		Voice:          goopenai.SpeechVoice(voice),
		ResponseFormat: goopenai.SpeechResponseFormatMp3,
		Speed:          speed,
	})
	if err != nil {
		return nil, fmt.Errorf("openai speech: %w", err)
	}
	return resp, nil
}

func (o *TTS) Voices(_ context.Context) ([]engine.Voice, error) {
	return []engine.Voice{
		{ID: string(goopenai.VoiceAlloy), Name: "Alloy", Locale: "en-US"},
		{ID: string(goopenai.VoiceEcho), Name: "Echo", Locale: "en-US"},
		{ID: string(goopenai.VoiceFable), Name: "Fable", Locale: "en-US"},
		{ID: string(goopenai.VoiceOnyx), Name: "Onyx", Locale: "en-US"},
		{ID: string(goopenai.VoiceNova), Name: "Nova", Locale: "en-US"},
		{ID: string(goopenai.VoiceShimmer), Name: "Shimmer", Locale: "en-US"},
	}, nil
}

func (o *TTS) Models() []engine.ModelInfo {
	return []engine.ModelInfo{
		{ID: string(goopenai.TTSModel1), DisplayName: "TTS 1", IsDefault: true},
		{ID: string(goopenai.TTSModel1HD), DisplayName: "TTS 1 HD"},
	}
}

func (o *TTS) Close() error {
	return nil
}
