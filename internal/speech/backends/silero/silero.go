// Package silero classifies frames against a Silero VAD inference sidecar.
package silero

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
	registry.VAD.Register("silero", func(config map[string]string) (engine.Classifier, error) {
		base := config["silero_url"]
		if base == "" {
			base = config["url"]
		}
		if base == "" {
			return nil, fmt.Errorf("silero inference URL required (set silero_url in config)")
		}
		return &Classifier{baseURL: base}, nil
	})
}

type classifyRequest struct {
	AudioData  string `json:"audio_data"`
	SampleRate int    `json:"sample_rate"`
}

type classifyResponse struct {
	Probability float32 `json:"probability"`
}

// Classifier scores frames through the sidecar's /classify endpoint.
type Classifier struct {
	baseURL string
}

func (c *Classifier) Classify(ctx context.Context, frame []byte, sampleRate int) (float32, error) {
	// Reject malformed frames locally so the sidecar only ever sees
	// well-formed PCM.
	if _, err := engine.DecodePCM16(frame); err != nil {
		return 0, err
	}

	req := classifyRequest{
		AudioData:  base64.StdEncoding.EncodeToString(frame),
		SampleRate: sampleRate,
	}

	var resp classifyResponse
	err := restutil.DoJSON(ctx, http.MethodPost, c.baseURL+"/classify", nil, req, &resp)
	if err != nil {
		return 0, fmt.Errorf("silero classify: %w: %w", engine.ErrClassifierFailure, err)
	}
	return resp.Probability, nil
}

func (c *Classifier) Close() error {
	return nil
}
