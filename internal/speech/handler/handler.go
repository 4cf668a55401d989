// Package handler exposes the speech service over JSON HTTP.
package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/pitabwire/util"
	"github.com/rs/xid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"github.com/sunflower9264/meow-voice/internal/observe"
	"github.com/sunflower9264/meow-voice/internal/speech/engine"
	"github.com/sunflower9264/meow-voice/internal/speech/models"
	"github.com/sunflower9264/meow-voice/internal/speech/vad"
	"github.com/sunflower9264/meow-voice/pkg/events"
)

const (
	maxRequestBodySize = 8 << 20 // 8 MiB, enough for ~4 minutes of 16kHz PCM
	defaultSampleRate  = 16000
)

// Emitter publishes session lifecycle events. [events.Publisher]
// satisfies it.
type Emitter interface {
	Emit(ctx context.Context, eventType events.EventType, sessionID string, data any) error
}

// Config wires the handler's collaborators.
type Config struct {
	Classifier        engine.Classifier
	ClassifierBackend string

	ASR        engine.ASREngine
	ASRBackend string

	// TTS maps backend name to engine. DefaultTTS selects which one serves
	// synthesis requests; voice listing fans out across all of them.
	TTS        map[string]engine.TTSEngine
	DefaultTTS string

	Publisher Emitter
	Metrics   *observe.Metrics
	Models    *models.Checker

	VAD vad.Config
}

// Handler serves the voice endpoints.
type Handler struct {
	cfg   Config
	store *vad.Store
}

// NewHandler creates the handler and its session store.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		cfg:   cfg,
		store: vad.NewStore(cfg.Classifier, cfg.VAD),
	}
}

// RegisterRoutes registers all voice API routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /vad", h.DetectVoice)
	mux.HandleFunc("POST /vad/session/start", h.SessionStart)
	mux.HandleFunc("POST /vad/session/process", h.SessionProcess)
	mux.HandleFunc("POST /vad/session/end", h.SessionEnd)
	mux.HandleFunc("POST /asr", h.Transcribe)
	mux.HandleFunc("POST /tts", h.Synthesize)
	mux.HandleFunc("POST /tts/stream", h.SynthesizeStream)
	mux.HandleFunc("GET /tts/voices", h.ListVoices)
	mux.HandleFunc("GET /health", h.Health)
}

// Shutdown drops all live sessions and closes the engines.
func (h *Handler) Shutdown() {
	h.store.Shutdown()
	if h.cfg.Classifier != nil {
		h.cfg.Classifier.Close()
	}
	if h.cfg.ASR != nil {
		h.cfg.ASR.Close()
	}
	for _, t := range h.cfg.TTS {
		t.Close()
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeEngineError maps engine sentinels onto HTTP statuses.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrInvalidAudio):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, engine.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, engine.ErrModelUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, engine.ErrClassifierFailure):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dest any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func decodeAudio(w http.ResponseWriter, data string) ([]byte, bool) {
	if data == "" {
		writeError(w, http.StatusBadRequest, "audio_data is required")
		return nil, false
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, "audio_data is not valid base64")
		return nil, false
	}
	return raw, true
}

// orDefault32 treats zero as "not supplied". Thresholds of exactly 0 would
// mark every frame voiced, so no caller loses anything to the convention.
func orDefault32(v, def float32) float32 {
	if v == 0 {
		return def
	}
	return v
}

func orDefaultInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

// DetectVoice handles POST /vad
func (h *Handler) DetectVoice(w http.ResponseWriter, r *http.Request) {
	var req DetectRequest
	if !decodeBody(w, r, &req) {
		return
	}
	frame, ok := decodeAudio(w, req.AudioData)
	if !ok {
		return
	}

	threshold := orDefault32(req.Threshold, vad.DefaultThreshold)
	sampleRate := orDefaultInt(req.SampleRate, defaultSampleRate)

	start := time.Now()
	hasVoice, prob, err := vad.Detect(r.Context(), h.cfg.Classifier, frame, sampleRate, threshold)
	if err != nil {
		h.cfg.Metrics.RecordFrame(r.Context(), h.cfg.ClassifierBackend, "error", time.Since(start).Seconds())
		writeEngineError(w, err)
		return
	}
	h.cfg.Metrics.RecordFrame(r.Context(), h.cfg.ClassifierBackend, "ok", time.Since(start).Seconds())

	writeJSON(w, http.StatusOK, DetectResponse{HasVoice: hasVoice, Probability: prob})
}

// emit publishes a lifecycle event. Delivery is best effort: a queue
// failure is logged and never fails the request that produced it.
func (h *Handler) emit(ctx context.Context, eventType events.EventType, sessionID string, data any) {
	if err := h.cfg.Publisher.Emit(ctx, eventType, sessionID, data); err != nil {
		util.Log(ctx).WithError(err).Error("publish voice event")
	}
}

// SessionStart handles POST /vad/session/start
func (h *Handler) SessionStart(w http.ResponseWriter, r *http.Request) {
	var req SessionStartRequest
	if !decodeBody(w, r, &req) {
		return
	}

	id := req.SessionID
	if id == "" {
		id = xid.New().String()
	}

	replaced := h.store.Start(id)
	if !replaced {
		h.cfg.Metrics.ActiveSessions.Add(r.Context(), 1)
	}

	h.emit(r.Context(), events.SessionStarted, id, events.SessionStartedData{
		SampleRate: orDefaultInt(req.SampleRate, defaultSampleRate),
	})

	writeJSON(w, http.StatusOK, SessionStartResponse{SessionID: id})
}

// SessionProcess handles POST /vad/session/process
func (h *Handler) SessionProcess(w http.ResponseWriter, r *http.Request) {
	var req SessionProcessRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}
	frame, ok := decodeAudio(w, req.AudioData)
	if !ok {
		return
	}

	threshold := orDefault32(req.Threshold, vad.DefaultThreshold)
	thresholdLow := orDefault32(req.ThresholdLow, vad.DefaultThresholdLow)
	sampleRate := orDefaultInt(req.SampleRate, defaultSampleRate)

	start := time.Now()
	ev, err := h.store.Process(r.Context(), req.SessionID, frame, sampleRate, threshold, thresholdLow)
	if err != nil {
		h.cfg.Metrics.RecordFrame(r.Context(), h.cfg.ClassifierBackend, "error", time.Since(start).Seconds())
		writeEngineError(w, err)
		return
	}
	h.cfg.Metrics.RecordFrame(r.Context(), h.cfg.ClassifierBackend, "ok", time.Since(start).Seconds())

	if ev.VoiceStarted {
		h.emit(r.Context(), events.VoiceStarted, req.SessionID, events.VoiceStartedData{
			Probability: ev.Probability,
		})
	}
	if ev.SpeechEnded {
		h.cfg.Metrics.SpeechEndings.Add(r.Context(), 1)
		h.emit(r.Context(), events.VoiceEnded, req.SessionID, events.VoiceEndedData{
			SilentFrames: h.cfg.VAD.SilenceEndFrames,
		})
	}

	writeJSON(w, http.StatusOK, SessionProcessResponse{
		Probability:    ev.Probability,
		VoiceConfirmed: ev.VoiceConfirmed,
		SpeechEnded:    ev.SpeechEnded,
		SessionActive:  true,
	})
}

// SessionEnd handles POST /vad/session/end
func (h *Handler) SessionEnd(w http.ResponseWriter, r *http.Request) {
	var req SessionEndRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	hadVoice, found := h.store.End(req.SessionID)
	if found {
		h.cfg.Metrics.ActiveSessions.Add(r.Context(), -1)
		h.emit(r.Context(), events.SessionEnded, req.SessionID, events.SessionEndedData{
			HadVoice: hadVoice,
		})
	}

	writeJSON(w, http.StatusOK, SessionEndResponse{HadVoice: hadVoice, Found: found})
}

// Transcribe handles POST /asr
func (h *Handler) Transcribe(w http.ResponseWriter, r *http.Request) {
	var req TranscribeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	audio, ok := decodeAudio(w, req.AudioData)
	if !ok {
		return
	}

	format := req.Format
	if format == "" {
		format = "wav"
	}

	start := time.Now()
	result, err := h.cfg.ASR.Transcribe(r.Context(), audio, format, req.Language)
	h.cfg.Metrics.TranscribeDuration.Record(r.Context(), time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("backend", h.cfg.ASRBackend)))
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, TranscribeResponse{Text: result.Text, Language: result.Language})
}

func (h *Handler) synthesize(w http.ResponseWriter, r *http.Request, streaming bool) {
	var req SynthesizeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	tts, ok := h.cfg.TTS[h.cfg.DefaultTTS]
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "no TTS backend configured")
		return
	}

	start := time.Now()
	stream, err := tts.Synthesize(r.Context(), engine.SynthesisRequest{
		Text:   req.Text,
		Voice:  req.Voice,
		Rate:   req.Rate,
		Pitch:  req.Pitch,
		Volume: req.Volume,
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	defer stream.Close()

	w.Header().Set("Content-Type", "audio/mpeg")

	if !streaming {
		io.Copy(w, stream)
		h.recordSynthesis(r, start)
		return
	}

	flusher, _ := w.(http.Flusher)
	buf := make([]byte, 32<<10)
	for {
		n, readErr := stream.Read(buf)
		if n > 0 {
			if _, writeErr := w.Write(buf[:n]); writeErr != nil {
				break
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
		if readErr != nil {
			break
		}
	}
	h.recordSynthesis(r, start)
}

func (h *Handler) recordSynthesis(r *http.Request, start time.Time) {
	h.cfg.Metrics.SynthesizeDuration.Record(r.Context(), time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("backend", h.cfg.DefaultTTS)))
}

// Synthesize handles POST /tts, returning the full audio in one response.
func (h *Handler) Synthesize(w http.ResponseWriter, r *http.Request) {
	h.synthesize(w, r, false)
}

// SynthesizeStream handles POST /tts/stream, flushing audio chunks as the
// backend produces them.
func (h *Handler) SynthesizeStream(w http.ResponseWriter, r *http.Request) {
	h.synthesize(w, r, true)
}

// ListVoices handles GET /tts/voices, querying every configured backend
// concurrently. Any backend failure fails the whole request: a silently
// truncated catalog is worse than an error the caller can retry.
func (h *Handler) ListVoices(w http.ResponseWriter, r *http.Request) {
	g, ctx := errgroup.WithContext(r.Context())

	type backendVoices struct {
		backend string
		voices  []engine.Voice
	}
	results := make([]backendVoices, 0, len(h.cfg.TTS))
	idx := 0
	for name, tts := range h.cfg.TTS {
		results = append(results, backendVoices{backend: name})
		slot := &results[idx]
		idx++
		eng := tts
		g.Go(func() error {
			voices, err := eng.Voices(ctx)
			if err != nil {
				return err
			}
			slot.voices = voices
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		writeError(w, http.StatusBadGateway, "voice listing failed: "+err.Error())
		return
	}

	resp := VoicesResponse{Voices: []VoiceInfo{}}
	for _, bv := range results {
		for _, v := range bv.voices {
			resp.Voices = append(resp.Voices, VoiceInfo{
				Backend: bv.backend,
				ID:      v.ID,
				Name:    v.Name,
				Locale:  v.Locale,
				Gender:  v.Gender,
			})
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
