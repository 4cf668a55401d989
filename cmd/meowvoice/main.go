package main

import (
	"context"
	"log"
	"net/http"

	"github.com/pitabwire/frame"
	frameconfig "github.com/pitabwire/frame/config"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	mvconfig "github.com/sunflower9264/meow-voice/config"
	"github.com/sunflower9264/meow-voice/internal/httputil"
	"github.com/sunflower9264/meow-voice/internal/observe"
	"github.com/sunflower9264/meow-voice/internal/speech/engine"
	speechhandler "github.com/sunflower9264/meow-voice/internal/speech/handler"
	"github.com/sunflower9264/meow-voice/internal/speech/models"
	"github.com/sunflower9264/meow-voice/internal/speech/registry"
	"github.com/sunflower9264/meow-voice/internal/speech/vad"
	"github.com/sunflower9264/meow-voice/pkg/events"

	// Register speech backends via init().
	_ "github.com/sunflower9264/meow-voice/internal/speech/backends/deepgram"
	_ "github.com/sunflower9264/meow-voice/internal/speech/backends/edge"
	_ "github.com/sunflower9264/meow-voice/internal/speech/backends/elevenlabs"
	_ "github.com/sunflower9264/meow-voice/internal/speech/backends/energy"
	_ "github.com/sunflower9264/meow-voice/internal/speech/backends/funasr"
	_ "github.com/sunflower9264/meow-voice/internal/speech/backends/openai"
	_ "github.com/sunflower9264/meow-voice/internal/speech/backends/silero"
)

func main() {
	ctx := context.Background()

	cfg, err := frameconfig.LoadWithOIDC[mvconfig.VoiceConfig](ctx)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	eventRef := cfg.GetEventsQueueName()
	eventURL := cfg.GetEventsQueueURL()

	ctx, srv := frame.NewService(
		frame.WithConfig(&cfg),
		frame.WithName("meow-voice"),
		frame.WithRegisterPublisher(eventRef, eventURL),
	)
	defer srv.Stop(ctx)

	shutdownMetrics, err := observe.InitProvider(ctx, observe.ProviderConfig{ServiceName: "meow-voice"})
	if err != nil {
		log.Fatalf("initialising metrics: %v", err)
	}
	defer shutdownMetrics(ctx)

	pool, err := srv.WorkManager().GetPool()
	if err != nil {
		log.Fatalf("getting worker pool: %v", err)
	}

	checker := models.NewChecker(cfg.ModelsDir)
	if err := checker.Reload(); err != nil {
		log.Printf("warning: loading model manifest: %v", err)
	}
	_ = pool.Submit(ctx, func() {
		if err := checker.Watch(ctx); err != nil {
			log.Printf("warning: model watcher stopped: %v", err)
		}
	})

	settings := cfg.BackendSettings()

	classifier, err := registry.VAD.Create(cfg.VADBackend, settings)
	if err != nil {
		log.Fatalf("creating VAD backend %q: %v", cfg.VADBackend, err)
	}
	classifier = engine.Guarded(classifier, func() bool {
		return checker.Available(cfg.VADBackend)
	})

	asr, err := registry.ASR.Create(cfg.ASRBackend, settings)
	if err != nil {
		log.Fatalf("creating ASR backend %q: %v", cfg.ASRBackend, err)
	}

	tts := make(map[string]engine.TTSEngine)
	for _, name := range ttsBackendNames(cfg) {
		t, err := registry.TTS.Create(name, settings)
		if err != nil {
			log.Fatalf("creating TTS backend %q: %v", name, err)
		}
		tts[name] = t
	}

	pub := events.NewPublisher(srv.QueueManager(), "meow-voice", eventRef)

	handler := speechhandler.NewHandler(speechhandler.Config{
		Classifier:        classifier,
		ClassifierBackend: cfg.VADBackend,
		ASR:               asr,
		ASRBackend:        cfg.ASRBackend,
		TTS:               tts,
		DefaultTTS:        cfg.TTSBackend,
		Publisher:         pub,
		Metrics:           observe.DefaultMetrics(),
		Models:            checker,
		VAD: vad.Config{
			WindowSize:       cfg.VADWindowSize,
			ConfirmFrames:    cfg.VADConfirmFrames,
			SilenceEndFrames: cfg.VADSilenceEndFrames,
		},
	})
	defer handler.Shutdown()

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	root := observe.Middleware(observe.DefaultMetrics())(mux)

	srv.Init(ctx, frame.WithHTTPHandler(httputil.H2CHandler(root)))

	if err := srv.Run(ctx, ""); err != nil {
		log.Fatalf("service exited: %v", err)
	}
}

func ttsBackendNames(cfg mvconfig.VoiceConfig) []string {
	names := []string{cfg.TTSBackend}
	for _, extra := range cfg.ExtraTTSBackends() {
		if extra != cfg.TTSBackend {
			names = append(names, extra)
		}
	}
	return names
}
