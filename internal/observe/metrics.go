// Package observe provides OpenTelemetry metrics for the voice service and
// HTTP middleware that records per-request latency. A Prometheus exporter
// bridge is available via [InitProvider] so metrics are scraped from the
// standard /metrics endpoint.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all service metrics.
const meterName = "github.com/sunflower9264/meow-voice"

// Metrics holds all metric instruments for the service. The underlying OTel
// types handle their own synchronisation.
type Metrics struct {
	// ClassifyDuration tracks frame classification latency. Use with
	// attribute.String("backend", ...).
	ClassifyDuration metric.Float64Histogram

	// SynthesizeDuration tracks TTS synthesis latency by backend.
	SynthesizeDuration metric.Float64Histogram

	// TranscribeDuration tracks ASR transcription latency by backend.
	TranscribeDuration metric.Float64Histogram

	// FramesProcessed counts classified frames. Use with
	// attribute.String("status", "ok"|"error").
	FramesProcessed metric.Int64Counter

	// SpeechEndings counts detected ends of speech across all sessions.
	SpeechEndings metric.Int64Counter

	// ActiveSessions tracks the number of live VAD sessions.
	ActiveSessions metric.Int64UpDownCounter

	// HTTPRequestDuration tracks HTTP request processing time. Use with
	// attribute.String("method", ...), attribute.String("path", ...).
	HTTPRequestDuration metric.Float64Histogram
}

// latencyBuckets defines histogram boundaries in seconds, sized for
// per-frame classification on the low end and synthesis on the high end.
var latencyBuckets = []float64{
	0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5,
}

// NewMetrics creates a fully initialised [Metrics] using the given provider.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.ClassifyDuration, err = m.Float64Histogram("meowvoice.classify.duration",
		metric.WithDescription("Latency of single-frame voice classification."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.SynthesizeDuration, err = m.Float64Histogram("meowvoice.synthesize.duration",
		metric.WithDescription("Latency of speech synthesis."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.TranscribeDuration, err = m.Float64Histogram("meowvoice.transcribe.duration",
		metric.WithDescription("Latency of speech transcription."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	if met.FramesProcessed, err = m.Int64Counter("meowvoice.frames.processed",
		metric.WithDescription("Total classified frames by status."),
	); err != nil {
		return nil, err
	}
	if met.SpeechEndings, err = m.Int64Counter("meowvoice.speech.endings",
		metric.WithDescription("Total detected ends of speech."),
	); err != nil {
		return nil, err
	}

	if met.ActiveSessions, err = m.Int64UpDownCounter("meowvoice.active_sessions",
		metric.WithDescription("Number of live VAD sessions."),
	); err != nil {
		return nil, err
	}

	if met.HTTPRequestDuration, err = m.Float64Histogram("meowvoice.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics], creating it on first
// call from the global meter provider. Tests should use [NewMetrics] with
// their own provider instead.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordFrame records one classified frame with its outcome status.
func (m *Metrics) RecordFrame(ctx context.Context, backend, status string, seconds float64) {
	attrs := metric.WithAttributes(
		attribute.String("backend", backend),
		attribute.String("status", status),
	)
	m.ClassifyDuration.Record(ctx, seconds, attrs)
	m.FramesProcessed.Add(ctx, 1, attrs)
}
