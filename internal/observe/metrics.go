// Package observe holds the relay's OpenTelemetry instruments and the
// Prometheus bridge that exposes them on /metrics.
package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/Vovarama1992/saga_tts"

// Metrics holds every instrument the relay records. Safe for concurrent use.
// The Record helpers accept a nil receiver so callers can run without metrics.
type Metrics struct {
	// SynthDuration tracks provider synthesis latency, attribute "provider".
	SynthDuration metric.Float64Histogram

	// StorageDuration tracks audio upload latency.
	StorageDuration metric.Float64Histogram

	// Requests counts /tts outcomes, attribute "outcome"
	// (ok, skipped, missing_field, synthesis_failed, storage_failed, ...).
	Requests metric.Int64Counter

	// Assignments counts new registry entries, attributes "mode" and "reserved".
	Assignments metric.Int64Counter

	// AudioBytes counts synthesized bytes, attribute "provider".
	AudioBytes metric.Int64Counter

	// HTTPRequestDuration tracks handler latency, attributes "method", "route", "status".
	HTTPRequestDuration metric.Float64Histogram
}

// latencyBuckets in seconds; provider calls usually land between 0.5s and 10s.
var latencyBuckets = []float64{
	0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8, 15, 30, 60,
}

func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.SynthDuration, err = m.Float64Histogram("saga_tts.synth.duration",
		metric.WithDescription("Latency of text-to-speech synthesis."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.StorageDuration, err = m.Float64Histogram("saga_tts.storage.duration",
		metric.WithDescription("Latency of audio uploads."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.Requests, err = m.Int64Counter("saga_tts.requests",
		metric.WithDescription("Speech requests by outcome."),
	); err != nil {
		return nil, err
	}
	if met.Assignments, err = m.Int64Counter("saga_tts.voice.assignments",
		metric.WithDescription("Voices assigned to characters seen for the first time."),
	); err != nil {
		return nil, err
	}
	if met.AudioBytes, err = m.Int64Counter("saga_tts.audio.bytes",
		metric.WithDescription("Bytes of audio returned by the provider."),
		metric.WithUnit("By"),
	); err != nil {
		return nil, err
	}
	if met.HTTPRequestDuration, err = m.Float64Histogram("saga_tts.http.request.duration",
		metric.WithDescription("HTTP request latency by method, route and status."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

func (m *Metrics) RecordSynth(ctx context.Context, provider string, took time.Duration, size int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("provider", provider))
	m.SynthDuration.Record(ctx, took.Seconds(), attrs)
	if size > 0 {
		m.AudioBytes.Add(ctx, int64(size), attrs)
	}
}

func (m *Metrics) RecordStorage(ctx context.Context, took time.Duration) {
	if m == nil {
		return
	}
	m.StorageDuration.Record(ctx, took.Seconds())
}

func (m *Metrics) RecordRequest(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.Requests.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (m *Metrics) RecordAssignment(ctx context.Context, mode string, reserved bool) {
	if m == nil {
		return
	}
	m.Assignments.Add(ctx, 1, metric.WithAttributes(
		attribute.String("mode", mode),
		attribute.Bool("reserved", reserved),
	))
}
