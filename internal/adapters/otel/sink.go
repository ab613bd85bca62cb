package otel

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/emiliopalmerini/codepulse/internal/domain"
)

const (
	serviceName    = "codepulse"
	serviceVersion = "1.0.0"
)

// Sink exports telemetry records as OTLP metrics to a collector.
type Sink struct {
	provider *sdkmetric.MeterProvider

	focusSeconds  metric.Float64Histogram
	interruptions metric.Int64Counter
	keystrokes    metric.Int64Counter
	buildEvents   metric.Int64Counter
	diagnostics   metric.Int64Counter
	testOutcomes  metric.Int64Counter
	debugEvents   metric.Int64Counter
}

// NewSink creates an OTLP metrics sink.
func NewSink(ctx context.Context, cfg Config) (*Sink, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return nil, fmt.Errorf("OTEL exporter is disabled or endpoint not configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	focusSeconds, err := meter.Float64Histogram(
		"codepulse_focus_session_seconds",
		metric.WithDescription("Duration of completed focus sessions"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating focus histogram: %w", err)
	}

	interruptions, err := meter.Int64Counter(
		"codepulse_focus_interruptions_total",
		metric.WithDescription("Editor switches during focus sessions"),
		metric.WithUnit("{interruption}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating interruptions counter: %w", err)
	}

	keystrokes, err := meter.Int64Counter(
		"codepulse_keystroke_chars_total",
		metric.WithDescription("Changed characters across all edit events"),
		metric.WithUnit("{char}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating keystrokes counter: %w", err)
	}

	buildEvents, err := meter.Int64Counter(
		"codepulse_build_events_total",
		metric.WithDescription("Classified build/test task outcomes"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating build events counter: %w", err)
	}

	diagnostics, err := meter.Int64Counter(
		"codepulse_diagnostics_total",
		metric.WithDescription("Diagnostic entries reported by failure build events"),
		metric.WithUnit("{diagnostic}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating diagnostics counter: %w", err)
	}

	testOutcomes, err := meter.Int64Counter(
		"codepulse_test_outcomes_total",
		metric.WithDescription("Test case outcomes extracted from task output"),
		metric.WithUnit("{test}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating test outcomes counter: %w", err)
	}

	debugEvents, err := meter.Int64Counter(
		"codepulse_debug_events_total",
		metric.WithDescription("Debug session lifecycle events"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating debug events counter: %w", err)
	}

	return &Sink{
		provider:      provider,
		focusSeconds:  focusSeconds,
		interruptions: interruptions,
		keystrokes:    keystrokes,
		buildEvents:   buildEvents,
		diagnostics:   diagnostics,
		testOutcomes:  testOutcomes,
		debugEvents:   debugEvents,
	}, nil
}

func (s *Sink) RecordDebugSession(sessionID string, phase domain.DebugPhase) {
	s.debugEvents.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("phase", string(phase))))
}

func (s *Sink) RecordBuildEvent(result domain.TaskResult, errorCount, warningCount *int) {
	ctx := context.Background()
	s.buildEvents.Add(ctx, 1,
		metric.WithAttributes(attribute.String("result", string(result))))
	if errorCount != nil {
		s.diagnostics.Add(ctx, int64(*errorCount),
			metric.WithAttributes(attribute.String("severity", "error")))
	}
	if warningCount != nil {
		s.diagnostics.Add(ctx, int64(*warningCount),
			metric.WithAttributes(attribute.String("severity", "warning")))
	}
}

func (s *Sink) RecordTestRun(passed, failed, skipped int) {
	ctx := context.Background()
	s.testOutcomes.Add(ctx, int64(passed),
		metric.WithAttributes(attribute.String("outcome", "passed")))
	s.testOutcomes.Add(ctx, int64(failed),
		metric.WithAttributes(attribute.String("outcome", "failed")))
	s.testOutcomes.Add(ctx, int64(skipped),
		metric.WithAttributes(attribute.String("outcome", "skipped")))
}

// RecordKeystroke counts changed characters only. The file identifier is
// deliberately not an attribute: per-file label cardinality is unbounded.
func (s *Sink) RecordKeystroke(fileID string, changedChars int) {
	s.keystrokes.Add(context.Background(), int64(changedChars))
}

func (s *Sink) RecordFocusTime(duration time.Duration, interruptionCount int) {
	ctx := context.Background()
	s.focusSeconds.Record(ctx, duration.Seconds())
	s.interruptions.Add(ctx, int64(interruptionCount))
}

// Close shuts down the exporter and flushes any pending metrics.
func (s *Sink) Close(ctx context.Context) error {
	return s.provider.Shutdown(ctx)
}
