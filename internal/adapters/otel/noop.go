package otel

import (
	"context"
	"time"

	"github.com/emiliopalmerini/codepulse/internal/domain"
)

// NoOpSink is a telemetry sink that does nothing, for graceful degradation
// when the exporter is disabled.
type NoOpSink struct{}

func NewNoOpSink() *NoOpSink { return &NoOpSink{} }

func (NoOpSink) RecordDebugSession(sessionID string, phase domain.DebugPhase)             {}
func (NoOpSink) RecordBuildEvent(result domain.TaskResult, errorCount, warningCount *int) {}
func (NoOpSink) RecordTestRun(passed, failed, skipped int)                                {}
func (NoOpSink) RecordKeystroke(fileID string, changedChars int)                          {}
func (NoOpSink) RecordFocusTime(duration time.Duration, interruptionCount int)            {}

func (NoOpSink) Close(ctx context.Context) error { return nil }
