package ports

import (
	"time"

	"github.com/emiliopalmerini/codepulse/internal/domain"
)

// Sink receives derived telemetry records. Calls are one-way: implementations
// must not block the event-dispatch context and must absorb their own
// failures rather than propagate them to the caller.
type Sink interface {
	RecordDebugSession(sessionID string, phase domain.DebugPhase)
	RecordBuildEvent(result domain.TaskResult, errorCount, warningCount *int)
	RecordTestRun(passed, failed, skipped int)
	RecordKeystroke(fileID string, changedChars int)
	RecordFocusTime(duration time.Duration, interruptionCount int)
}
