package fanout

import (
	"time"

	"github.com/emiliopalmerini/codepulse/internal/domain"
	"github.com/emiliopalmerini/codepulse/internal/ports"
)

// Sink forwards every record to all wrapped sinks in order.
type Sink struct {
	sinks []ports.Sink
}

// New creates a fan-out sink. Nil entries are skipped.
func New(sinks ...ports.Sink) *Sink {
	kept := make([]ports.Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			kept = append(kept, s)
		}
	}
	return &Sink{sinks: kept}
}

func (f *Sink) RecordDebugSession(sessionID string, phase domain.DebugPhase) {
	for _, s := range f.sinks {
		s.RecordDebugSession(sessionID, phase)
	}
}

func (f *Sink) RecordBuildEvent(result domain.TaskResult, errorCount, warningCount *int) {
	for _, s := range f.sinks {
		s.RecordBuildEvent(result, errorCount, warningCount)
	}
}

func (f *Sink) RecordTestRun(passed, failed, skipped int) {
	for _, s := range f.sinks {
		s.RecordTestRun(passed, failed, skipped)
	}
}

func (f *Sink) RecordKeystroke(fileID string, changedChars int) {
	for _, s := range f.sinks {
		s.RecordKeystroke(fileID, changedChars)
	}
}

func (f *Sink) RecordFocusTime(duration time.Duration, interruptionCount int) {
	for _, s := range f.sinks {
		s.RecordFocusTime(duration, interruptionCount)
	}
}
