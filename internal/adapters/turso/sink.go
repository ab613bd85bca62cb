package turso

import (
	"context"
	"fmt"
	"time"

	"github.com/emiliopalmerini/codepulse/internal/domain"
	"github.com/emiliopalmerini/codepulse/internal/ports"
)

// Sink persists telemetry records through the repository. Writes are
// fire-and-forget: a failing insert is logged and dropped so the
// event-dispatch path never observes it.
type Sink struct {
	repo   *TelemetryRepository
	logger ports.Logger
}

func NewSink(repo *TelemetryRepository, logger ports.Logger) *Sink {
	return &Sink{repo: repo, logger: logger}
}

func (s *Sink) RecordDebugSession(sessionID string, phase domain.DebugPhase) {
	if err := s.repo.InsertDebugEvent(context.Background(), sessionID, phase); err != nil {
		s.logger.Error(fmt.Sprintf("record debug session: %v", err))
	}
}

func (s *Sink) RecordBuildEvent(result domain.TaskResult, errorCount, warningCount *int) {
	if err := s.repo.InsertBuildEvent(context.Background(), result, errorCount, warningCount); err != nil {
		s.logger.Error(fmt.Sprintf("record build event: %v", err))
	}
}

func (s *Sink) RecordTestRun(passed, failed, skipped int) {
	if err := s.repo.InsertTestRun(context.Background(), passed, failed, skipped); err != nil {
		s.logger.Error(fmt.Sprintf("record test run: %v", err))
	}
}

func (s *Sink) RecordKeystroke(fileID string, changedChars int) {
	if err := s.repo.InsertKeystroke(context.Background(), fileID, changedChars); err != nil {
		s.logger.Error(fmt.Sprintf("record keystroke: %v", err))
	}
}

func (s *Sink) RecordFocusTime(duration time.Duration, interruptionCount int) {
	if err := s.repo.InsertFocusSession(context.Background(), duration.Milliseconds(), interruptionCount); err != nil {
		s.logger.Error(fmt.Sprintf("record focus time: %v", err))
	}
}
