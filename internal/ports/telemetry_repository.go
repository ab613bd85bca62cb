package ports

import (
	"context"
	"time"

	"github.com/emiliopalmerini/codepulse/internal/domain"
)

// FocusSummary aggregates recorded focus sessions over a period.
type FocusSummary struct {
	SessionCount       int64 `json:"session_count"`
	TotalDurationMs    int64 `json:"total_duration_ms"`
	TotalInterruptions int64 `json:"total_interruptions"`
}

// BuildSummary aggregates recorded build events over a period.
type BuildSummary struct {
	SuccessCount int64 `json:"success_count"`
	FailureCount int64 `json:"failure_count"`
	ErrorTotal   int64 `json:"error_total"`
	WarningTotal int64 `json:"warning_total"`
}

// KeystrokeSummary aggregates recorded edit events over a period.
type KeystrokeSummary struct {
	EditCount    int64 `json:"edit_count"`
	ChangedChars int64 `json:"changed_chars"`
	FileCount    int64 `json:"file_count"`
}

// TestSummary aggregates recorded test runs over a period.
type TestSummary struct {
	RunCount int64 `json:"run_count"`
	Passed   int64 `json:"passed"`
	Failed   int64 `json:"failed"`
	Skipped  int64 `json:"skipped"`
}

// TelemetryRepository persists and aggregates telemetry records.
type TelemetryRepository interface {
	InsertFocusSession(ctx context.Context, durationMs int64, interruptionCount int) error
	InsertKeystroke(ctx context.Context, fileID string, changedChars int) error
	InsertBuildEvent(ctx context.Context, result domain.TaskResult, errorCount, warningCount *int) error
	InsertTestRun(ctx context.Context, passed, failed, skipped int) error
	InsertDebugEvent(ctx context.Context, sessionID string, phase domain.DebugPhase) error

	FocusSummary(ctx context.Context, since time.Time) (*FocusSummary, error)
	BuildSummary(ctx context.Context, since time.Time) (*BuildSummary, error)
	KeystrokeSummary(ctx context.Context, since time.Time) (*KeystrokeSummary, error)
	TestSummary(ctx context.Context, since time.Time) (*TestSummary, error)
}
