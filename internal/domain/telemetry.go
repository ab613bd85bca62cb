package domain

import "time"

// FocusSession is one continuous interval during which the host window held
// input focus. Sessions shorter than the reporting floor are discarded, not
// recorded.
type FocusSession struct {
	StartedAt         time.Time
	EndedAt           time.Time
	InterruptionCount int
}

// Duration is the closed session length.
func (s FocusSession) Duration() time.Duration {
	return s.EndedAt.Sub(s.StartedAt)
}

// KeystrokeBurst is the accumulated edit volume for one file since the last
// inactivity reset. The count never decreases within a window.
type KeystrokeBurst struct {
	FileID       string
	ChangedChars int
	WindowStart  time.Time
}

// BuildEvent is a single classified outcome of a finished host task or a
// diagnostic batch that crossed a non-zero threshold.
type BuildEvent struct {
	Kind         TaskKind
	Result       TaskResult
	ErrorCount   *int
	WarningCount *int
}

// TestRunResult holds best-effort counts extracted from test task output.
type TestRunResult struct {
	Passed  int
	Failed  int
	Skipped int
}

// DebugPhase marks a point in a host debug session's lifecycle.
type DebugPhase string

const (
	DebugPhaseStart      DebugPhase = "start"
	DebugPhaseStop       DebugPhase = "stop"
	DebugPhaseBreakpoint DebugPhase = "breakpoint"
)

// DebugSessionEvent is a thin pass-through record of a debug lifecycle point.
type DebugSessionEvent struct {
	SessionID string
	Phase     DebugPhase
}
