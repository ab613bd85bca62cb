package turso

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/emiliopalmerini/codepulse/internal/domain"
	"github.com/emiliopalmerini/codepulse/internal/ports"
)

// TelemetryRepository persists telemetry records. Every row is tagged with
// the source ID of the process that recorded it so rows from the daemon and
// from offline replays stay distinguishable.
type TelemetryRepository struct {
	db       *sql.DB
	sourceID string
}

func NewTelemetryRepository(db *sql.DB, sourceID string) *TelemetryRepository {
	return &TelemetryRepository{db: db, sourceID: sourceID}
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func (r *TelemetryRepository) InsertFocusSession(ctx context.Context, durationMs int64, interruptionCount int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO focus_sessions (source_id, duration_ms, interruption_count, recorded_at)
		VALUES (?, ?, ?, ?)
	`, r.sourceID, durationMs, interruptionCount, timestamp())
	if err != nil {
		return fmt.Errorf("failed to insert focus session: %w", err)
	}
	return nil
}

func (r *TelemetryRepository) InsertKeystroke(ctx context.Context, fileID string, changedChars int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO keystrokes (source_id, file_id, changed_chars, recorded_at)
		VALUES (?, ?, ?, ?)
	`, r.sourceID, fileID, changedChars, timestamp())
	if err != nil {
		return fmt.Errorf("failed to insert keystroke: %w", err)
	}
	return nil
}

func (r *TelemetryRepository) InsertBuildEvent(ctx context.Context, result domain.TaskResult, errorCount, warningCount *int) error {
	var errs, warns sql.NullInt64
	if errorCount != nil {
		errs = sql.NullInt64{Int64: int64(*errorCount), Valid: true}
	}
	if warningCount != nil {
		warns = sql.NullInt64{Int64: int64(*warningCount), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO build_events (source_id, result, error_count, warning_count, recorded_at)
		VALUES (?, ?, ?, ?, ?)
	`, r.sourceID, string(result), errs, warns, timestamp())
	if err != nil {
		return fmt.Errorf("failed to insert build event: %w", err)
	}
	return nil
}

func (r *TelemetryRepository) InsertTestRun(ctx context.Context, passed, failed, skipped int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO test_runs (source_id, passed, failed, skipped, recorded_at)
		VALUES (?, ?, ?, ?, ?)
	`, r.sourceID, passed, failed, skipped, timestamp())
	if err != nil {
		return fmt.Errorf("failed to insert test run: %w", err)
	}
	return nil
}

func (r *TelemetryRepository) InsertDebugEvent(ctx context.Context, sessionID string, phase domain.DebugPhase) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO debug_events (source_id, session_id, phase, recorded_at)
		VALUES (?, ?, ?, ?)
	`, r.sourceID, sessionID, string(phase), timestamp())
	if err != nil {
		return fmt.Errorf("failed to insert debug event: %w", err)
	}
	return nil
}

func (r *TelemetryRepository) FocusSummary(ctx context.Context, since time.Time) (*ports.FocusSummary, error) {
	var s ports.FocusSummary
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(duration_ms), 0),
		       COALESCE(SUM(interruption_count), 0)
		FROM focus_sessions
		WHERE recorded_at >= ?
	`, since.UTC().Format(time.RFC3339)).Scan(&s.SessionCount, &s.TotalDurationMs, &s.TotalInterruptions)
	if err != nil {
		return nil, fmt.Errorf("failed to query focus summary: %w", err)
	}
	return &s, nil
}

func (r *TelemetryRepository) BuildSummary(ctx context.Context, since time.Time) (*ports.BuildSummary, error) {
	var s ports.BuildSummary
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(CASE WHEN result = 'success' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN result = 'failure' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(COALESCE(error_count, 0)), 0),
		       COALESCE(SUM(COALESCE(warning_count, 0)), 0)
		FROM build_events
		WHERE recorded_at >= ?
	`, since.UTC().Format(time.RFC3339)).Scan(&s.SuccessCount, &s.FailureCount, &s.ErrorTotal, &s.WarningTotal)
	if err != nil {
		return nil, fmt.Errorf("failed to query build summary: %w", err)
	}
	return &s, nil
}

func (r *TelemetryRepository) KeystrokeSummary(ctx context.Context, since time.Time) (*ports.KeystrokeSummary, error) {
	var s ports.KeystrokeSummary
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(changed_chars), 0),
		       COUNT(DISTINCT file_id)
		FROM keystrokes
		WHERE recorded_at >= ?
	`, since.UTC().Format(time.RFC3339)).Scan(&s.EditCount, &s.ChangedChars, &s.FileCount)
	if err != nil {
		return nil, fmt.Errorf("failed to query keystroke summary: %w", err)
	}
	return &s, nil
}

func (r *TelemetryRepository) TestSummary(ctx context.Context, since time.Time) (*ports.TestSummary, error) {
	var s ports.TestSummary
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(passed), 0),
		       COALESCE(SUM(failed), 0),
		       COALESCE(SUM(skipped), 0)
		FROM test_runs
		WHERE recorded_at >= ?
	`, since.UTC().Format(time.RFC3339)).Scan(&s.RunCount, &s.Passed, &s.Failed, &s.Skipped)
	if err != nil {
		return nil, fmt.Errorf("failed to query test summary: %w", err)
	}
	return &s, nil
}
