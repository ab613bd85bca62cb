package jsonl

import (
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/emiliopalmerini/codepulse/internal/domain"
)

// record is the wire shape of a single telemetry line. Type discriminates
// the payload; unused fields are omitted.
type record struct {
	Type              string `json:"type"`
	RecordedAt        string `json:"recorded_at"`
	DurationMs        int64  `json:"duration_ms,omitempty"`
	InterruptionCount *int   `json:"interruption_count,omitempty"`
	FileID            string `json:"file_id,omitempty"`
	ChangedChars      int    `json:"changed_chars,omitempty"`
	Result            string `json:"result,omitempty"`
	ErrorCount        *int   `json:"error_count,omitempty"`
	WarningCount      *int   `json:"warning_count,omitempty"`
	Passed            *int   `json:"passed,omitempty"`
	Failed            *int   `json:"failed,omitempty"`
	Skipped           *int   `json:"skipped,omitempty"`
	SessionID         string `json:"session_id,omitempty"`
	Phase             string `json:"phase,omitempty"`
}

// Sink writes telemetry records as JSON lines to a writer. Safe for
// concurrent use; one line per record.
type Sink struct {
	mu  sync.Mutex
	enc *json.Encoder
	now func() time.Time
}

// NewSink creates a sink writing one JSON object per line to w.
func NewSink(w io.Writer) *Sink {
	return &Sink{
		enc: json.NewEncoder(w),
		now: time.Now,
	}
}

func (s *Sink) write(r record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.RecordedAt = s.now().UTC().Format(time.RFC3339)
	// Encoder errors are swallowed: a broken pipe must not disturb
	// event dispatch.
	_ = s.enc.Encode(r)
}

func (s *Sink) RecordDebugSession(sessionID string, phase domain.DebugPhase) {
	s.write(record{Type: "debug_session", SessionID: sessionID, Phase: string(phase)})
}

func (s *Sink) RecordBuildEvent(result domain.TaskResult, errorCount, warningCount *int) {
	s.write(record{Type: "build_event", Result: string(result), ErrorCount: errorCount, WarningCount: warningCount})
}

func (s *Sink) RecordTestRun(passed, failed, skipped int) {
	s.write(record{Type: "test_run", Passed: &passed, Failed: &failed, Skipped: &skipped})
}

func (s *Sink) RecordKeystroke(fileID string, changedChars int) {
	s.write(record{Type: "keystroke", FileID: fileID, ChangedChars: changedChars})
}

func (s *Sink) RecordFocusTime(duration time.Duration, interruptionCount int) {
	s.write(record{Type: "focus_session", DurationMs: duration.Milliseconds(), InterruptionCount: &interruptionCount})
}
