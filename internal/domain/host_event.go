package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Event names used in the wire envelope from editor plugins.
const (
	EventWindowFocus        = "window_focus"
	EventEditorChanged      = "editor_changed"
	EventTextChanged        = "text_changed"
	EventTaskStarted        = "task_started"
	EventTaskEnded          = "task_ended"
	EventDiagnosticsChanged = "diagnostics_changed"
	EventDebug              = "debug"
)

// HostEvent is implemented by all typed host editor events.
type HostEvent interface {
	// At is the host-side timestamp of the event. A zero time means the
	// plugin did not stamp it and the receiver should use its own clock.
	At() time.Time
}

// HostEventBase contains fields common to all host editor events.
type HostEventBase struct {
	Event     string    `json:"event"`
	Timestamp time.Time `json:"ts,omitzero"`
}

func (b HostEventBase) At() time.Time { return b.Timestamp }

// WindowFocusEvent is sent when the host window gains or loses input focus.
type WindowFocusEvent struct {
	HostEventBase
	Focused bool `json:"focused"`
}

// EditorChangedEvent is sent when the active editor (tab) changes.
type EditorChangedEvent struct {
	HostEventBase
	FileID string `json:"file_id,omitempty"`
}

// TextChange is one contiguous content change within an edit event.
type TextChange struct {
	Length int `json:"length"`
}

// TextChangedEvent is sent on every text document change.
type TextChangedEvent struct {
	HostEventBase
	FileID  string       `json:"file_id"`
	Changes []TextChange `json:"changes"`
}

// ChangedChars is the total changed-text length across all changes in the
// event.
func (e *TextChangedEvent) ChangedChars() int {
	total := 0
	for _, c := range e.Changes {
		total += c.Length
	}
	return total
}

// TaskStartedEvent is sent when a host task begins executing.
type TaskStartedEvent struct {
	HostEventBase
	Task TaskDescriptor `json:"task"`
}

// TaskEndedEvent is sent when a host task process finishes. ExitCode is
// absent when the task was terminated before producing one.
type TaskEndedEvent struct {
	HostEventBase
	Task     TaskDescriptor `json:"task"`
	ExitCode *int           `json:"exit_code,omitempty"`
	Output   string         `json:"output,omitempty"`
}

// DiagnosticsChangedEvent is sent when the host's diagnostics change for a
// set of files. The plugin snapshots each touched file's full current
// diagnostic list into the payload, since the receiving process has no side
// channel back into the host to query it.
type DiagnosticsChangedEvent struct {
	HostEventBase
	Files map[string][]Diagnostic `json:"files"`
}

// FileIDs returns the touched file identifiers in a stable order.
func (e *DiagnosticsChangedEvent) FileIDs() []string {
	ids := make([]string, 0, len(e.Files))
	for id := range e.Files {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DiagnosticsFor returns the snapshotted current diagnostic list for a file.
func (e *DiagnosticsChangedEvent) DiagnosticsFor(fileID string) []Diagnostic {
	return e.Files[fileID]
}

// DebugEvent marks a debug session lifecycle point.
type DebugEvent struct {
	HostEventBase
	SessionID string     `json:"session_id"`
	Phase     DebugPhase `json:"phase"`
}

// ParseHostEvent parses raw JSON into the appropriate typed event struct.
func ParseHostEvent(data []byte) (HostEvent, error) {
	var base HostEventBase
	if err := json.Unmarshal(data, &base); err != nil {
		return nil, fmt.Errorf("failed to parse host event: %w", err)
	}

	if base.Event == "" {
		return nil, fmt.Errorf("missing event name")
	}

	switch base.Event {
	case EventWindowFocus:
		var event WindowFocusEvent
		if err := json.Unmarshal(data, &event); err != nil {
			return nil, fmt.Errorf("failed to parse %s event: %w", base.Event, err)
		}
		return &event, nil

	case EventEditorChanged:
		var event EditorChangedEvent
		if err := json.Unmarshal(data, &event); err != nil {
			return nil, fmt.Errorf("failed to parse %s event: %w", base.Event, err)
		}
		return &event, nil

	case EventTextChanged:
		var event TextChangedEvent
		if err := json.Unmarshal(data, &event); err != nil {
			return nil, fmt.Errorf("failed to parse %s event: %w", base.Event, err)
		}
		return &event, nil

	case EventTaskStarted:
		var event TaskStartedEvent
		if err := json.Unmarshal(data, &event); err != nil {
			return nil, fmt.Errorf("failed to parse %s event: %w", base.Event, err)
		}
		return &event, nil

	case EventTaskEnded:
		var event TaskEndedEvent
		if err := json.Unmarshal(data, &event); err != nil {
			return nil, fmt.Errorf("failed to parse %s event: %w", base.Event, err)
		}
		return &event, nil

	case EventDiagnosticsChanged:
		var event DiagnosticsChangedEvent
		if err := json.Unmarshal(data, &event); err != nil {
			return nil, fmt.Errorf("failed to parse %s event: %w", base.Event, err)
		}
		return &event, nil

	case EventDebug:
		var event DebugEvent
		if err := json.Unmarshal(data, &event); err != nil {
			return nil, fmt.Errorf("failed to parse %s event: %w", base.Event, err)
		}
		return &event, nil

	default:
		return nil, fmt.Errorf("unknown host event: %s", base.Event)
	}
}
