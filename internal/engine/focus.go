package engine

import (
	"time"

	"github.com/emiliopalmerini/codepulse/internal/ports"
)

// minFocusDuration is the floor below which a closed focus session is
// discarded rather than reported.
const minFocusDuration = 30 * time.Second

// focusSession is the open-session state. It exists only between a
// false-to-true focus transition and the next true-to-false one.
type focusSession struct {
	startedAt     time.Time
	interruptions int
}

// focusTracker owns the window-focus state machine.
type focusTracker struct {
	sink        ports.Sink
	lastFocused bool
	open        *focusSession
}

func newFocusTracker(sink ports.Sink) *focusTracker {
	return &focusTracker{sink: sink}
}

// Start opens a session at engine attach time for hosts whose window is
// already focused.
func (t *focusTracker) Start(at time.Time) {
	t.lastFocused = true
	t.open = &focusSession{startedAt: at}
}

// WindowFocusChanged reacts only to changes of the focus value. Duplicate
// notifications carrying the last-known value are ignored.
func (t *focusTracker) WindowFocusChanged(at time.Time, focused bool) {
	if focused == t.lastFocused {
		return
	}
	t.lastFocused = focused
	if focused {
		t.open = &focusSession{startedAt: at}
		return
	}
	t.closeSession(at)
}

// EditorChanged counts an interruption against the open session. With no
// session open it is a no-op.
func (t *focusTracker) EditorChanged() {
	if t.open != nil {
		t.open.interruptions++
	}
}

// Close force-closes an open session through the normal evaluation path so
// focus time is not lost on shutdown.
func (t *focusTracker) Close(at time.Time) {
	if t.open == nil {
		return
	}
	t.lastFocused = false
	t.closeSession(at)
}

func (t *focusTracker) closeSession(at time.Time) {
	s := t.open
	if s == nil {
		return
	}
	t.open = nil
	d := at.Sub(s.startedAt)
	if d < minFocusDuration {
		return
	}
	t.sink.RecordFocusTime(d, s.interruptions)
}
