package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/emiliopalmerini/codepulse/internal/domain"
)

type focusRecord struct {
	duration      time.Duration
	interruptions int
}

type buildRecord struct {
	result       domain.TaskResult
	errorCount   *int
	warningCount *int
}

type testRunRecord struct {
	passed, failed, skipped int
}

type keystrokeRecord struct {
	fileID  string
	changed int
}

type debugRecord struct {
	sessionID string
	phase     domain.DebugPhase
}

// captureSink records every sink call for assertions.
type captureSink struct {
	mu         sync.Mutex
	focus      []focusRecord
	builds     []buildRecord
	testRuns   []testRunRecord
	keystrokes []keystrokeRecord
	debug      []debugRecord
}

func (s *captureSink) RecordDebugSession(sessionID string, phase domain.DebugPhase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debug = append(s.debug, debugRecord{sessionID, phase})
}

func (s *captureSink) RecordBuildEvent(result domain.TaskResult, errorCount, warningCount *int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.builds = append(s.builds, buildRecord{result, errorCount, warningCount})
}

func (s *captureSink) RecordTestRun(passed, failed, skipped int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.testRuns = append(s.testRuns, testRunRecord{passed, failed, skipped})
}

func (s *captureSink) RecordKeystroke(fileID string, changedChars int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keystrokes = append(s.keystrokes, keystrokeRecord{fileID, changedChars})
}

func (s *captureSink) RecordFocusTime(duration time.Duration, interruptionCount int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.focus = append(s.focus, focusRecord{duration, interruptionCount})
}

type fakeTimer struct {
	deadline time.Time
	f        func()
	stopped  bool
	fired    bool
}

func (t *fakeTimer) Stop() bool {
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// fakeClock is a manually advanced clock. Timers fire synchronously from
// advance, in registration order.
type fakeClock struct {
	now    time.Time
	timers []*fakeTimer
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{now: start}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	t := &fakeTimer{deadline: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.deadline.After(c.now) {
			t.fired = true
			t.f()
		}
	}
}

func assertEqual[T comparable](t *testing.T, name string, expected, actual T) {
	t.Helper()
	if expected != actual {
		t.Errorf("%s: expected %v, got %v", name, expected, actual)
	}
}

var testStart = time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)
