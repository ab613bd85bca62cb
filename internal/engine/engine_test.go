package engine

import (
	"testing"
	"time"

	"github.com/emiliopalmerini/codepulse/internal/domain"
)

func base(event string, at time.Time) domain.HostEventBase {
	return domain.HostEventBase{Event: event, Timestamp: at}
}

func TestEngineFocusScenario(t *testing.T) {
	sink := &captureSink{}
	eng := New(sink, WithClock(newFakeClock(testStart)))

	eng.Handle(&domain.WindowFocusEvent{HostEventBase: base(domain.EventWindowFocus, testStart), Focused: true})
	eng.Handle(&domain.WindowFocusEvent{HostEventBase: base(domain.EventWindowFocus, testStart.Add(45*time.Second)), Focused: false})

	if len(sink.focus) != 1 {
		t.Fatalf("expected 1 focus record, got %d", len(sink.focus))
	}
	assertEqual(t, "durationMs", int64(45000), sink.focus[0].duration.Milliseconds())
}

func TestEngineShortFocusScenario(t *testing.T) {
	sink := &captureSink{}
	eng := New(sink, WithClock(newFakeClock(testStart)))

	eng.Handle(&domain.WindowFocusEvent{HostEventBase: base(domain.EventWindowFocus, testStart), Focused: true})
	eng.Handle(&domain.WindowFocusEvent{HostEventBase: base(domain.EventWindowFocus, testStart.Add(10*time.Second)), Focused: false})

	if len(sink.focus) != 0 {
		t.Fatalf("expected no focus records, got %d", len(sink.focus))
	}
}

func TestEngineTestTaskWithoutParsableOutput(t *testing.T) {
	sink := &captureSink{}
	eng := New(sink, WithClock(newFakeClock(testStart)))

	code := 1
	eng.Handle(&domain.TaskEndedEvent{
		HostEventBase: base(domain.EventTaskEnded, testStart),
		Task:          domain.TaskDescriptor{Name: "unit-tests", Group: domain.TaskGroupTest},
		ExitCode:      &code,
		Output:        "assertion failed at foo_test.go:42",
	})

	if len(sink.builds) != 1 {
		t.Fatalf("expected 1 build event, got %d", len(sink.builds))
	}
	assertEqual(t, "result", domain.ResultFailure, sink.builds[0].result)
	if len(sink.testRuns) != 0 {
		t.Fatalf("expected no test runs, got %d", len(sink.testRuns))
	}
}

func TestEngineTestTaskWithSummary(t *testing.T) {
	sink := &captureSink{}
	eng := New(sink, WithClock(newFakeClock(testStart)))

	code := 0
	eng.Handle(&domain.TaskEndedEvent{
		HostEventBase: base(domain.EventTaskEnded, testStart),
		Task:          domain.TaskDescriptor{Name: "jest"},
		ExitCode:      &code,
		Output:        "Tests: 3 passed, 1 failed, 2 skipped",
	})

	// "jest" carries no build/test marker in the name and no group: the
	// task classifies as other and produces nothing.
	if len(sink.testRuns) != 0 {
		t.Fatalf("expected no test runs for unclassified task, got %d", len(sink.testRuns))
	}

	eng.Handle(&domain.TaskEndedEvent{
		HostEventBase: base(domain.EventTaskEnded, testStart),
		Task:          domain.TaskDescriptor{Name: "jest", Group: domain.TaskGroupTest},
		ExitCode:      &code,
		Output:        "Tests: 3 passed, 1 failed, 2 skipped",
	})

	if len(sink.testRuns) != 1 {
		t.Fatalf("expected 1 test run, got %d", len(sink.testRuns))
	}
	assertEqual(t, "passed", 3, sink.testRuns[0].passed)
	assertEqual(t, "failed", 1, sink.testRuns[0].failed)
	assertEqual(t, "skipped", 2, sink.testRuns[0].skipped)
}

func TestEngineOtherTaskEmitsNothing(t *testing.T) {
	sink := &captureSink{}
	eng := New(sink, WithClock(newFakeClock(testStart)))

	code := 0
	eng.Handle(&domain.TaskEndedEvent{
		HostEventBase: base(domain.EventTaskEnded, testStart),
		Task:          domain.TaskDescriptor{Name: "lint"},
		ExitCode:      &code,
	})
	eng.Handle(&domain.TaskStartedEvent{
		HostEventBase: base(domain.EventTaskStarted, testStart),
		Task:          domain.TaskDescriptor{Name: "build"},
	})

	if len(sink.builds) != 0 {
		t.Fatalf("expected no build events, got %d", len(sink.builds))
	}
}

func TestEngineDebugPassThrough(t *testing.T) {
	sink := &captureSink{}
	eng := New(sink, WithClock(newFakeClock(testStart)))

	eng.Handle(&domain.DebugEvent{
		HostEventBase: base(domain.EventDebug, testStart),
		SessionID:     "dbg-7",
		Phase:         domain.DebugPhaseStart,
	})

	if len(sink.debug) != 1 {
		t.Fatalf("expected 1 debug record, got %d", len(sink.debug))
	}
	assertEqual(t, "sessionID", "dbg-7", sink.debug[0].sessionID)
	assertEqual(t, "phase", domain.DebugPhaseStart, sink.debug[0].phase)
}

func TestEngineTextChangedForwardsKeystrokes(t *testing.T) {
	sink := &captureSink{}
	eng := New(sink, WithClock(newFakeClock(testStart)))

	eng.Handle(&domain.TextChangedEvent{
		HostEventBase: base(domain.EventTextChanged, testStart),
		FileID:        "main.go",
		Changes:       []domain.TextChange{{Length: 4}, {Length: 1}},
	})

	if len(sink.keystrokes) != 1 {
		t.Fatalf("expected 1 keystroke record, got %d", len(sink.keystrokes))
	}
	assertEqual(t, "fileID", "main.go", sink.keystrokes[0].fileID)
	assertEqual(t, "changed", 5, sink.keystrokes[0].changed)
}

func TestEngineInitialFocus(t *testing.T) {
	sink := &captureSink{}
	clock := newFakeClock(testStart)
	eng := New(sink, WithClock(clock), WithInitialFocus())

	eng.Handle(&domain.WindowFocusEvent{HostEventBase: base(domain.EventWindowFocus, testStart.Add(40*time.Second)), Focused: false})

	if len(sink.focus) != 1 {
		t.Fatalf("expected 1 focus record, got %d", len(sink.focus))
	}
	assertEqual(t, "duration", 40*time.Second, sink.focus[0].duration)
}

func TestEngineCloseTeardown(t *testing.T) {
	sink := &captureSink{}
	clock := newFakeClock(testStart)
	eng := New(sink, WithClock(clock))

	eng.Handle(&domain.WindowFocusEvent{HostEventBase: base(domain.EventWindowFocus, testStart), Focused: true})
	eng.Handle(&domain.TextChangedEvent{
		HostEventBase: base(domain.EventTextChanged, testStart.Add(time.Minute)),
		FileID:        "a.go",
		Changes:       []domain.TextChange{{Length: 3}},
	})

	eng.Close()

	// The open session closes at the last event time, through the normal
	// duration evaluation.
	if len(sink.focus) != 1 {
		t.Fatalf("expected 1 focus record, got %d", len(sink.focus))
	}
	assertEqual(t, "duration", time.Minute, sink.focus[0].duration)

	// The debounce timer was canceled, not fired: the reserved counter
	// keeps its pre-close value.
	clock.advance(time.Minute)
	assertEqual(t, "debounce total", 3, eng.debounce.total)

	// Events after Close are ignored.
	eng.Handle(&domain.WindowFocusEvent{HostEventBase: base(domain.EventWindowFocus, testStart.Add(2*time.Minute)), Focused: true})
	eng.Close()
	assertEqual(t, "focus records after late event", 1, len(sink.focus))
}
