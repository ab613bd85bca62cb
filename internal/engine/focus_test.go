package engine

import (
	"testing"
	"time"

	"pgregory.net/rapid"
)

func TestFocusSessionEmittedAboveFloor(t *testing.T) {
	sink := &captureSink{}
	tr := newFocusTracker(sink)

	tr.WindowFocusChanged(testStart, true)
	tr.WindowFocusChanged(testStart.Add(45*time.Second), false)

	if len(sink.focus) != 1 {
		t.Fatalf("expected 1 focus record, got %d", len(sink.focus))
	}
	assertEqual(t, "duration", 45*time.Second, sink.focus[0].duration)
	assertEqual(t, "interruptions", 0, sink.focus[0].interruptions)
}

func TestFocusSessionDiscardedBelowFloor(t *testing.T) {
	sink := &captureSink{}
	tr := newFocusTracker(sink)

	tr.WindowFocusChanged(testStart, true)
	tr.WindowFocusChanged(testStart.Add(10*time.Second), false)

	if len(sink.focus) != 0 {
		t.Fatalf("expected no focus records, got %d", len(sink.focus))
	}
}

func TestFocusSessionEmittedAtExactFloor(t *testing.T) {
	sink := &captureSink{}
	tr := newFocusTracker(sink)

	tr.WindowFocusChanged(testStart, true)
	tr.WindowFocusChanged(testStart.Add(minFocusDuration), false)

	if len(sink.focus) != 1 {
		t.Fatalf("expected 1 focus record, got %d", len(sink.focus))
	}
}

func TestDuplicateFocusEventsIgnored(t *testing.T) {
	sink := &captureSink{}
	tr := newFocusTracker(sink)

	tr.WindowFocusChanged(testStart, true)
	// A repeated focused notification must not restart the session.
	tr.WindowFocusChanged(testStart.Add(20*time.Second), true)
	tr.WindowFocusChanged(testStart.Add(40*time.Second), false)
	// Nor must a repeated unfocused one emit anything.
	tr.WindowFocusChanged(testStart.Add(50*time.Second), false)

	if len(sink.focus) != 1 {
		t.Fatalf("expected 1 focus record, got %d", len(sink.focus))
	}
	assertEqual(t, "duration", 40*time.Second, sink.focus[0].duration)
}

func TestInterruptionsCountedAndResetPerSession(t *testing.T) {
	sink := &captureSink{}
	tr := newFocusTracker(sink)

	// Editor switch with no open session is a no-op.
	tr.EditorChanged()

	tr.WindowFocusChanged(testStart, true)
	tr.EditorChanged()
	tr.EditorChanged()
	tr.EditorChanged()
	tr.WindowFocusChanged(testStart.Add(time.Minute), false)

	tr.WindowFocusChanged(testStart.Add(2*time.Minute), true)
	tr.WindowFocusChanged(testStart.Add(3*time.Minute), false)

	if len(sink.focus) != 2 {
		t.Fatalf("expected 2 focus records, got %d", len(sink.focus))
	}
	assertEqual(t, "first session interruptions", 3, sink.focus[0].interruptions)
	assertEqual(t, "second session interruptions", 0, sink.focus[1].interruptions)
}

func TestFocusCloseEvaluatesOpenSession(t *testing.T) {
	sink := &captureSink{}
	tr := newFocusTracker(sink)

	tr.WindowFocusChanged(testStart, true)
	tr.EditorChanged()
	tr.Close(testStart.Add(time.Minute))

	if len(sink.focus) != 1 {
		t.Fatalf("expected 1 focus record, got %d", len(sink.focus))
	}
	assertEqual(t, "duration", time.Minute, sink.focus[0].duration)
	assertEqual(t, "interruptions", 1, sink.focus[0].interruptions)

	// Close with no open session emits nothing further.
	tr.Close(testStart.Add(2 * time.Minute))
	assertEqual(t, "records after second close", 1, len(sink.focus))
}

func TestFocusCloseDiscardsShortSession(t *testing.T) {
	sink := &captureSink{}
	tr := newFocusTracker(sink)

	tr.WindowFocusChanged(testStart, true)
	tr.Close(testStart.Add(5 * time.Second))

	if len(sink.focus) != 0 {
		t.Fatalf("expected no focus records, got %d", len(sink.focus))
	}
}

// For any sequence of focus notifications, the number of emitted records
// equals the number of closed sessions lasting at least the floor, and
// every emitted duration is at or above the floor.
func TestFocusEmissionMatchesClosedSessions(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		sink := &captureSink{}
		tr := newFocusTracker(sink)

		now := testStart
		var openStart time.Time
		open := false
		want := 0

		steps := rapid.IntRange(1, 50).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			gap := rapid.Int64Range(0, 90_000).Draw(t, "gap_ms")
			now = now.Add(time.Duration(gap) * time.Millisecond)

			focused := rapid.Bool().Draw(t, "focused")
			if focused != open {
				if focused {
					openStart = now
				} else if now.Sub(openStart) >= minFocusDuration {
					want++
				}
				open = focused
			}
			tr.WindowFocusChanged(now, focused)
		}

		if got := len(sink.focus); got != want {
			t.Fatalf("emitted %d focus records, want %d", got, want)
		}
		for _, r := range sink.focus {
			if r.duration < minFocusDuration {
				t.Fatalf("emitted duration %v below floor", r.duration)
			}
		}
	})
}
