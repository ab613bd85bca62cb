package engine

import (
	"time"

	"github.com/emiliopalmerini/codepulse/internal/domain"
	"github.com/emiliopalmerini/codepulse/internal/ports"
)

// Engine routes host editor events to the session tracker, activity
// debouncer, task classifier and diagnostic aggregator, and dispatches the
// derived records to the sink.
//
// Handle must be called from a single goroutine, in host delivery order.
// The only engine code running outside that context is the debounce timer
// callback, which synchronizes internally.
type Engine struct {
	sink  ports.Sink
	clock Clock

	focus       *focusTracker
	debounce    *debouncer
	diagnostics *diagnosticAggregator

	// lastAt is the timestamp of the most recent event, used to close an
	// open focus session deterministically when replaying a recorded log.
	lastAt time.Time
	closed bool
}

// Option configures an Engine.
type Option func(*options)

type options struct {
	clock            Clock
	initiallyFocused bool
}

// WithClock replaces the wall clock, for tests.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithInitialFocus opens a focus session at engine start, for hosts whose
// window already holds focus when the engine attaches.
func WithInitialFocus() Option {
	return func(o *options) { o.initiallyFocused = true }
}

// New creates an engine emitting to sink.
func New(sink ports.Sink, opts ...Option) *Engine {
	o := options{clock: NewClock()}
	for _, opt := range opts {
		opt(&o)
	}

	e := &Engine{
		sink:        sink,
		clock:       o.clock,
		focus:       newFocusTracker(sink),
		debounce:    newDebouncer(sink, o.clock),
		diagnostics: &diagnosticAggregator{sink: sink},
	}
	if o.initiallyFocused {
		e.focus.Start(o.clock.Now())
	}
	return e
}

// Handle processes one host event. It never blocks on the sink and never
// returns an error: a malformed or unexpected event degrades to an omitted
// telemetry point, not a failure.
func (e *Engine) Handle(event domain.HostEvent) {
	if e.closed {
		return
	}
	at := e.eventTime(event)
	e.lastAt = at

	switch ev := event.(type) {
	case *domain.WindowFocusEvent:
		e.focus.WindowFocusChanged(at, ev.Focused)
	case *domain.EditorChangedEvent:
		e.focus.EditorChanged()
	case *domain.TextChangedEvent:
		e.debounce.Edit(ev.FileID, ev.ChangedChars())
	case *domain.TaskStartedEvent:
		// Outcomes are derived at completion; the start marker carries no
		// telemetry of its own.
	case *domain.TaskEndedEvent:
		e.taskEnded(ev)
	case *domain.DiagnosticsChangedEvent:
		e.diagnostics.Changed(ev.FileIDs(), ev)
	case *domain.DebugEvent:
		e.sink.RecordDebugSession(ev.SessionID, ev.Phase)
	}
}

func (e *Engine) eventTime(event domain.HostEvent) time.Time {
	if t := event.At(); !t.IsZero() {
		return t
	}
	return e.clock.Now()
}

func (e *Engine) taskEnded(ev *domain.TaskEndedEvent) {
	kind := ClassifyTask(ev.Task)
	if kind == domain.TaskKindOther {
		return
	}

	e.sink.RecordBuildEvent(DeriveResult(ev.ExitCode), nil, nil)

	if kind != domain.TaskKindTest {
		return
	}
	if res, ok := ParseTestSummary(ev.Output); ok {
		e.sink.RecordTestRun(res.Passed, res.Failed, res.Skipped)
	}
}

// Close performs the teardown sequence: the pending debounce timer is
// canceled without firing and any open focus session is closed through the
// normal evaluation path. Handle calls after Close are ignored.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.debounce.Close()

	at := e.lastAt
	if at.IsZero() {
		at = e.clock.Now()
	}
	e.focus.Close(at)
}
