package engine

import (
	"testing"

	"github.com/emiliopalmerini/codepulse/internal/domain"
)

func diagEvent(files map[string][]domain.Diagnostic) *domain.DiagnosticsChangedEvent {
	return &domain.DiagnosticsChangedEvent{Files: files}
}

func TestDiagnosticsZeroSumsEmitNothing(t *testing.T) {
	sink := &captureSink{}
	agg := &diagnosticAggregator{sink: sink}

	ev := diagEvent(map[string][]domain.Diagnostic{
		"a.go": nil,
		"b.go": {{Severity: domain.SeverityInfo}, {Severity: domain.SeverityHint}},
	})
	agg.Changed(ev.FileIDs(), ev)

	if len(sink.builds) != 0 {
		t.Fatalf("expected no build events, got %d", len(sink.builds))
	}
}

func TestDiagnosticsSummedAcrossFiles(t *testing.T) {
	sink := &captureSink{}
	agg := &diagnosticAggregator{sink: sink}

	ev := diagEvent(map[string][]domain.Diagnostic{
		"a.go": {{Severity: domain.SeverityError}, {Severity: domain.SeverityError}},
		"b.go": {{Severity: domain.SeverityWarning}},
	})
	agg.Changed(ev.FileIDs(), ev)

	if len(sink.builds) != 1 {
		t.Fatalf("expected exactly 1 build event, got %d", len(sink.builds))
	}
	b := sink.builds[0]
	assertEqual(t, "result", domain.ResultFailure, b.result)
	if b.errorCount == nil || *b.errorCount != 2 {
		t.Errorf("errorCount = %v, want 2", b.errorCount)
	}
	if b.warningCount == nil || *b.warningCount != 1 {
		t.Errorf("warningCount = %v, want 1", b.warningCount)
	}
}

func TestDiagnosticsWarningsAloneTrigger(t *testing.T) {
	sink := &captureSink{}
	agg := &diagnosticAggregator{sink: sink}

	ev := diagEvent(map[string][]domain.Diagnostic{
		"a.go": {{Severity: domain.SeverityWarning}},
	})
	agg.Changed(ev.FileIDs(), ev)

	if len(sink.builds) != 1 {
		t.Fatalf("expected 1 build event, got %d", len(sink.builds))
	}
	if got := *sink.builds[0].errorCount; got != 0 {
		t.Errorf("errorCount = %d, want 0", got)
	}
}

// Repeated notifications about a still-broken file re-report the same
// counts: the policy is at-least-once, not edge-triggered.
func TestDiagnosticsRepeatedNotificationsReReport(t *testing.T) {
	sink := &captureSink{}
	agg := &diagnosticAggregator{sink: sink}

	ev := diagEvent(map[string][]domain.Diagnostic{
		"a.go": {{Severity: domain.SeverityError}},
	})
	agg.Changed(ev.FileIDs(), ev)
	agg.Changed(ev.FileIDs(), ev)

	if len(sink.builds) != 2 {
		t.Fatalf("expected 2 build events, got %d", len(sink.builds))
	}
	assertEqual(t, "first errors", 1, *sink.builds[0].errorCount)
	assertEqual(t, "second errors", 1, *sink.builds[1].errorCount)
}
