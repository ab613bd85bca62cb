package engine

import (
	"github.com/emiliopalmerini/codepulse/internal/domain"
	"github.com/emiliopalmerini/codepulse/internal/ports"
)

// diagnosticAggregator batches one diagnostics-changed notification into a
// single error/warning count pair.
type diagnosticAggregator struct {
	sink ports.Sink
}

// Changed recounts the full current diagnostic set of every touched file and
// emits one failure build event when either sum is non-zero. The recount is
// deliberately not edge-triggered: a still-broken file reports the same
// counts on every notification, and downstream consumers rely on the
// repeats for persistent errors.
func (a *diagnosticAggregator) Changed(fileIDs []string, src ports.DiagnosticSource) {
	var errs, warns int
	for _, id := range fileIDs {
		for _, d := range src.DiagnosticsFor(id) {
			switch d.Severity {
			case domain.SeverityError:
				errs++
			case domain.SeverityWarning:
				warns++
			}
		}
	}
	if errs == 0 && warns == 0 {
		return
	}
	a.sink.RecordBuildEvent(domain.ResultFailure, &errs, &warns)
}
