package ports

import "github.com/emiliopalmerini/codepulse/internal/domain"

// DiagnosticSource exposes the host's current full diagnostic list for a
// file. Counts are always recomputed from this list, never from deltas.
type DiagnosticSource interface {
	DiagnosticsFor(fileID string) []domain.Diagnostic
}
