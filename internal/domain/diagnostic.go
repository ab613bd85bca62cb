package domain

// Severity of a single diagnostic entry as reported by the host.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeverityHint    Severity = "hint"
)

// Diagnostic is one entry in a file's current diagnostic list.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message,omitempty"`
}
