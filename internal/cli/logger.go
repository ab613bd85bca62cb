package cli

import (
	"fmt"
	"os"

	"github.com/emiliopalmerini/codepulse/internal/ports"
)

// stderrLogger writes log lines to stderr so stdout stays clean for
// telemetry output.
type stderrLogger struct {
	debug bool
}

func newLogger() ports.Logger {
	return &stderrLogger{debug: verbose}
}

func (l *stderrLogger) Debug(message string) {
	if l.debug {
		fmt.Fprintln(os.Stderr, "debug: "+message)
	}
}

func (l *stderrLogger) Error(message string) {
	fmt.Fprintln(os.Stderr, "error: "+message)
}
