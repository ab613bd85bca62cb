package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "codepulse",
	Short: "Editor activity telemetry correlation engine",
	Long: `codepulse turns raw editor events into rate-limited telemetry records.

Editor plugins stream window focus changes, edits, task completions and
diagnostics to codepulse, which derives focus sessions, keystroke counts,
build outcomes and test results, and persists them for later analysis.`,
}

var verbose bool

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}
