package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/codepulse/internal/adapters/turso"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated telemetry",
	Long: `Show aggregated telemetry over a time window.

Examples:
  codepulse stats              # Last 24 hours
  codepulse stats --since 7h   # Last 7 hours
  codepulse stats --since 168h # Last week`,
	RunE: runStats,
}

var statsSince time.Duration

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().DurationVar(&statsSince, "since", 24*time.Hour, "Aggregation window")
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	db, closeDB, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB()

	// Aggregation reads never insert, the source ID is unused.
	repo := turso.NewTelemetryRepository(db, "")
	since := time.Now().Add(-statsSince)

	focus, err := repo.FocusSummary(ctx, since)
	if err != nil {
		return fmt.Errorf("failed to query focus summary: %w", err)
	}
	builds, err := repo.BuildSummary(ctx, since)
	if err != nil {
		return fmt.Errorf("failed to query build summary: %w", err)
	}
	keystrokes, err := repo.KeystrokeSummary(ctx, since)
	if err != nil {
		return fmt.Errorf("failed to query keystroke summary: %w", err)
	}
	tests, err := repo.TestSummary(ctx, since)
	if err != nil {
		return fmt.Errorf("failed to query test summary: %w", err)
	}

	fmt.Printf("Telemetry for the last %s\n\n", statsSince)

	focusTotal := time.Duration(focus.TotalDurationMs) * time.Millisecond
	fmt.Printf("Focus:      %d sessions, %s total, %d interruptions\n",
		focus.SessionCount, focusTotal.Round(time.Second), focus.TotalInterruptions)
	fmt.Printf("Edits:      %d events, %d chars across %d files\n",
		keystrokes.EditCount, keystrokes.ChangedChars, keystrokes.FileCount)
	fmt.Printf("Builds:     %d succeeded, %d failed (%d errors, %d warnings)\n",
		builds.SuccessCount, builds.FailureCount, builds.ErrorTotal, builds.WarningTotal)
	fmt.Printf("Tests:      %d runs, %d passed, %d failed, %d skipped\n",
		tests.RunCount, tests.Passed, tests.Failed, tests.Skipped)

	return nil
}
