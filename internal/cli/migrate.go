package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/codepulse/internal/migrate"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [version]",
	Short: "Run database migrations",
	Long: `Run database migrations.

Without arguments, applies all pending migrations.
With a version number, rolls back to that version.

Examples:
  codepulse migrate           # Apply all pending migrations
  codepulse migrate 0         # Roll back everything
  codepulse migrate --status  # Show the current schema version`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMigrate,
}

var migrateStatus bool

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().BoolVar(&migrateStatus, "status", false, "Show the current schema version and exit")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	db, closeDB, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB()

	current, dirty, err := migrate.Version(ctx, db)
	if err != nil {
		return err
	}
	if dirty {
		return fmt.Errorf("database is in dirty state at version %d, manual intervention required", current)
	}

	if migrateStatus {
		fmt.Printf("Schema version: %d\n", current)
		return nil
	}

	if len(args) == 1 {
		target, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version number: %s", args[0])
		}
		if target >= current {
			fmt.Println("Nothing to roll back")
			return nil
		}
		if err := migrate.DownTo(ctx, db, target); err != nil {
			return err
		}
		fmt.Printf("Rolled back to version %d\n", target)
		return nil
	}

	if err := migrate.Up(ctx, db); err != nil {
		return err
	}

	current, _, err = migrate.Version(ctx, db)
	if err != nil {
		return err
	}
	fmt.Printf("Schema at version %d\n", current)
	return nil
}
