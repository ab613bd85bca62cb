package cli

import (
	"bufio"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/codepulse/internal/adapters/jsonl"
	"github.com/emiliopalmerini/codepulse/internal/adapters/turso"
	"github.com/emiliopalmerini/codepulse/internal/domain"
	"github.com/emiliopalmerini/codepulse/internal/engine"
	"github.com/emiliopalmerini/codepulse/internal/infrastructure/config"
	"github.com/emiliopalmerini/codepulse/internal/ports"
)

// testDBOverride allows tests to inject a database connection.
// When set, openDB returns this instead of creating a new connection.
var testDBOverride *sql.DB

var recordCmd = &cobra.Command{
	Use:   "record [file]",
	Short: "Replay a recorded event log into telemetry records",
	Long: `Reads a JSON-lines event log (one host editor event per line) from
stdin or a file, replays it through the correlation engine, and persists the
derived telemetry records.

Editor plugins that buffer events offline write logs in this format; record
is how those buffers are drained into the database.

Examples:
  codepulse record events.jsonl        # Replay a log file
  cat events.jsonl | codepulse record  # Replay from stdin
  codepulse record --stdout < events.jsonl  # Print records instead of storing`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRecord,
}

var recordStdout bool

func init() {
	rootCmd.AddCommand(recordCmd)
	recordCmd.Flags().BoolVar(&recordStdout, "stdout", false, "Write derived records to stdout as JSON lines instead of the database")
}

func runRecord(cmd *cobra.Command, args []string) error {
	in := io.Reader(os.Stdin)
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open event log: %w", err)
		}
		defer f.Close()
		in = f
	}

	logger := newLogger()

	var sink ports.Sink
	if recordStdout {
		sink = jsonl.NewSink(os.Stdout)
	} else {
		db, closeDB, err := openDB()
		if err != nil {
			return err
		}
		defer closeDB()

		repo := turso.NewTelemetryRepository(db, uuid.NewString())
		sink = turso.NewSink(repo, logger)
	}

	processed, err := processEventLog(in, sink, logger)
	if err != nil {
		return err
	}

	if !recordStdout {
		fmt.Printf("Replayed %d events\n", processed)
	}
	return nil
}

// processEventLog replays a JSON-lines event log through a fresh engine.
// Malformed lines are logged and skipped; the replay continues.
func processEventLog(in io.Reader, sink ports.Sink, logger ports.Logger) (int, error) {
	eng := engine.New(sink)
	defer eng.Close()

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	processed := 0
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		event, err := domain.ParseHostEvent(line)
		if err != nil {
			logger.Error("skipping event: " + err.Error())
			continue
		}

		eng.Handle(event)
		processed++
	}
	if err := scanner.Err(); err != nil {
		return processed, fmt.Errorf("failed to read event log: %w", err)
	}

	return processed, nil
}

// openDB connects to the configured database, honoring the test override.
func openDB() (*sql.DB, func(), error) {
	if testDBOverride != nil {
		return testDBOverride, func() {}, nil
	}

	cfg, err := config.LoadDatabase()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db, err := turso.NewDB(*cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, func() { db.Close() }, nil
}
