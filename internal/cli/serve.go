package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/codepulse/internal/adapters/fanout"
	otelsink "github.com/emiliopalmerini/codepulse/internal/adapters/otel"
	"github.com/emiliopalmerini/codepulse/internal/adapters/turso"
	"github.com/emiliopalmerini/codepulse/internal/engine"
	"github.com/emiliopalmerini/codepulse/internal/infrastructure/config"
	"github.com/emiliopalmerini/codepulse/internal/ingest"
	"github.com/emiliopalmerini/codepulse/internal/migrate"
	"github.com/emiliopalmerini/codepulse/internal/ports"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the ingest daemon",
	Long: `Start the HTTP ingest daemon.

Editor plugins POST events to /v1/events; derived telemetry records are
persisted to the database, streamed to WebSocket clients on /ws, and
optionally exported as OTLP metrics.

Examples:
  codepulse serve                                     # Listen on 127.0.0.1:7532
  CODEPULSE_INGEST_ADDR=:9000 codepulse serve         # Custom listen address
  CODEPULSE_OTEL_ENABLED=true codepulse serve         # Export OTLP metrics`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadServe()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := newLogger()

	db, err := turso.NewDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := migrate.Up(ctx, db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	repo := turso.NewTelemetryRepository(db, uuid.NewString())
	hub := ingest.NewHub(logger)

	sinks := []ports.Sink{turso.NewSink(repo, logger), hub.Sink()}

	var metrics *otelsink.Sink
	if cfg.OTel.Enabled {
		metrics, err = otelsink.NewSink(ctx, otelsink.Config{
			Endpoint: cfg.OTel.Endpoint,
			Enabled:  cfg.OTel.Enabled,
			Insecure: cfg.OTel.Insecure,
		})
		if err != nil {
			return fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		sinks = append(sinks, metrics)
	}

	eng := engine.New(fanout.New(sinks...))
	srv := ingest.NewServer(eng, repo, hub, logger)

	httpServer := &http.Server{
		Addr:    cfg.Ingest.Addr,
		Handler: srv.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		fmt.Printf("Listening on %s\n", cfg.Ingest.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		fmt.Println("\nShutting down...")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown: " + err.Error())
	}

	// Drain queued events through the engine so open sessions are closed
	// and recorded before the process exits.
	srv.Close()

	if metrics != nil {
		if err := metrics.Close(shutdownCtx); err != nil {
			logger.Error("metrics shutdown: " + err.Error())
		}
	}
	return nil
}
