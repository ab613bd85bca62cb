package ingest

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/emiliopalmerini/codepulse/internal/domain"
	"github.com/emiliopalmerini/codepulse/internal/engine"
	"github.com/emiliopalmerini/codepulse/internal/ports"
)

const (
	defaultSummaryWindow = 24 * time.Hour
	eventQueueSize       = 1024
	maxBodyBytes         = 1 << 20
)

// Server accepts host editor events over HTTP and feeds them to the
// correlation engine. Events from all connections funnel through a single
// dispatch goroutine so engine ordering guarantees hold.
type Server struct {
	engine *engine.Engine
	repo   ports.TelemetryRepository
	hub    *Hub
	logger ports.Logger

	events chan domain.HostEvent

	closeOnce sync.Once
	done      chan struct{}
}

// NewServer creates an ingest server and starts its dispatch goroutine.
// repo may be nil when persistence is disabled; the summary endpoint then
// returns 503.
func NewServer(eng *engine.Engine, repo ports.TelemetryRepository, hub *Hub, logger ports.Logger) *Server {
	s := &Server{
		engine: eng,
		repo:   repo,
		hub:    hub,
		logger: logger,
		events: make(chan domain.HostEvent, eventQueueSize),
		done:   make(chan struct{}),
	}
	go s.dispatch()
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/v1/events", s.handleEvents)
	r.Get("/v1/summary", s.handleSummary)
	r.Get("/ws", s.hub.HandleWebSocket)

	return r
}

// dispatch is the single goroutine that touches the engine.
func (s *Server) dispatch() {
	for event := range s.events {
		s.engine.Handle(event)
	}
	s.engine.Close()
	close(s.done)
}

// Close stops accepting events, drains the queue through the engine, and
// disconnects live-feed clients.
func (s *Server) Close() {
	s.closeOnce.Do(func() {
		close(s.events)
		<-s.done
		s.hub.Close()
	})
}

// handleEvents accepts a single event object or an array of events. Events
// are queued in request order; a full queue rejects the request rather than
// block the HTTP handler.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer body.Close()

	var raw json.RawMessage
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	payloads := []json.RawMessage{raw}
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &payloads); err != nil {
			writeError(w, http.StatusBadRequest, "invalid event array")
			return
		}
	}

	parsed := make([]domain.HostEvent, 0, len(payloads))
	for _, p := range payloads {
		event, err := domain.ParseHostEvent(p)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		parsed = append(parsed, event)
	}

	for i, event := range parsed {
		select {
		case s.events <- event:
		default:
			s.logger.Error("event queue full, rejecting batch")
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"accepted": i,
				"error":    "event queue full",
			})
			return
		}
	}

	writeJSON(w, http.StatusAccepted, map[string]any{"accepted": len(parsed)})
}

type summaryResponse struct {
	Since      string                  `json:"since"`
	Focus      *ports.FocusSummary     `json:"focus"`
	Builds     *ports.BuildSummary     `json:"builds"`
	Keystrokes *ports.KeystrokeSummary `json:"keystrokes"`
	Tests      *ports.TestSummary      `json:"tests"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if s.repo == nil {
		writeError(w, http.StatusServiceUnavailable, "persistence is disabled")
		return
	}

	window := defaultSummaryWindow
	if raw := r.URL.Query().Get("since"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			writeError(w, http.StatusBadRequest, "since must be a positive duration such as 24h")
			return
		}
		window = d
	}
	since := time.Now().Add(-window)

	ctx := r.Context()
	focus, err := s.repo.FocusSummary(ctx, since)
	if err != nil {
		s.logger.Error("focus summary query failed: " + err.Error())
		writeError(w, http.StatusInternalServerError, "summary query failed")
		return
	}
	builds, err := s.repo.BuildSummary(ctx, since)
	if err != nil {
		s.logger.Error("build summary query failed: " + err.Error())
		writeError(w, http.StatusInternalServerError, "summary query failed")
		return
	}
	keystrokes, err := s.repo.KeystrokeSummary(ctx, since)
	if err != nil {
		s.logger.Error("keystroke summary query failed: " + err.Error())
		writeError(w, http.StatusInternalServerError, "summary query failed")
		return
	}
	tests, err := s.repo.TestSummary(ctx, since)
	if err != nil {
		s.logger.Error("test summary query failed: " + err.Error())
		writeError(w, http.StatusInternalServerError, "summary query failed")
		return
	}

	writeJSON(w, http.StatusOK, summaryResponse{
		Since:      since.UTC().Format(time.RFC3339),
		Focus:      focus,
		Builds:     builds,
		Keystrokes: keystrokes,
		Tests:      tests,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
