// internal/intake/session-api/server.go
package sessionapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "eligibility-intake/internal/common/errors"
	"eligibility-intake/internal/common/logger"
	requestorchestrator "eligibility-intake/internal/intake/request-orchestrator"
	"eligibility-intake/internal/intake/session"
	"eligibility-intake/internal/remote"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxEventBody bounds the size of an events request.
const maxEventBody = 1 << 20

type Config struct {
	Names       map[string]string
	MetricsPath string
	SweepEvery  time.Duration
}

// Server exposes sessions over HTTP. Every session lives in the Store; the
// eligibility service is shared.
type Server struct {
	config  Config
	service remote.Service
	store   *session.Store
	orch    *requestorchestrator.Orchestrator
	errors  *apperrors.ErrorHandler
	logger  logger.Logger
}

func NewServer(config Config, service remote.Service, store *session.Store, orch *requestorchestrator.Orchestrator, log logger.Logger) *Server {
	log = logger.Component(log, "session-api")
	return &Server{
		config:  config,
		service: service,
		store:   store,
		orch:    orch,
		errors:  apperrors.NewErrorHandler(log),
		logger:  log,
	}
}

// Routes returns the API handler.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /sessions", s.createSession)
	mux.HandleFunc("GET /sessions/{id}", s.getSession)
	mux.HandleFunc("DELETE /sessions/{id}", s.deleteSession)
	mux.HandleFunc("POST /sessions/{id}/events", s.dispatchEvents)
	mux.HandleFunc("POST /sessions/{id}/submit", s.submit)
	mux.HandleFunc("POST /sessions/{id}/reset", s.reset)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":   "ok",
			"sessions": s.store.Len(),
		})
	})
	if s.config.MetricsPath != "" {
		mux.Handle("GET "+s.config.MetricsPath, promhttp.Handler())
	}
	return mux
}

// Sweep removes idle sessions until ctx is done.
func (s *Server) Sweep(ctx context.Context) {
	every := s.config.SweepEvery
	if every <= 0 {
		every = time.Minute
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.store.Sweep()
		}
	}
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	sess, err := session.Bootstrap(r.Context(), s.service, s.config.Names, s.logger)
	if err != nil {
		s.fail(w, "create session", err)
		return
	}
	s.store.Add(sess)
	writeJSON(w, http.StatusCreated, sess.View())
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.PathValue("id"))
	if err != nil {
		s.fail(w, "get session", err)
		return
	}
	writeJSON(w, http.StatusOK, sess.View())
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.PathValue("id")); err != nil {
		s.fail(w, "delete session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// dispatchEvents accepts a single event object or an array of events. The
// batch stops at the first failing event; earlier events stay applied.
func (s *Server) dispatchEvents(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.PathValue("id"))
	if err != nil {
		s.fail(w, "dispatch events", err)
		return
	}

	events, err := decodeEvents(http.MaxBytesReader(w, r.Body, maxEventBody))
	if err != nil {
		s.fail(w, "dispatch events", apperrors.NewInputValidationError([]string{err.Error()}))
		return
	}
	if err := sess.DispatchAll(r.Context(), events); err != nil {
		s.fail(w, "dispatch events", err)
		return
	}
	writeJSON(w, http.StatusOK, sess.View())
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.PathValue("id"))
	if err != nil {
		s.fail(w, "submit", err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Submit(r.Context(), s.orch))
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.PathValue("id"))
	if err != nil {
		s.fail(w, "reset", err)
		return
	}
	sess.Reset()
	writeJSON(w, http.StatusOK, sess.View())
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	stdErr, status := s.errors.Handle(op, err)
	writeJSON(w, status, stdErr)
}

func decodeEvents(body io.Reader) ([]session.Event, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid event payload: %w", err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var events []session.Event
		if err := json.Unmarshal(raw, &events); err != nil {
			return nil, fmt.Errorf("invalid event payload: %w", err)
		}
		return events, nil
	}
	var ev session.Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, fmt.Errorf("invalid event payload: %w", err)
	}
	return []session.Event{ev}, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
