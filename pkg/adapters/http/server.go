// Package http exposes screening sessions over REST and WebSocket.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/talentscout"
	"github.com/aretw0/talentscout/internal/logging"
	"github.com/aretw0/talentscout/pkg/domain"
	"github.com/aretw0/talentscout/pkg/ports"
	"github.com/aretw0/talentscout/pkg/runner"
	"github.com/aretw0/talentscout/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxBodySize caps request bodies; the sanitizer enforces the finer input limit.
const maxBodySize = 64 << 10

// Server serves screening sessions stored behind a session.Manager.
type Server struct {
	Engine   ports.ScreeningEngine
	Sessions *session.Manager
	Streams  *StreamManager
	Logger   *slog.Logger
	metrics  http.Handler
}

// Option configures the Server.
type Option func(*Server)

// WithMetricsHandler mounts h at GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.Logger = l
		}
	}
}

// NewServer wires a Server without building the router.
func NewServer(engine ports.ScreeningEngine, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		Engine:   engine,
		Sessions: sessions,
		Streams:  NewStreamManager(),
		Logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewHandler creates the HTTP handler for the engine.
func NewHandler(engine ports.ScreeningEngine, sessions *session.Manager, opts ...Option) http.Handler {
	return NewServer(engine, sessions, opts...).Routes()
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.CreateSession)
		r.Get("/", s.ListSessions)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Post("/input", s.SubmitInput)
			r.Post("/exit", s.ExitSession)
			r.Get("/ws", s.Stream)
		})
	})
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "talentscout-http",
		"version": strings.TrimSpace(talentscout.Version),
	})
}

// CreateSession handles POST /sessions.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	state, err := s.Sessions.Create(r.Context(), s.Engine)
	if err != nil {
		s.Logger.Error("Create session failed", "err", err)
		http.Error(w, fmt.Sprintf("Create error: %v", err), http.StatusInternalServerError)
		return
	}
	s.respond(w, r, state, nil, http.StatusCreated)
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("List error: %v", err), http.StatusInternalServerError)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	state, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.respond(w, r, state, nil, http.StatusOK)
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SubmitInput handles POST /sessions/{id}/input with a {"type","value"} body.
func (s *Server) SubmitInput(w http.ResponseWriter, r *http.Request) {
	var input domain.Input
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&input); err != nil {
		s.Logger.Warn("SubmitInput: invalid request body", "err", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	s.apply(w, r, chi.URLParam(r, "id"), input)
}

// ExitSession handles POST /sessions/{id}/exit.
func (s *Server) ExitSession(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, chi.URLParam(r, "id"), domain.ExitInput())
}

func (s *Server) apply(w http.ResponseWriter, r *http.Request, id string, input domain.Input) {
	resp, err := s.Interact(r.Context(), id, input)
	if resp == nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, StatusFor(err), resp)
}

// Interact runs one interaction cycle for the session and broadcasts the result
// to its WebSocket subscribers. A nil response means nothing was applied.
func (s *Server) Interact(ctx context.Context, id string, input domain.Input) (*runner.RichResponse, error) {
	if input.Value != "" {
		clean, err := runner.SanitizeInput(input.Value)
		if err != nil {
			return nil, &badInputError{err}
		}
		input.Value = clean
	}

	var resp *runner.RichResponse
	saved, err := s.Sessions.Interact(ctx, id, func(ctx context.Context, state *domain.SessionState) (*domain.SessionState, error) {
		var herr error
		resp, herr = runner.HandleAndRender(ctx, s.Engine, state, input)
		return resp.State, herr
	})
	if saved == nil {
		return nil, err
	}
	if err != nil {
		s.Logger.Info("Input rejected", "session_id", id, "kind", domain.KindOf(err), "err", err)
	}
	s.broadcast(id, resp)
	return resp, err
}

func (s *Server) broadcast(id string, resp *runner.RichResponse) {
	payload, err := json.Marshal(resp)
	if err != nil {
		s.Logger.Error("Broadcast encode failed", "err", err)
		return
	}
	s.Streams.Broadcast(id, payload)
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, state *domain.SessionState, herr error, status int) {
	resp, err := runner.Respond(r.Context(), s.Engine, state, herr)
	if err != nil {
		s.Logger.Error("Render failed", "session_id", state.SessionID, "err", err)
	}
	writeJSON(w, status, resp)
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		s.Logger.Error("Request failed", "err", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error(), "error_kind": string(domain.KindOf(err))})
}

type badInputError struct{ err error }

func (e *badInputError) Error() string { return "invalid input: " + e.err.Error() }
func (e *badInputError) Unwrap() error { return e.err }

// StatusFor maps engine and storage errors to HTTP status codes.
func StatusFor(err error) int {
	var bad *badInputError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &bad):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrConcurrentUpdate):
		return http.StatusConflict
	}
	switch domain.KindOf(err) {
	case domain.KindEmptyFieldSubmitted, domain.KindInvalidOptionSelected:
		return http.StatusUnprocessableEntity
	case domain.KindInvalidTransition, domain.KindSessionTerminated:
		return http.StatusConflict
	case domain.KindQuestionGenerationFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encode failed", "err", err)
	}
}
