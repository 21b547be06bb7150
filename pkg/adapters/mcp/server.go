// Package mcp exposes screening sessions as Model Context Protocol tools,
// so an assistant can drive a candidate interview on the candidate's behalf.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/talentscout"
	"github.com/aretw0/talentscout/internal/logging"
	"github.com/aretw0/talentscout/pkg/domain"
	"github.com/aretw0/talentscout/pkg/ports"
	"github.com/aretw0/talentscout/pkg/runner"
	"github.com/aretw0/talentscout/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// SessionsURI lists the ids of stored sessions.
const SessionsURI = "talentscout://sessions"

// SessionArgs identifies a session.
type SessionArgs struct {
	SessionID string `json:"session_id"`
}

// InputArgs carries one interaction cycle.
type InputArgs struct {
	SessionID string `json:"session_id"`
	Type      string `json:"type"`
	Value     string `json:"value"`
}

// Server wraps the engine and exposes it as an MCP Server.
type Server struct {
	engine    ports.ScreeningEngine
	sessions  *session.Manager
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger. Stdio transports must log to stderr only.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine ports.ScreeningEngine, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		sessions:  sessions,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("talentscout-mcp", strings.TrimSpace(talentscout.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server, e.g. for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int, shutdownTimeout time.Duration) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("start_screening",
		mcp.WithDescription("Start a candidate screening. Reuses the session when session_id already exists."),
		mcp.WithString("session_id", mcp.Description("Session ID to create or resume (optional, a UUID is generated when empty)")),
		mcp.WithOutputSchema[runner.RichResponse](),
	), mcp.NewStructuredToolHandler(s.handleStart))

	s.mcpServer.AddTool(mcp.NewTool("get_screening",
		mcp.WithDescription("Render the current view of a screening session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithOutputSchema[runner.RichResponse](),
	), mcp.NewStructuredToolHandler(s.handleGet))

	s.mcpServer.AddTool(mcp.NewTool("submit_input",
		mcp.WithDescription("Submit a profile field (text), pick an answer option (select), or retry question generation (retry)."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithString("type", mcp.Required(),
			mcp.Enum(string(domain.InputText), string(domain.InputSelect), string(domain.InputRetry)),
			mcp.Description("Input kind"),
		),
		mcp.WithString("value", mcp.Description("Field value or the exact option text")),
		mcp.WithOutputSchema[runner.RichResponse](),
	), mcp.NewStructuredToolHandler(s.handleInput))

	s.mcpServer.AddTool(mcp.NewTool("exit_screening",
		mcp.WithDescription("End the screening early. The answers given so far are saved."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithOutputSchema[runner.RichResponse](),
	), mcp.NewStructuredToolHandler(s.handleExit))
}

func (s *Server) handleStart(ctx context.Context, request mcp.CallToolRequest, args SessionArgs) (runner.RichResponse, error) {
	var (
		state *domain.SessionState
		err   error
	)
	if args.SessionID == "" {
		state, err = s.sessions.Create(ctx, s.engine)
	} else {
		state, err = s.sessions.LoadOrStart(ctx, args.SessionID, s.engine)
	}
	if err != nil {
		return runner.RichResponse{}, fmt.Errorf("start failed: %w", err)
	}
	return s.render(ctx, state, nil)
}

func (s *Server) handleGet(ctx context.Context, request mcp.CallToolRequest, args SessionArgs) (runner.RichResponse, error) {
	state, err := s.sessions.Load(ctx, args.SessionID)
	if err != nil {
		return runner.RichResponse{}, fmt.Errorf("load %s: %w", args.SessionID, err)
	}
	return s.render(ctx, state, nil)
}

func (s *Server) handleInput(ctx context.Context, request mcp.CallToolRequest, args InputArgs) (runner.RichResponse, error) {
	clean, err := runner.SanitizeInput(args.Value)
	if err != nil {
		s.logger.Warn("MCP submit_input: input rejected", "err", err, "size", len(args.Value))
		return runner.RichResponse{}, fmt.Errorf("input rejected: %w", err)
	}
	return s.interact(ctx, args.SessionID, domain.Input{Kind: domain.InputKind(args.Type), Value: clean})
}

func (s *Server) handleExit(ctx context.Context, request mcp.CallToolRequest, args SessionArgs) (runner.RichResponse, error) {
	return s.interact(ctx, args.SessionID, domain.ExitInput())
}

// interact applies the input under the session lock. Engine rejections are part
// of the result (error and error_kind), so the caller sees the view to retry from.
func (s *Server) interact(ctx context.Context, id string, input domain.Input) (runner.RichResponse, error) {
	var rich *runner.RichResponse
	saved, err := s.sessions.Interact(ctx, id, func(ctx context.Context, state *domain.SessionState) (*domain.SessionState, error) {
		var herr error
		rich, herr = runner.HandleAndRender(ctx, s.engine, state, input)
		return rich.State, herr
	})
	if saved == nil {
		return runner.RichResponse{}, fmt.Errorf("%s %s: %w", input.Kind, id, err)
	}
	if err != nil {
		s.logger.Info("MCP input rejected", "session_id", id, "kind", domain.KindOf(err))
	}
	return *rich, nil
}

func (s *Server) render(ctx context.Context, state *domain.SessionState, herr error) (runner.RichResponse, error) {
	rich, err := runner.Respond(ctx, s.engine, state, herr)
	if err != nil {
		return runner.RichResponse{}, fmt.Errorf("render failed: %w", err)
	}
	return *rich, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(SessionsURI, "Stored screening sessions",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		ids, err := s.sessions.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list sessions: %w", err)
		}
		if ids == nil {
			ids = []string{}
		}
		jsonBytes, _ := json.Marshal(ids)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      SessionsURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
