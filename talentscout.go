package talentscout

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/talentscout/internal/screening"
	"github.com/aretw0/talentscout/pkg/domain"
	"github.com/aretw0/talentscout/pkg/ports"
	"github.com/google/uuid"
)

// Engine is the high-level entry point for the TalentScout library.
// It wraps the internal screening machine and provides a simplified API for consumers.
type Engine struct {
	machine   *screening.Machine
	gateway   ports.ModelGateway
	writer    ports.PersistenceWriter
	cache     ports.QuestionCache
	publisher ports.EventPublisher
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	strict    bool
}

var _ ports.ScreeningEngine = (*Engine)(nil)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithGateway sets the language model used to generate questions. Required.
func WithGateway(g ports.ModelGateway) Option {
	return func(e *Engine) {
		e.gateway = g
	}
}

// WithWriter sets the report writer invoked once per session on completion or exit.
func WithWriter(w ports.PersistenceWriter) Option {
	return func(e *Engine) {
		e.writer = w
	}
}

// WithQuestionCache stores a copy of each generated question bank.
func WithQuestionCache(c ports.QuestionCache) Option {
	return func(e *Engine) {
		e.cache = c
	}
}

// WithPublisher announces finished sessions.
func WithPublisher(p ports.EventPublisher) Option {
	return func(e *Engine) {
		e.publisher = p
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithStrictJSON controls model output parsing. When disabled, a single
// Markdown code fence around the JSON array is tolerated. Enabled by default.
func WithStrictJSON(strict bool) Option {
	return func(e *Engine) {
		e.strict = strict
	}
}

// New initializes a new TalentScout Engine.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{strict: true}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.gateway == nil {
		return nil, fmt.Errorf("a model gateway is required (use WithGateway)")
	}
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	eng.machine = screening.New(eng.gateway,
		screening.WithWriter(eng.writer),
		screening.WithQuestionCache(eng.cache),
		screening.WithPublisher(eng.publisher),
		screening.WithLifecycleHooks(eng.hooks),
		screening.WithLogger(eng.logger),
		screening.WithStripCodeFences(!eng.strict),
	)
	return eng, nil
}

// Start creates a session and moves it into info collection.
// An empty sessionID gets a random UUID.
func (e *Engine) Start(ctx context.Context, sessionID string) (*domain.SessionState, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	return e.machine.Start(ctx, domain.NewSessionState(sessionID))
}

// Render generates the actions (view) for the current state without transitioning.
func (e *Engine) Render(ctx context.Context, state *domain.SessionState) ([]domain.ActionRequest, error) {
	return e.machine.Render(ctx, state)
}

// Handle applies one interaction-cycle input. The returned state is the one
// to keep, also when an error is returned alongside it.
func (e *Engine) Handle(ctx context.Context, state *domain.SessionState, input domain.Input) (*domain.SessionState, error) {
	return e.machine.Handle(ctx, state, input)
}

// AdvanceInfo stores the value of the current info stage.
func (e *Engine) AdvanceInfo(ctx context.Context, state *domain.SessionState, value string) (*domain.SessionState, error) {
	return e.machine.AdvanceInfo(ctx, state, value)
}

// GenerateQuestions asks the model gateway for the question bank.
func (e *Engine) GenerateQuestions(ctx context.Context, state *domain.SessionState) (*domain.SessionState, error) {
	return e.machine.GenerateQuestions(ctx, state)
}

// RecordAnswer stores the option selected for the current question.
func (e *Engine) RecordAnswer(ctx context.Context, state *domain.SessionState, option string) (*domain.SessionState, error) {
	return e.machine.RecordAnswer(ctx, state, option)
}

// ExitNow ends the session early and writes the partial report.
func (e *Engine) ExitNow(ctx context.Context, state *domain.SessionState) (*domain.SessionState, error) {
	return e.machine.ExitNow(ctx, state)
}
