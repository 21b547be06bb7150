package screening

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/talentscout/pkg/domain"
	"github.com/aretw0/talentscout/pkg/ports"
)

// Machine is the screening state machine.
// It holds collaborators only; session data travels in the SessionState values.
type Machine struct {
	gateway     ports.ModelGateway
	writer      ports.PersistenceWriter
	cache       ports.QuestionCache
	publisher   ports.EventPublisher
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	stripFences bool
	now         func() time.Time
}

// Option configures a Machine.
type Option func(*Machine)

// WithWriter sets the report writer invoked on completion or exit.
func WithWriter(w ports.PersistenceWriter) Option {
	return func(m *Machine) { m.writer = w }
}

// WithQuestionCache sets where generated banks are copied for inspection.
func WithQuestionCache(c ports.QuestionCache) Option {
	return func(m *Machine) { m.cache = c }
}

// WithPublisher sets the sink for finished-session events.
func WithPublisher(p ports.EventPublisher) Option {
	return func(m *Machine) { m.publisher = p }
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(h domain.LifecycleHooks) Option {
	return func(m *Machine) { m.hooks = h }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Machine) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithStripCodeFences lets the parser drop one Markdown fence around the model output.
func WithStripCodeFences(enabled bool) Option {
	return func(m *Machine) { m.stripFences = enabled }
}

// WithClock overrides the time source used for UpdatedAt and event timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

// New creates a Machine backed by the given gateway.
func New(gateway ports.ModelGateway, opts ...Option) *Machine {
	m := &Machine{
		gateway: gateway,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start moves an idle session into info collection and greets the candidate.
func (m *Machine) Start(ctx context.Context, state *domain.SessionState) (*domain.SessionState, error) {
	const op = "Start"
	if err := m.guard(op, state, domain.PhaseIdle); err != nil {
		return state, err
	}
	next := m.begin(state)
	next.Say(Greeting)
	m.transition(ctx, next, domain.PhaseCollectingInfo)
	return next, nil
}

// AdvanceInfo stores the value for the current info stage.
func (m *Machine) AdvanceInfo(ctx context.Context, state *domain.SessionState, value string) (*domain.SessionState, error) {
	const op = "AdvanceInfo"
	if err := m.guard(op, state, domain.PhaseCollectingInfo); err != nil {
		return state, err
	}
	stage, ok := state.CurrentStage()
	if !ok {
		return state, domain.NewError(domain.KindInvalidTransition, op, fmt.Errorf("stage %d out of range", state.Stage))
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return state, domain.NewError(domain.KindEmptyFieldSubmitted, op, fmt.Errorf("field %q", stage.Key))
	}

	next := m.begin(state)
	next.Profile = next.Profile.Set(stage.Key, value)
	next.Hear(value)
	next.Say(Acknowledge(stage.Key, value))
	next.Stage++

	if next.Stage >= len(domain.InfoStages) {
		m.transition(ctx, next, domain.PhaseGeneratingQuestions)
	}
	return next, nil
}

// GenerateQuestions calls the model gateway once and installs the resulting bank.
// On failure the returned state keeps phase generating_questions with no bank.
func (m *Machine) GenerateQuestions(ctx context.Context, state *domain.SessionState) (*domain.SessionState, error) {
	const op = "GenerateQuestions"
	if err := m.guard(op, state, domain.PhaseGeneratingQuestions); err != nil {
		return state, err
	}
	log := m.logger.With("session_id", state.SessionID)

	bank, err := m.generate(ctx, state)
	if m.hooks.OnGeneration != nil {
		evt := &domain.GenerationEvent{
			EventBase: m.event(domain.EventGeneration, state.SessionID),
			Questions: len(bank),
			IsError:   err != nil,
		}
		if err != nil {
			evt.Error = err.Error()
		}
		m.hooks.OnGeneration(ctx, evt)
	}
	if err != nil {
		log.Warn("question generation failed", "error", err)
		next := m.begin(state)
		next.Questions = nil
		next.LastError = GenerationFailedLine(err)
		return next, domain.NewError(domain.KindQuestionGenerationFailed, op, err)
	}

	next := m.begin(state)
	next.Questions = bank
	next.Index = 0
	next.LastError = ""
	m.transition(ctx, next, domain.PhaseAnsweringQuestions)

	if m.cache != nil {
		if err := m.cache.Store(ctx, state.SessionID, bank.Clone()); err != nil {
			log.Warn("failed to cache question bank", "error", err)
		}
	}
	return next, nil
}

func (m *Machine) generate(ctx context.Context, state *domain.SessionState) (domain.QuestionBank, error) {
	if m.gateway == nil {
		return nil, fmt.Errorf("no model gateway configured")
	}
	prompt, err := BuildPrompt(
		state.Profile.Value(domain.FieldTechStack),
		state.Profile.Value(domain.FieldPosition),
		state.Profile.Value(domain.FieldExperience),
	)
	if err != nil {
		return nil, err
	}

	started := m.now()
	raw, err := m.gateway.Predict(ctx, prompt)
	if m.hooks.OnGatewayCall != nil {
		evt := &domain.GatewayEvent{
			EventBase: m.event(domain.EventGatewayCall, state.SessionID),
			Duration:  m.now().Sub(started),
			IsError:   err != nil,
		}
		if err != nil {
			evt.Error = err.Error()
		}
		m.hooks.OnGatewayCall(ctx, evt)
	}
	if err != nil {
		return nil, fmt.Errorf("model gateway: %w", err)
	}
	return ParseQuestions(raw, m.stripFences)
}

// RecordAnswer stores the selected option for the current question.
// Answering the last question completes the session and flushes the report.
func (m *Machine) RecordAnswer(ctx context.Context, state *domain.SessionState, option string) (*domain.SessionState, error) {
	const op = "RecordAnswer"
	if err := m.guard(op, state, domain.PhaseAnsweringQuestions); err != nil {
		return state, err
	}
	item, ok := state.CurrentQuestion()
	if !ok {
		return state, domain.NewError(domain.KindInvalidTransition, op, fmt.Errorf("index %d out of range", state.Index))
	}
	if !item.HasOption(option) {
		return state, domain.NewError(domain.KindInvalidOptionSelected, op, fmt.Errorf("%q is not an option of question %d", option, state.Index+1))
	}

	next := m.begin(state)
	next.Answers = append(next.Answers, domain.AnswerRecord{Question: item.Question, SelectedOption: option})
	next.Hear(option)
	next.Say(ChoiceLine(next.Index+1, option))
	next.Index++

	if m.hooks.OnAnswer != nil {
		m.hooks.OnAnswer(ctx, &domain.AnswerEvent{
			EventBase: m.event(domain.EventAnswerRecord, state.SessionID),
			Index:     state.Index,
			Category:  item.Category,
		})
	}

	if next.Index < len(next.Questions) {
		return next, nil
	}
	next.Say(CompletedMessage)
	next.Say(ThanksMessage)
	return m.finish(ctx, op, next, domain.PhaseCompleted)
}

// ExitNow ends a session early, flushing whatever has been collected.
func (m *Machine) ExitNow(ctx context.Context, state *domain.SessionState) (*domain.SessionState, error) {
	const op = "ExitNow"
	if state == nil {
		return nil, domain.NewError(domain.KindInvalidTransition, op, fmt.Errorf("nil state"))
	}
	if state.Terminal() {
		return state, domain.NewError(domain.KindSessionTerminated, op, nil)
	}
	next := m.begin(state)
	next.Hear(ExitCommand)
	next.Say(ExitMessage)
	return m.finish(ctx, op, next, domain.PhaseExited)
}

// Handle applies one interaction-cycle input. Completing the last info stage
// immediately triggers question generation, as one cycle.
// The returned state is always the one to keep, even alongside an error.
func (m *Machine) Handle(ctx context.Context, state *domain.SessionState, in domain.Input) (*domain.SessionState, error) {
	const op = "Handle"
	if state == nil {
		return nil, domain.NewError(domain.KindInvalidTransition, op, fmt.Errorf("nil state"))
	}
	if state.Terminal() {
		return state, domain.NewError(domain.KindSessionTerminated, op, nil)
	}
	if in.Kind == domain.InputExit {
		return m.ExitNow(ctx, state)
	}

	switch {
	case state.Phase == domain.PhaseCollectingInfo && in.Kind == domain.InputText:
		next, err := m.AdvanceInfo(ctx, state, in.Value)
		if err != nil || next.Phase != domain.PhaseGeneratingQuestions {
			return next, err
		}
		return m.GenerateQuestions(ctx, next)
	case state.Phase == domain.PhaseGeneratingQuestions && in.Kind == domain.InputRetry:
		return m.GenerateQuestions(ctx, state)
	case state.Phase == domain.PhaseAnsweringQuestions && in.Kind == domain.InputSelect:
		return m.RecordAnswer(ctx, state, in.Value)
	}
	return state, domain.NewError(domain.KindInvalidTransition, op,
		fmt.Errorf("input %q not accepted in phase %s", in.Kind, state.Phase))
}

// finish moves next into a terminal phase and runs the one report flush of the session.
func (m *Machine) finish(ctx context.Context, op string, next *domain.SessionState, phase domain.Phase) (*domain.SessionState, error) {
	m.transition(ctx, next, phase)
	if next.Flushed {
		return next, nil
	}

	var err error
	if m.writer != nil {
		err = m.writer.Flush(ctx, next.Clone())
	}
	next.Flushed = err == nil

	if m.hooks.OnFlush != nil {
		evt := &domain.FlushEvent{
			EventBase: m.event(domain.EventReportFlushed, next.SessionID),
			Phase:     phase,
			IsError:   err != nil,
		}
		if err != nil {
			evt.Error = err.Error()
		}
		m.hooks.OnFlush(ctx, evt)
	}

	if m.publisher != nil {
		if perr := m.publisher.Publish(ctx, domain.NewSessionEvent(next)); perr != nil {
			m.logger.Warn("failed to publish session event", "session_id", next.SessionID, "error", perr)
		}
	}

	if err != nil {
		m.logger.Error("failed to write report", "session_id", next.SessionID, "error", err)
		return next, domain.NewError(domain.KindPersistenceWriteFailed, op, err)
	}
	return next, nil
}

func (m *Machine) guard(op string, state *domain.SessionState, want domain.Phase) error {
	if state == nil {
		return domain.NewError(domain.KindInvalidTransition, op, fmt.Errorf("nil state"))
	}
	if state.Terminal() {
		return domain.NewError(domain.KindSessionTerminated, op, nil)
	}
	if state.Phase != want {
		return domain.NewError(domain.KindInvalidTransition, op, fmt.Errorf("phase is %s, want %s", state.Phase, want))
	}
	return nil
}

func (m *Machine) begin(state *domain.SessionState) *domain.SessionState {
	next := state.Clone()
	next.UpdatedAt = m.now()
	next.Revision++
	return next
}

func (m *Machine) transition(ctx context.Context, state *domain.SessionState, to domain.Phase) {
	from := state.Phase
	state.Phase = to
	m.logger.Debug("phase transition", "session_id", state.SessionID, "from", from, "to", to)
	if m.hooks.OnPhaseChange != nil {
		m.hooks.OnPhaseChange(ctx, &domain.PhaseEvent{
			EventBase: m.event(domain.EventPhaseChange, state.SessionID),
			From:      from,
			To:        to,
		})
	}
}

func (m *Machine) event(t domain.EventType, sessionID string) domain.EventBase {
	return domain.EventBase{Timestamp: m.now(), Type: t, SessionID: sessionID}
}
