package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/talentscout/pkg/domain"
	"github.com/aretw0/talentscout/pkg/ports"
)

// Runner handles the interaction loop of the screening engine using provided IO.
// It uses an IOHandler strategy to abstract the interaction mode (Text vs JSON).
type Runner struct {
	// Handler is the strategy for IO. Defaults to a TextHandler on stdin/stdout.
	Handler IOHandler

	// Logger is used for internal debug logging.
	Logger *slog.Logger

	// Store is the persistence adapter. If nil, sessions are ephemeral.
	Store ports.StateStore

	// SessionID names new sessions and keys persistence.
	SessionID string

	handleSignals bool
}

// ContentRenderer is a function that transforms the content before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// NewRunner creates a new Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		handleSignals: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the loop until the session is terminal and returns the final state.
// If initial is nil, engine.Start is called with the runner's SessionID.
// End of input, "exit" and interrupts all route through the engine's exit flow,
// so the partial report is written.
func (r *Runner) Run(ctx context.Context, engine ports.ScreeningEngine, initial *domain.SessionState) (*domain.SessionState, error) {
	handler := r.Handler
	if handler == nil {
		handler = NewTextHandler(nil, nil)
		r.Handler = handler
	}

	state := initial
	if state == nil {
		var err error
		state, err = engine.Start(ctx, r.SessionID)
		if err != nil {
			return nil, fmt.Errorf("failed to start session: %w", err)
		}
	}
	if err := r.saveState(ctx, state); err != nil {
		return state, err
	}

	inputCtx := func() (context.Context, func() bool, func()) {
		return ctx, func() bool { return false }, func() {}
	}
	if r.handleSignals {
		signals := NewSignalManager(ctx)
		defer signals.Stop()
		inputCtx = func() (context.Context, func() bool, func()) {
			return signals.Context(), func() bool {
				signals.CheckRace()
				return signals.Interrupted()
			}, signals.Reset
		}
	}

	for {
		actions, err := engine.Render(ctx, state)
		if err != nil {
			return state, fmt.Errorf("render error: %w", err)
		}
		needsInput, err := handler.Output(ctx, actions)
		if err != nil {
			return state, fmt.Errorf("output error: %w", err)
		}
		if state.Terminal() {
			return state, nil
		}

		var in domain.Input
		if req, ok := pendingRequest(actions); ok && needsInput {
			icx, interrupted, rearm := inputCtx()
			in, err = handler.Input(icx, req)
			if err != nil {
				switch {
				case errors.Is(err, io.EOF):
					r.Logger.Debug("input closed, exiting session", "session_id", state.SessionID)
					in = domain.ExitInput()
				case interrupted():
					r.Logger.Debug("interrupted, exiting session", "session_id", state.SessionID)
					rearm()
					in = domain.ExitInput()
				case ctx.Err() != nil:
					return state, ctx.Err()
				default:
					return state, fmt.Errorf("input error: %w", err)
				}
			}
		} else {
			// A session resumed while generating questions has nothing to ask; try again.
			in = domain.RetryInput()
		}

		next, herr := engine.Handle(ctx, state, in)
		if next != nil {
			state = next
		}
		if err := r.saveState(ctx, state); err != nil {
			return state, fmt.Errorf("critical persistence error: %w", err)
		}
		if herr != nil {
			if fatal := r.report(ctx, handler, herr); fatal {
				return state, herr
			}
		}
	}
}

// report shows a rejected input to the candidate. It returns true when the
// loop must stop.
func (r *Runner) report(ctx context.Context, handler IOHandler, err error) bool {
	r.Logger.Debug("input rejected", "error", err)
	msg, fatal := Describe(err)
	if msg != "" {
		if serr := handler.SystemOutput(ctx, msg); serr != nil {
			return true
		}
	}
	return fatal
}

// Describe turns an engine error into a candidate-facing message.
// fatal is true for errors the loop cannot continue after.
func Describe(err error) (msg string, fatal bool) {
	switch domain.KindOf(err) {
	case domain.KindEmptyFieldSubmitted:
		return "Please enter a value before submitting.", false
	case domain.KindInvalidOptionSelected:
		return "Please choose one of the listed options.", false
	case domain.KindInvalidTransition:
		return "That action is not available right now.", false
	case domain.KindQuestionGenerationFailed:
		// Render already explains the failure through LastError.
		return "", false
	case domain.KindPersistenceWriteFailed:
		return "Your session ended, but the report could not be saved.", true
	case domain.KindSessionTerminated:
		return "", true
	}
	return fmt.Sprintf("Unexpected error: %v", err), true
}

func (r *Runner) saveState(ctx context.Context, state *domain.SessionState) error {
	if r.Store == nil || state == nil {
		return nil
	}
	id := state.SessionID
	if err := r.Store.Save(ctx, id, state); err != nil {
		return err
	}
	r.Logger.Debug("state saved", "session_id", id, "phase", state.Phase)
	return nil
}
