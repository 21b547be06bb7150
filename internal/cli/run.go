package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/talentscout/internal/presentation/tui"
	"github.com/aretw0/talentscout/pkg/domain"
	"github.com/aretw0/talentscout/pkg/runner"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	SessionID string
	JSON      bool
	Fresh     bool
	Quiet     bool
}

// RunSession runs one interactive screening on in/out.
// A known SessionID resumes the stored session; Fresh discards it first.
func RunSession(ctx context.Context, comps *Components, opts RunOptions, in io.Reader, out io.Writer) error {
	quiet := opts.Quiet || opts.JSON

	if opts.Fresh && opts.SessionID != "" {
		if err := comps.Sessions.Delete(ctx, opts.SessionID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			return fmt.Errorf("failed to reset session: %w", err)
		}
	}

	state, err := resume(ctx, comps, opts.SessionID)
	if err != nil {
		return err
	}

	if !quiet {
		tui.PrintBanner(out)
		if state != nil {
			printSystemMessage(out, "Resuming session '%s' during %s.", state.SessionID, state.Phase)
		}
	}

	r := runner.NewRunner(
		runner.WithInputHandler(createHandler(opts.JSON, in, out)),
		runner.WithSessionID(opts.SessionID),
		runner.WithStore(comps.Store()),
		runner.WithLogger(comps.Logger),
	)

	// SIGINT is handled by the runner as an exit.
	final, runErr := r.Run(ctx, comps.Engine, state)

	if !quiet {
		logCompletion(out, final, runErr)
	}
	return handleExecutionError(runErr)
}

// resume loads a stored session; an unknown id starts a new session under that id.
func resume(ctx context.Context, comps *Components, sessionID string) (*domain.SessionState, error) {
	if sessionID == "" {
		return nil, nil
	}
	state, err := comps.Sessions.Load(ctx, sessionID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	comps.Logger.Info("Session Resumed", "session_id", sessionID, "phase", state.Phase)
	return state, nil
}

// createHandler picks NDJSON or text IO. Markdown rendering is enabled only on a terminal.
func createHandler(jsonMode bool, in io.Reader, out io.Writer) runner.IOHandler {
	if jsonMode {
		return runner.NewJSONHandler(in, out)
	}
	var opts []runner.TextHandlerOption
	if f, ok := out.(*os.File); ok && tui.IsTerminal(f) {
		if render := tui.NewRenderer(); render != nil {
			opts = append(opts, runner.WithTextHandlerRenderer(render))
		}
	}
	opts = append(opts, runner.WithSystemStyle(tui.SystemStyle(out)))
	return runner.NewTextHandler(in, out, opts...)
}
