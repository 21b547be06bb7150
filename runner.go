package talentscout

import (
	"context"
	"io"

	"github.com/aretw0/talentscout/pkg/domain"
	"github.com/aretw0/talentscout/pkg/runner"
)

// RunConsole runs one session over plain text IO until it is completed or exited.
// It is the smallest way to embed the engine; use pkg/runner directly for
// persistence, JSON mode or custom rendering.
func (e *Engine) RunConsole(ctx context.Context, sessionID string, in io.Reader, out io.Writer) (*domain.SessionState, error) {
	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewTextHandler(in, out)),
		runner.WithSessionID(sessionID),
		runner.WithLogger(e.logger),
	)
	return r.Run(ctx, e, nil)
}
