package ports

import (
	"context"

	"github.com/aretw0/talentscout/pkg/domain"
)

// ScreeningEngine is the stateless surface the presentation adapters (HTTP, MCP, runner) drive.
// The state lives with the caller; every call returns a new snapshot.
type ScreeningEngine interface {
	// Start creates a new idle session and moves it into info collection.
	Start(ctx context.Context, sessionID string) (*domain.SessionState, error)

	// Render calculates the presentation (actions) for a given state without advancing it.
	Render(ctx context.Context, state *domain.SessionState) ([]domain.ActionRequest, error)

	// Handle applies exactly one user input and returns the new state.
	Handle(ctx context.Context, state *domain.SessionState, input domain.Input) (*domain.SessionState, error)
}
