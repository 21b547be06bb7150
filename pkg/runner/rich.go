package runner

import (
	"context"

	"github.com/aretw0/talentscout/pkg/domain"
	"github.com/aretw0/talentscout/pkg/ports"
)

// RichResponse combines state and rendering actions for rich clients (Web, MCP, etc).
// This encapsulates the common pattern of: Handle -> Render -> Return Actions.
type RichResponse struct {
	State    *domain.SessionState   `json:"state"`
	Actions  []domain.ActionRequest `json:"actions,omitempty"`
	Terminal bool                   `json:"terminal"`
	Error    string                 `json:"error,omitempty"`
	Kind     domain.ErrorKind       `json:"error_kind,omitempty"`
}

// Respond renders state into a RichResponse. herr, if any, is attached
// to the response so the client sees both the new view and the rejection.
func Respond(ctx context.Context, engine ports.ScreeningEngine, state *domain.SessionState, herr error) (*RichResponse, error) {
	resp := &RichResponse{State: state, Terminal: state.Terminal()}
	if herr != nil {
		resp.Error = herr.Error()
		resp.Kind = domain.KindOf(herr)
	}
	actions, err := engine.Render(ctx, state)
	if err != nil {
		// Even if render fails, we return the state to allow the client to recover.
		return resp, err
	}
	resp.Actions = actions
	return resp, nil
}

// HandleAndRender applies one input and immediately renders the resulting state.
// The returned error is the engine error; the response is populated regardless.
func HandleAndRender(ctx context.Context, engine ports.ScreeningEngine, state *domain.SessionState, input domain.Input) (*RichResponse, error) {
	next, herr := engine.Handle(ctx, state, input)
	if next == nil {
		next = state
	}
	resp, rerr := Respond(ctx, engine, next, herr)
	if herr != nil {
		return resp, herr
	}
	return resp, rerr
}
