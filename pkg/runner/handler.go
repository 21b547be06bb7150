package runner

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/aretw0/talentscout/pkg/domain"
)

// IOHandler defines the strategy for interacting with the candidate.
// This allows switching between Text (CLI/TUI) and JSON (Structured) modes.
type IOHandler interface {
	// Output presents the actions to the user.
	// Returns true if the actions request input.
	Output(ctx context.Context, actions []domain.ActionRequest) (bool, error)

	// Input reads one response shaped by the pending request.
	Input(ctx context.Context, req domain.InputRequest) (domain.Input, error)

	// SystemOutput presents a meta-message (validation feedback, status updates).
	// This is distinct from content rendering.
	SystemOutput(ctx context.Context, msg string) error
}

// Interpret maps a raw line to an Input for the pending request.
// "exit" and "quit" always end the session. For choice requests text equal to
// an option selects it, otherwise a number between 1 and the option count picks
// that position; any other text is used verbatim and validated by the engine.
func Interpret(raw string, req domain.InputRequest) domain.Input {
	text := strings.TrimSpace(raw)
	switch strings.ToLower(text) {
	case "exit", "quit":
		return domain.ExitInput()
	}

	switch req.Type {
	case domain.InputTypeChoice:
		for _, opt := range req.Options {
			if opt == text {
				return domain.SelectInput(opt)
			}
		}
		if n, err := strconv.Atoi(text); err == nil && n >= 1 && n <= len(req.Options) {
			return domain.SelectInput(req.Options[n-1])
		}
		return domain.SelectInput(text)
	case domain.InputTypeRetry:
		return domain.RetryInput()
	default:
		return domain.TextInput(text)
	}
}

// decodeInput accepts either a JSON Input object, a JSON string, or plain text.
func decodeInput(line string, req domain.InputRequest) domain.Input {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "{") {
		var in domain.Input
		if err := json.Unmarshal([]byte(line), &in); err == nil && in.Kind != "" {
			return in
		}
	}
	var s string
	if err := json.Unmarshal([]byte(line), &s); err == nil {
		return Interpret(s, req)
	}
	return Interpret(line, req)
}

// pendingRequest returns the input request among the actions, if any.
func pendingRequest(actions []domain.ActionRequest) (domain.InputRequest, bool) {
	for _, act := range actions {
		if act.Type == domain.ActionRequestInput {
			if req, ok := act.Payload.(domain.InputRequest); ok {
				return req, true
			}
		}
	}
	return domain.InputRequest{}, false
}
