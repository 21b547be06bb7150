package ports

import (
	"context"

	"github.com/aretw0/talentscout/pkg/domain"
)

// ModelGateway is the external language model used to generate questions.
// Predict receives the full prompt and returns the raw completion text;
// parsing and validation happen on the engine side.
type ModelGateway interface {
	Predict(ctx context.Context, prompt string) (string, error)
}

// ModelGatewayFunc adapts a plain function to ModelGateway.
type ModelGatewayFunc func(ctx context.Context, prompt string) (string, error)

// Predict calls f.
func (f ModelGatewayFunc) Predict(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// QuestionCache stores a copy of a generated bank for inspection.
// The in-memory bank on SessionState stays authoritative.
type QuestionCache interface {
	Store(ctx context.Context, sessionID string, bank domain.QuestionBank) error
}
