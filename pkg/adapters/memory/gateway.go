package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/aretw0/talentscout/pkg/domain"
)

// Gateway implements ports.ModelGateway with canned responses.
// Responses are returned in order; the last one repeats once the list is exhausted.
type Gateway struct {
	mu        sync.Mutex
	responses []string
	err       error
	prompts   []string
}

// NewGateway creates a gateway replying with the given raw texts.
func NewGateway(responses ...string) *Gateway {
	return &Gateway{responses: responses}
}

// NewGatewayFromBank serializes the bank as the model would return it.
func NewGatewayFromBank(bank domain.QuestionBank) (*Gateway, error) {
	raw, err := json.Marshal(bank)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal question bank: %w", err)
	}
	return NewGateway(string(raw)), nil
}

// NewGatewayFromFile replies with the contents of path, read once.
func NewGatewayFromFile(path string) (*Gateway, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read canned response %s: %w", path, err)
	}
	return NewGateway(string(raw)), nil
}

// FailWith makes every following call return err.
func (g *Gateway) FailWith(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.err = err
}

// Predict records the prompt and returns the next canned response.
func (g *Gateway) Predict(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	if len(g.responses) == 0 {
		return "", fmt.Errorf("no canned response configured")
	}
	idx := len(g.prompts) - 1
	if idx >= len(g.responses) {
		idx = len(g.responses) - 1
	}
	return g.responses[idx], nil
}

// Prompts returns every prompt received so far.
func (g *Gateway) Prompts() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.prompts...)
}

// SampleBank returns a ready-made bank, handy for demos and offline runs.
func SampleBank() domain.QuestionBank {
	return domain.QuestionBank{
		{Question: "Which keyword declares a goroutine in Go?", Options: []string{"go", "async", "spawn", "thread"}, Category: "Go"},
		{Question: "What does a SQL LEFT JOIN return?", Options: []string{"Only matching rows", "All rows from the left table", "All rows from the right table", "The cartesian product"}, Category: "SQL"},
		{Question: "Which Python type is immutable?", Options: []string{"list", "dict", "set", "tuple"}, Category: "Python"},
		{Question: "What HTTP status code means Not Found?", Options: []string{"200", "301", "404", "500"}, Category: "Web"},
		{Question: "Which git command records staged changes?", Options: []string{"git add", "git commit", "git push", "git stash"}, Category: "Tooling"},
	}
}
