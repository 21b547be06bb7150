package screening

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/aretw0/talentscout/pkg/domain"
	"github.com/aretw0/talentscout/pkg/report"
)

type fakeGateway struct {
	mu       sync.Mutex
	response string
	err      error
	prompts  []string
}

func (g *fakeGateway) Predict(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	return g.response, g.err
}

func (g *fakeGateway) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

type fakeWriter struct {
	mu      sync.Mutex
	reports []string
	err     error
}

func (w *fakeWriter) Flush(_ context.Context, state *domain.SessionState) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reports = append(w.reports, report.Format(state))
	return w.err
}

type fakeCache struct {
	banks map[string]domain.QuestionBank
}

func (c *fakeCache) Store(_ context.Context, sessionID string, bank domain.QuestionBank) error {
	if c.banks == nil {
		c.banks = map[string]domain.QuestionBank{}
	}
	c.banks[sessionID] = bank
	return nil
}

type fakePublisher struct {
	events []domain.SessionEvent
}

func (p *fakePublisher) Publish(_ context.Context, e domain.SessionEvent) error {
	p.events = append(p.events, e)
	return errors.New("broker down")
}

func sampleBank() domain.QuestionBank {
	bank := make(domain.QuestionBank, domain.QuestionCount)
	for i := range bank {
		bank[i] = domain.QuestionItem{
			Question: fmt.Sprintf("Question about topic %d?", i+1),
			Options:  []string{"A", "B", "C", "D"},
			Category: "Python",
		}
	}
	return bank
}

func sampleResponse() string {
	b, _ := json.Marshal(sampleBank())
	return string(b)
}

var adaFields = []string{"Ada", "a@x.com", "555", "3", "Engineer", "NYC", "Python, SQL"}
