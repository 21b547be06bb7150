package screening

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/talentscout/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payloads(actions []domain.ActionRequest, typ string) []any {
	var out []any
	for _, a := range actions {
		if a.Type == typ {
			out = append(out, a.Payload)
		}
	}
	return out
}

func TestRender_FirstStage(t *testing.T) {
	m := New(&fakeGateway{})
	actions, err := m.Render(context.Background(), started(t, m))
	require.NoError(t, err)

	assert.Equal(t, []any{Greeting, domain.InfoStages[0].Prompt}, payloads(actions, domain.ActionRenderContent))
	req := payloads(actions, domain.ActionRequestInput)
	require.Len(t, req, 1)
	assert.Equal(t, domain.InputRequest{Type: domain.InputTypeText, Field: domain.FieldName}, req[0])
}

func TestRender_AcknowledgesPreviousField(t *testing.T) {
	m := New(&fakeGateway{})
	s, err := m.AdvanceInfo(context.Background(), started(t, m), "Ada")
	require.NoError(t, err)

	actions, err := m.Render(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, []any{Acknowledge(domain.FieldName, "Ada"), domain.InfoStages[1].Prompt},
		payloads(actions, domain.ActionRenderContent))
}

func TestRender_Question(t *testing.T) {
	m := New(&fakeGateway{response: sampleResponse()})
	s, err := m.GenerateQuestions(context.Background(), collectAll(t, m, adaFields))
	require.NoError(t, err)

	actions, err := m.Render(context.Background(), s)
	require.NoError(t, err)
	content := payloads(actions, domain.ActionRenderContent)
	assert.Equal(t, "Question 1: Question about topic 1?", content[len(content)-1])

	req := payloads(actions, domain.ActionRequestInput)
	require.Len(t, req, 1)
	assert.Equal(t, domain.InputTypeChoice, req[0].(domain.InputRequest).Type)
	assert.Equal(t, []string{"A", "B", "C", "D"}, req[0].(domain.InputRequest).Options)
}

func TestRender_GenerationFailureOffersRetry(t *testing.T) {
	m := New(&fakeGateway{err: errors.New("boom")})
	s, _ := m.GenerateQuestions(context.Background(), collectAll(t, m, adaFields))

	actions, err := m.Render(context.Background(), s)
	require.NoError(t, err)
	sys := payloads(actions, domain.ActionSystemMessage)
	require.Len(t, sys, 1)
	assert.Contains(t, sys[0], "boom")
	req := payloads(actions, domain.ActionRequestInput)
	require.Len(t, req, 1)
	assert.Equal(t, domain.InputTypeRetry, req[0].(domain.InputRequest).Type)
}

func TestRender_Terminal(t *testing.T) {
	m := New(&fakeGateway{})
	s, err := m.ExitNow(context.Background(), started(t, m))
	require.NoError(t, err)

	actions, err := m.Render(context.Background(), s)
	require.NoError(t, err)
	assert.Empty(t, payloads(actions, domain.ActionRequestInput))
	content := payloads(actions, domain.ActionRenderContent)
	require.Len(t, content, 1, "only messages after the exit are replayed")
	assert.Equal(t, ExitMessage, content[0])
}
