package screening

import (
	"context"

	"github.com/aretw0/talentscout/pkg/domain"
)

// Render calculates the actions for the current state without advancing it.
// Assistant messages added since the last candidate message are replayed first,
// followed by the prompt of the current phase.
func (m *Machine) Render(_ context.Context, state *domain.SessionState) ([]domain.ActionRequest, error) {
	if state == nil {
		return nil, domain.NewError(domain.KindInvalidTransition, "Render", nil)
	}
	actions := pendingMessages(state)

	switch state.Phase {
	case domain.PhaseCollectingInfo:
		if stage, ok := state.CurrentStage(); ok {
			actions = append(actions,
				content(stage.Prompt),
				domain.ActionRequest{
					Type:    domain.ActionRequestInput,
					Payload: domain.InputRequest{Type: domain.InputTypeText, Field: stage.Key},
				})
		}
	case domain.PhaseGeneratingQuestions:
		if state.LastError != "" {
			actions = append(actions,
				domain.ActionRequest{Type: domain.ActionSystemMessage, Payload: state.LastError},
				domain.ActionRequest{
					Type:    domain.ActionRequestInput,
					Payload: domain.InputRequest{Type: domain.InputTypeRetry},
				})
		} else {
			actions = append(actions, domain.ActionRequest{Type: domain.ActionSystemMessage, Payload: GeneratingMessage})
		}
	case domain.PhaseAnsweringQuestions:
		if q, ok := state.CurrentQuestion(); ok {
			actions = append(actions,
				content(QuestionLine(state.Index+1, q.Question)),
				domain.ActionRequest{
					Type: domain.ActionRequestInput,
					Payload: domain.InputRequest{
						Type:    domain.InputTypeChoice,
						Options: append([]string(nil), q.Options...),
					},
				})
		}
	}
	return actions, nil
}

func pendingMessages(state *domain.SessionState) []domain.ActionRequest {
	start := 0
	for i := len(state.Transcript) - 1; i >= 0; i-- {
		if state.Transcript[i].Role == domain.RoleUser {
			start = i + 1
			break
		}
	}
	var actions []domain.ActionRequest
	for _, msg := range state.Transcript[start:] {
		actions = append(actions, content(msg.Content))
	}
	return actions
}

func content(text string) domain.ActionRequest {
	return domain.ActionRequest{Type: domain.ActionRenderContent, Payload: text}
}
