// Package gemini adapts the Google GenAI SDK to ports.ModelGateway.
package gemini

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-2.5-flash"

// ContentGenerator is the subset of genai.Models used here.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gateway asks Gemini for a JSON completion.
type Gateway struct {
	models      ContentGenerator
	model       string
	temperature float32
}

// New creates a Gateway using the Gemini API backend.
func New(ctx context.Context, apiKey, model string, temperature float64) (*Gateway, error) {
	if apiKey == "" {
		return nil, errors.New("gemini provider requires an api key")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return NewWithGenerator(client.Models, model, temperature), nil
}

// NewWithGenerator wires a custom generator, mainly for tests.
func NewWithGenerator(models ContentGenerator, model string, temperature float64) *Gateway {
	if model == "" {
		model = DefaultModel
	}
	return &Gateway{models: models, model: model, temperature: float32(temperature)}
}

// Predict implements ports.ModelGateway.
func (g *Gateway) Predict(ctx context.Context, prompt string) (string, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(g.temperature),
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return resp.Text(), nil
}
