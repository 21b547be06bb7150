// Package langchain adapts langchaingo models to ports.ModelGateway.
package langchain

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// DefaultTemperature keeps question banks close to deterministic.
const DefaultTemperature = 0.2

// DefaultOpenAIModel is used when no OpenAI model name is configured.
const DefaultOpenAIModel = "gpt-4o-mini"

// Gateway sends the prompt as a single completion request.
type Gateway struct {
	model       llms.Model
	temperature float64
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(g *Gateway) { g.temperature = t }
}

// New wraps an existing langchaingo model.
func New(model llms.Model, opts ...Option) *Gateway {
	g := &Gateway{model: model, temperature: DefaultTemperature}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewOllama connects to a local Ollama server. An empty baseURL uses the client default.
func NewOllama(model, baseURL string, opts ...Option) (*Gateway, error) {
	ollamaOpts := []ollama.Option{ollama.WithModel(model)}
	if baseURL != "" {
		ollamaOpts = append(ollamaOpts, ollama.WithServerURL(baseURL))
	}
	llm, err := ollama.New(ollamaOpts...)
	if err != nil {
		return nil, fmt.Errorf("create ollama client: %w", err)
	}
	return New(llm, opts...), nil
}

// NewOpenAI connects to OpenAI or any compatible endpoint.
func NewOpenAI(model, apiKey, baseURL string, opts ...Option) (*Gateway, error) {
	if apiKey == "" {
		return nil, errors.New("openai provider requires an api key")
	}
	openaiOpts := []openai.Option{
		openai.WithModel(model),
		openai.WithToken(apiKey),
	}
	if baseURL != "" {
		openaiOpts = append(openaiOpts, openai.WithBaseURL(baseURL))
	}
	llm, err := openai.New(openaiOpts...)
	if err != nil {
		return nil, fmt.Errorf("create openai client: %w", err)
	}
	return New(llm, opts...), nil
}

// Predict implements ports.ModelGateway.
func (g *Gateway) Predict(ctx context.Context, prompt string) (string, error) {
	completion, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt,
		llms.WithTemperature(g.temperature),
	)
	if err != nil {
		return "", fmt.Errorf("langchain completion: %w", err)
	}
	return completion, nil
}
