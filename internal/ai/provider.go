// Package ai maps transactions to category suggestions using a
// configurable LLM backend. Each backend implements Provider; the
// Categorizer owns prompt construction and answer parsing so the
// backends stay thin transport clients.
package ai

import (
	"context"
	"fmt"
	"net/http"

	"coinconductor/internal/config"
)

const systemPrompt = "You are a financial assistant that categorizes transactions."

// Provider sends a categorization prompt to an AI backend and returns
// its raw textual answer. Transport, auth, and malformed-response
// failures are returned as errors; interpreting the answer is the
// caller's job.
type Provider interface {
	// Name returns the provider's configuration name (e.g. "openai").
	Name() string

	// Complete sends the prompt and returns the model's text answer.
	Complete(ctx context.Context, prompt string) (string, error)
}

// New constructs the provider selected by name, falling back to the
// configured default when name is empty. An explicit apiKey overrides
// the configured key. Ollama runs locally and needs no key.
func New(cfg *config.Config, name, apiKey string, httpClient *http.Client) (Provider, error) {
	if name == "" {
		name = cfg.DefaultAIProvider
	}
	if apiKey == "" {
		apiKey = cfg.APIKeyFor(name)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	switch name {
	case config.ProviderOpenAI:
		if apiKey == "" {
			return nil, fmt.Errorf("openai API key not provided")
		}
		return NewOpenAIProvider(httpClient, apiKey, cfg.OpenAIModel), nil
	case config.ProviderAnthropic:
		if apiKey == "" {
			return nil, fmt.Errorf("anthropic API key not provided")
		}
		return NewAnthropicProvider(httpClient, apiKey, cfg.AnthropicModel), nil
	case config.ProviderGoogle:
		if apiKey == "" {
			return nil, fmt.Errorf("google API key not provided")
		}
		return NewGoogleProvider(httpClient, apiKey, cfg.GoogleModel), nil
	case config.ProviderOllama:
		return NewOllamaProvider(httpClient, cfg.OllamaHost, cfg.OllamaModel), nil
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", name)
	}
}
