package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"coinconductor/internal/config"
)

const (
	anthropicBaseURL = "https://api.anthropic.com/v1/messages"
	anthropicVersion = "2023-06-01"
)

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	System      string             `json:"system"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

// AnthropicProvider calls the Anthropic Messages API.
type AnthropicProvider struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string // overridable for tests
}

// NewAnthropicProvider creates an Anthropic-backed provider.
func NewAnthropicProvider(httpClient *http.Client, apiKey, model string) *AnthropicProvider {
	return &AnthropicProvider{httpClient: httpClient, apiKey: apiKey, model: model, baseURL: anthropicBaseURL}
}

// Name returns the provider's configuration name.
func (p *AnthropicProvider) Name() string { return config.ProviderAnthropic }

// Complete sends the prompt and returns the first content block's text.
func (p *AnthropicProvider) Complete(ctx context.Context, prompt string) (string, error) {
	payload := anthropicRequest{
		Model:       p.model,
		MaxTokens:   10,
		Temperature: 0.1,
		System:      systemPrompt,
		Messages:    []anthropicMessage{{Role: "user", Content: prompt}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var decoded anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if len(decoded.Content) == 0 {
		return "", fmt.Errorf("empty content in response")
	}

	return decoded.Content[0].Text, nil
}
