package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"coinconductor/internal/config"
)

type ollamaRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaResponse struct {
	Message ollamaMessage `json:"message"`
}

// OllamaProvider calls a locally running Ollama server. No API key is
// required.
type OllamaProvider struct {
	httpClient *http.Client
	host       string
	model      string
}

// NewOllamaProvider creates an Ollama-backed provider for the given host.
func NewOllamaProvider(httpClient *http.Client, host, model string) *OllamaProvider {
	return &OllamaProvider{httpClient: httpClient, host: strings.TrimRight(host, "/"), model: model}
}

// Name returns the provider's configuration name.
func (p *OllamaProvider) Name() string { return config.ProviderOllama }

// Complete sends the prompt and returns the chat answer.
func (p *OllamaProvider) Complete(ctx context.Context, prompt string) (string, error) {
	payload := ollamaRequest{
		Model: p.model,
		Messages: []ollamaMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Stream: false,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.host+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var decoded ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	return decoded.Message.Content, nil
}
