package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"coinconductor/internal/config"
)

const googleBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

type googleRequest struct {
	Contents []googleContent `json:"contents"`
}

type googleContent struct {
	Parts []googlePart `json:"parts"`
}

type googlePart struct {
	Text string `json:"text"`
}

type googleResponse struct {
	Candidates []struct {
		Content googleContent `json:"content"`
	} `json:"candidates"`
}

// GoogleProvider calls the Google Generative Language (Gemini) API.
type GoogleProvider struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string // overridable for tests
}

// NewGoogleProvider creates a Gemini-backed provider.
func NewGoogleProvider(httpClient *http.Client, apiKey, model string) *GoogleProvider {
	return &GoogleProvider{httpClient: httpClient, apiKey: apiKey, model: model, baseURL: googleBaseURL}
}

// Name returns the provider's configuration name.
func (p *GoogleProvider) Name() string { return config.ProviderGoogle }

// Complete sends the prompt and returns the first candidate's text.
func (p *GoogleProvider) Complete(ctx context.Context, prompt string) (string, error) {
	payload := googleRequest{
		Contents: []googleContent{{Parts: []googlePart{{Text: prompt}}}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s:generateContent?key=%s", p.baseURL, p.model, url.QueryEscape(p.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
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

	var decoded googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty candidates in response")
	}

	return decoded.Candidates[0].Content.Parts[0].Text, nil
}
