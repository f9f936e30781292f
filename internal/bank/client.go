// Package bank talks to the GoCardless payments API: it pulls payment
// records for ledger ingestion and verifies webhook signatures.
package bank

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	sandboxBaseURL = "https://api-sandbox.gocardless.com"
	liveBaseURL    = "https://api.gocardless.com"

	apiVersion = "2015-07-06"
)

// Payment is a single payment record in ledger-friendly form. Amount is
// converted from the provider's integer cents to the same float currency
// unit the ledger stores.
type Payment struct {
	ID          string
	Amount      float64
	Currency    string
	Status      string
	Description string
	CreatedAt   time.Time
}

// paymentsResponse is the provider's list envelope.
type paymentsResponse struct {
	Payments []struct {
		ID          string `json:"id"`
		Amount      int64  `json:"amount"` // cents
		Currency    string `json:"currency"`
		Status      string `json:"status"`
		Description string `json:"description"`
		CreatedAt   string `json:"created_at"`
	} `json:"payments"`
}

// Client is an authenticated GoCardless API client. The provider
// authenticates with a single access token; per the bank account model
// it is stored in the secret_key field.
type Client struct {
	httpClient  *http.Client
	accessToken string
	baseURL     string // overridable for tests
}

// NewClient builds a client for the given environment ("sandbox" or
// "live"). An empty access token or unknown environment is a
// construction error; callers surface it as a sync failure.
func NewClient(httpClient *http.Client, accessToken, environment string) (*Client, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("access token not provided")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	var baseURL string
	switch environment {
	case "sandbox":
		baseURL = sandboxBaseURL
	case "live":
		baseURL = liveBaseURL
	default:
		return nil, fmt.Errorf("invalid environment: %s", environment)
	}

	return &Client{httpClient: httpClient, accessToken: accessToken, baseURL: baseURL}, nil
}

// ListPayments fetches payments created at or after since, using the
// provider's native created_at[gte] filter.
func (c *Client) ListPayments(ctx context.Context, since time.Time) ([]Payment, error) {
	query := url.Values{}
	query.Set("created_at[gte]", since.UTC().Format(time.RFC3339))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/payments?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("GoCardless-Version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var decoded paymentsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	payments := make([]Payment, 0, len(decoded.Payments))
	for _, p := range decoded.Payments {
		createdAt, err := time.Parse(time.RFC3339, p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at %q: %w", p.CreatedAt, err)
		}
		payments = append(payments, Payment{
			ID:          p.ID,
			Amount:      float64(p.Amount) / 100,
			Currency:    p.Currency,
			Status:      p.Status,
			Description: p.Description,
			CreatedAt:   createdAt,
		})
	}

	return payments, nil
}
