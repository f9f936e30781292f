package bank

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewClient(t *testing.T) {
	t.Run("sandbox", func(t *testing.T) {
		c, err := NewClient(http.DefaultClient, "token", "sandbox")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.baseURL != sandboxBaseURL {
			t.Errorf("expected sandbox base URL, got %s", c.baseURL)
		}
	})

	t.Run("live", func(t *testing.T) {
		c, err := NewClient(http.DefaultClient, "token", "live")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.baseURL != liveBaseURL {
			t.Errorf("expected live base URL, got %s", c.baseURL)
		}
	})

	t.Run("missing_token", func(t *testing.T) {
		if _, err := NewClient(http.DefaultClient, "", "sandbox"); err == nil {
			t.Fatal("expected error for missing token")
		}
	})

	t.Run("invalid_environment", func(t *testing.T) {
		if _, err := NewClient(http.DefaultClient, "token", "staging"); err == nil {
			t.Fatal("expected error for invalid environment")
		}
	})
}

func TestListPayments(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		since := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer tok" {
				t.Errorf("unexpected auth header %q", got)
			}
			if got := r.URL.Query().Get("created_at[gte]"); got != "2025-05-01T00:00:00Z" {
				t.Errorf("unexpected created_at[gte] %q", got)
			}
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"payments": []map[string]interface{}{
					{
						"id":          "PM123",
						"amount":      4550,
						"currency":    "EUR",
						"status":      "confirmed",
						"description": "Coffee subscription",
						"created_at":  "2025-05-02T10:30:00Z",
					},
				},
			})
		}))
		defer server.Close()

		c := &Client{httpClient: server.Client(), accessToken: "tok", baseURL: server.URL}
		payments, err := c.ListPayments(context.Background(), since)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(payments) != 1 {
			t.Fatalf("expected 1 payment, got %d", len(payments))
		}

		p := payments[0]
		if p.ID != "PM123" {
			t.Errorf("expected id PM123, got %s", p.ID)
		}
		if p.Amount != 45.50 {
			t.Errorf("expected amount 45.50, got %f", p.Amount)
		}
		if p.CreatedAt.Day() != 2 {
			t.Errorf("unexpected created_at %v", p.CreatedAt)
		}
	})

	t.Run("rejected_credentials", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		c := &Client{httpClient: server.Client(), accessToken: "bad", baseURL: server.URL}
		_, err := c.ListPayments(context.Background(), time.Now())
		if err == nil || !strings.Contains(err.Error(), "unexpected status 401") {
			t.Fatalf("expected status error, got %v", err)
		}
	})

	t.Run("empty_list", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"payments":[]}`))
		}))
		defer server.Close()

		c := &Client{httpClient: server.Client(), accessToken: "tok", baseURL: server.URL}
		payments, err := c.ListPayments(context.Background(), time.Now())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(payments) != 0 {
			t.Errorf("expected no payments, got %d", len(payments))
		}
	})
}

func TestWebhookSignature(t *testing.T) {
	body := []byte(`{"events":[{"id":"EV1","resource_type":"payments","action":"confirmed","links":{"payment":"PM123"}}]}`)

	t.Run("valid", func(t *testing.T) {
		sig := Sign(body, "whsec")
		if !VerifySignature(body, sig, "whsec") {
			t.Error("expected valid signature")
		}
	})

	t.Run("wrong_secret", func(t *testing.T) {
		sig := Sign(body, "whsec")
		if VerifySignature(body, sig, "other-secret") {
			t.Error("expected invalid signature with wrong secret")
		}
	})

	t.Run("tampered_body", func(t *testing.T) {
		sig := Sign(body, "whsec")
		tampered := append([]byte{}, body...)
		tampered[10] ^= 0xff
		if VerifySignature(tampered, sig, "whsec") {
			t.Error("expected invalid signature for tampered body")
		}
	})
}

func TestParseEvents(t *testing.T) {
	body := []byte(`{"events":[{"id":"EV1","resource_type":"payments","action":"confirmed","links":{"payment":"PM123"}},{"id":"EV2","resource_type":"mandates","action":"created","links":{}}]}`)

	events, err := ParseEvents(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Links.Payment != "PM123" {
		t.Errorf("expected payment link PM123, got %s", events[0].Links.Payment)
	}
	if events[1].Links.Payment != "" {
		t.Errorf("expected empty payment link, got %s", events[1].Links.Payment)
	}

	if _, err := ParseEvents([]byte("not json")); err == nil {
		t.Fatal("expected error for malformed body")
	}
}
