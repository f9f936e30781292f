package bank

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// SignatureHeader carries the HMAC signature of the webhook body.
const SignatureHeader = "Webhook-Signature"

// Event is a single webhook event. Payment events link the payment id
// the event refers to; other resource types leave it empty.
type Event struct {
	ID           string `json:"id"`
	ResourceType string `json:"resource_type"`
	Action       string `json:"action"`
	Links        struct {
		Payment string `json:"payment"`
	} `json:"links"`
}

// webhookPayload is the provider's event envelope.
type webhookPayload struct {
	Events []Event `json:"events"`
}

// VerifySignature checks the HMAC-SHA256 hex signature of a webhook body
// against the shared webhook secret. Comparison is constant-time.
func VerifySignature(body []byte, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}

// ParseEvents decodes the webhook body into events.
func ParseEvents(body []byte) ([]Event, error) {
	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decoding webhook body: %w", err)
	}
	return payload.Events, nil
}

// Sign computes the hex HMAC-SHA256 signature for a body. Used by tests
// and sandbox tooling to produce valid webhook requests.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
