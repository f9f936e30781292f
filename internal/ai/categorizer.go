package ai

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Candidate is a category offered to the provider as a choice.
type Candidate struct {
	ID   uint
	Name string
}

// Categorizer asks a Provider to pick a category for a transaction.
// Callers must not invoke Suggest with an empty candidate list; they
// are expected to short-circuit before reaching the adapter.
type Categorizer struct {
	provider Provider
}

// NewCategorizer wraps a provider.
func NewCategorizer(provider Provider) *Categorizer {
	return &Categorizer{provider: provider}
}

// ProviderName reports which backend this categorizer uses.
func (c *Categorizer) ProviderName() string { return c.provider.Name() }

// Suggest returns the id of the best-matching candidate, or nil when the
// provider makes no usable suggestion. The returned id is always a
// member of candidates: an id outside the list is treated as "no
// suggestion", never surfaced as an error. Transport and auth failures
// from the provider are returned as errors; an unparsable answer is not.
func (c *Categorizer) Suggest(ctx context.Context, description string, amount float64, candidates []Candidate) (*uint, error) {
	prompt := buildPrompt(description, amount, candidates)

	answer, err := c.provider.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.provider.Name(), err)
	}

	return parseAnswer(answer, candidates), nil
}

// buildPrompt renders the candidate list as "Name (id: N)" pairs and
// asks for a bare id or the token "none".
func buildPrompt(description string, amount float64, candidates []Candidate) string {
	parts := make([]string, len(candidates))
	for i, cand := range candidates {
		parts[i] = fmt.Sprintf("%s (id: %d)", cand.Name, cand.ID)
	}

	return fmt.Sprintf(`Transaction: %q
Amount: $%.2f

Available categories: %s

Based on the transaction description and amount, which category ID is most appropriate?
Respond with only the category ID number, or "none" if no category fits.`,
		description, amount, strings.Join(parts, ", "))
}

// parseAnswer interprets the provider's raw answer. Anything that is not
// a candidate id yields nil.
func parseAnswer(answer string, candidates []Candidate) *uint {
	trimmed := strings.TrimSpace(answer)
	if strings.EqualFold(trimmed, "none") {
		return nil
	}

	parsed, err := strconv.ParseUint(trimmed, 10, 32)
	if err != nil {
		return nil
	}

	id := uint(parsed)
	for _, cand := range candidates {
		if cand.ID == id {
			return &id
		}
	}
	return nil
}
