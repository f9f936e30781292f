package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "coinconductor/internal/errors"
	"coinconductor/internal/services"
)

// --- mock categorize service ---

type mockCategorizeService struct {
	categorizeTransactionFn func(ctx context.Context, userID, transactionID uint, provider, apiKey string) (*services.Suggestion, error)
	bulkCategorizeFn        func(ctx context.Context, userID uint, provider, apiKey string) ([]services.Suggestion, error)
}

func (m *mockCategorizeService) CategorizeTransaction(ctx context.Context, userID, transactionID uint, provider, apiKey string) (*services.Suggestion, error) {
	if m.categorizeTransactionFn != nil {
		return m.categorizeTransactionFn(ctx, userID, transactionID, provider, apiKey)
	}
	return &services.Suggestion{}, nil
}

func (m *mockCategorizeService) BulkCategorize(ctx context.Context, userID uint, provider, apiKey string) ([]services.Suggestion, error) {
	if m.bulkCategorizeFn != nil {
		return m.bulkCategorizeFn(ctx, userID, provider, apiKey)
	}
	return []services.Suggestion{}, nil
}

func (m *mockCategorizeService) SweepUncategorized(ctx context.Context) {}

var _ services.CategorizeServicer = (*mockCategorizeService)(nil)

func setupAIRouter(handler *AIHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.POST("/ai/categorize", handler.Categorize)
	auth.POST("/ai/bulk-categorize", handler.BulkCategorize)
	return r
}

func TestAIHandler_Categorize(t *testing.T) {
	t.Run("returns suggestion", func(t *testing.T) {
		categoryID := uint(3)
		categoryName := "Groceries"
		var gotProvider, gotKey string
		aiSvc := &mockCategorizeService{
			categorizeTransactionFn: func(_ context.Context, _ uint, transactionID uint, provider, apiKey string) (*services.Suggestion, error) {
				gotProvider, gotKey = provider, apiKey
				return &services.Suggestion{
					TransactionID: transactionID,
					Description:   "REWE Berlin",
					CategoryID:    &categoryID,
					CategoryName:  &categoryName,
				}, nil
			},
		}
		r := setupAIRouter(NewAIHandler(aiSvc))

		rec := doRequest(r, "POST", "/ai/categorize?provider=anthropic&api_key=sk-test",
			`{"transaction_id":7}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotProvider != "anthropic" || gotKey != "sk-test" {
			t.Errorf("expected provider overrides to reach the service, got %q %q", gotProvider, gotKey)
		}
		result := parseJSON(t, rec)
		if result["category_name"] != "Groceries" {
			t.Errorf("expected Groceries, got %v", result["category_name"])
		}
	})

	t.Run("returns 400 without transaction id", func(t *testing.T) {
		r := setupAIRouter(NewAIHandler(&mockCategorizeService{}))
		rec := doRequest(r, "POST", "/ai/categorize", `{}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 when no categories exist", func(t *testing.T) {
		aiSvc := &mockCategorizeService{
			categorizeTransactionFn: func(_ context.Context, _, _ uint, _, _ string) (*services.Suggestion, error) {
				return nil, apperrors.WithMessage(apperrors.ErrConfiguration, "No categories found. Please create categories first.")
			},
		}
		r := setupAIRouter(NewAIHandler(aiSvc))

		rec := doRequest(r, "POST", "/ai/categorize", `{"transaction_id":7}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CONFIGURATION_ERROR")
	})
}

func TestAIHandler_BulkCategorize(t *testing.T) {
	t.Run("returns report", func(t *testing.T) {
		aiSvc := &mockCategorizeService{
			bulkCategorizeFn: func(_ context.Context, _ uint, provider, _ string) ([]services.Suggestion, error) {
				return []services.Suggestion{
					{TransactionID: 1, Description: "a"},
					{TransactionID: 2, Description: "b"},
				}, nil
			},
		}
		r := setupAIRouter(NewAIHandler(aiSvc))

		rec := doRequest(r, "POST", "/ai/bulk-categorize", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("propagates provider errors", func(t *testing.T) {
		aiSvc := &mockCategorizeService{
			bulkCategorizeFn: func(_ context.Context, _ uint, _, _ string) ([]services.Suggestion, error) {
				return nil, apperrors.ErrAIProvider
			},
		}
		r := setupAIRouter(NewAIHandler(aiSvc))

		rec := doRequest(r, "POST", "/ai/bulk-categorize", "")
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "AI_PROVIDER_ERROR")
	})
}
